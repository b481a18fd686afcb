package common

// TokenCookieName is the cookie that carries the session token for browser
// clients.
const TokenCookieName = "jwt"

// BearerScheme is the Authorization header scheme accepted by the API.
const BearerScheme = "Bearer"
