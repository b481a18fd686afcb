// Package client talks to the feedhub HTTP API on behalf of the inbox tool.
//
// An HTTPClient logs in once and then sends the session token as a bearer
// header on every call. Server-side rejections of the session map to
// ErrUnauthorized, 5xx responses and transport failures to ErrUnavailable;
// match them with errors.Is.
package client
