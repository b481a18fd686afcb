package auth

import (
	"context"

	"github.com/dmitrijs2005/feedhub/internal/server/models"
)

type identityKey struct{}

// WithIdentity returns a copy of ctx carrying id. The identity is stored by
// value, so later changes to the caller's variable are not visible.
func WithIdentity(ctx context.Context, id models.Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFrom returns the identity attached by WithIdentity.
func IdentityFrom(ctx context.Context) (models.Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(models.Identity)
	return id, ok
}
