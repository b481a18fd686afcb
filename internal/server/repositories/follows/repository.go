// Package follows stores the follower graph used by the follow action.
package follows

import "context"

type Repository interface {
	Exists(ctx context.Context, followerID, followeeID string) (bool, error)
	Create(ctx context.Context, followerID, followeeID string) error
	Delete(ctx context.Context, followerID, followeeID string) error
}
