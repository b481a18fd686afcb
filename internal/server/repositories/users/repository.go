// Package users declares the server-side repository contract for user
// accounts and its PostgreSQL implementation.
package users

import (
	"context"

	"github.com/dmitrijs2005/feedhub/internal/server/models"
)

// Repository stores user accounts. Lookups return common.ErrorNotFound when
// the user does not exist.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetUserByLogin(ctx context.Context, login string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	Delete(ctx context.Context, id string) error
}
