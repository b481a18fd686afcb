package memory

import (
	"context"
	"time"

	"github.com/dmitrijs2005/feedhub/internal/common"
	"github.com/dmitrijs2005/feedhub/internal/server/models"
	"github.com/google/uuid"
)

type userRepo struct {
	m *Manager
}

func (r *userRepo) Create(ctx context.Context, user *models.User) (*models.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	if _, ok := r.m.byName[user.UserName]; ok {
		return nil, common.ErrorAlreadyExists
	}

	user.ID = uuid.NewString()
	user.CreatedAt = time.Now()
	r.m.users[user.ID] = *user
	r.m.byName[user.UserName] = user.ID

	return user, nil
}

func (r *userRepo) GetUserByLogin(ctx context.Context, login string) (*models.User, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	id, ok := r.m.byName[login]
	if !ok {
		return nil, common.ErrorNotFound
	}
	u := r.m.users[id]
	return &u, nil
}

func (r *userRepo) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	u, ok := r.m.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &u, nil
}

func (r *userRepo) Delete(ctx context.Context, id string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	u, ok := r.m.users[id]
	if !ok {
		return common.ErrorNotFound
	}
	delete(r.m.users, id)
	delete(r.m.byName, u.UserName)
	return nil
}
