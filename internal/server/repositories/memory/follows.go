package memory

import "context"

type followRepo struct {
	m *Manager
}

func (r *followRepo) Exists(ctx context.Context, followerID, followeeID string) (bool, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	_, ok := r.m.follows[followKey{followerID, followeeID}]
	return ok, nil
}

func (r *followRepo) Create(ctx context.Context, followerID, followeeID string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	r.m.follows[followKey{followerID, followeeID}] = struct{}{}
	return nil
}

func (r *followRepo) Delete(ctx context.Context, followerID, followeeID string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	delete(r.m.follows, followKey{followerID, followeeID})
	return nil
}
