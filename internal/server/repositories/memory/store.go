// Package memory keeps users, follows and inboxes in process memory. It
// satisfies the same repository contracts as the PostgreSQL implementation
// and backs the -m memory storage mode and the service tests.
package memory

import (
	"context"
	"database/sql"
	"sync"

	"github.com/dmitrijs2005/feedhub/internal/dbx"
	"github.com/dmitrijs2005/feedhub/internal/server/models"
	"github.com/dmitrijs2005/feedhub/internal/server/repositories/follows"
	"github.com/dmitrijs2005/feedhub/internal/server/repositories/notifications"
	"github.com/dmitrijs2005/feedhub/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/feedhub/internal/server/repositories/users"
)

type followKey struct {
	follower, followee string
}

type record struct {
	n   models.Notification
	seq uint64
}

// inbox is one recipient's notifications. Its mutex serializes every
// operation on that recipient only.
type inbox struct {
	mu      sync.Mutex
	records []record
}

// Manager is a RepositoryManager whose repositories ignore the DBTX they are
// bound to and share one in-memory dataset.
type Manager struct {
	mu      sync.RWMutex
	users   map[string]models.User
	byName  map[string]string
	follows map[followKey]struct{}

	inboxMu sync.Mutex
	inboxes map[string]*inbox
	seq     uint64
}

func NewManager() *Manager {
	return &Manager{
		users:   make(map[string]models.User),
		byName:  make(map[string]string),
		follows: make(map[followKey]struct{}),
		inboxes: make(map[string]*inbox),
	}
}

func (m *Manager) RunMigrations(context.Context, *sql.DB) error {
	return nil
}

func (m *Manager) Users(dbx.DBTX) users.Repository {
	return &userRepo{m: m}
}

func (m *Manager) Follows(dbx.DBTX) follows.Repository {
	return &followRepo{m: m}
}

func (m *Manager) Notifications(dbx.DBTX) notifications.Repository {
	return &notificationRepo{m: m}
}

// WithTx runs fn directly. Each repository call is atomic on its own.
func (m *Manager) WithTx(ctx context.Context, _ *sql.TxOptions, fn func(ctx context.Context, tx dbx.DBTX) error) error {
	return fn(ctx, nil)
}

// inboxFor returns the recipient's inbox, creating it when create is set.
func (m *Manager) inboxFor(recipientID string, create bool) *inbox {
	m.inboxMu.Lock()
	defer m.inboxMu.Unlock()

	ib, ok := m.inboxes[recipientID]
	if !ok && create {
		ib = &inbox{}
		m.inboxes[recipientID] = ib
	}
	return ib
}

func (m *Manager) nextSeq() uint64 {
	m.inboxMu.Lock()
	defer m.inboxMu.Unlock()
	m.seq++
	return m.seq
}

// Open returns a Store backed by a fresh Manager.
func Open() *repomanager.Store {
	m := NewManager()
	return repomanager.NewStore(nil, m, m, nil)
}
