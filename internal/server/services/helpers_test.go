package services

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/feedhub/internal/dbx"
	"github.com/dmitrijs2005/feedhub/internal/logging"
	"github.com/dmitrijs2005/feedhub/internal/server/config"
	"github.com/dmitrijs2005/feedhub/internal/server/models"
	"github.com/dmitrijs2005/feedhub/internal/server/repositories/memory"
	notificationsrepo "github.com/dmitrijs2005/feedhub/internal/server/repositories/notifications"
	"github.com/dmitrijs2005/feedhub/internal/server/repositories/repomanager"
	usersrepo "github.com/dmitrijs2005/feedhub/internal/server/repositories/users"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func testConfig() *config.Config {
	return &config.Config{
		SecretKey:                   "test-secret",
		AccessTokenValidityDuration: time.Hour,
		TokenClockSkew:              time.Second,
		StoreTimeout:                time.Second,
	}
}

type env struct {
	cfg      *config.Config
	store    *repomanager.Store
	verifier *IdentityVerifier
	ledger   *NotificationLedger
	users    *UserService
}

func newEnvWithStore(t *testing.T, store *repomanager.Store) *env {
	t.Helper()
	cfg := testConfig()
	log := logging.Nop()
	ledger := NewNotificationLedger(store, cfg, log)
	us := NewUserService(store, ledger, cfg, log)
	us.bcryptCost = bcrypt.MinCost
	return &env{
		cfg:      cfg,
		store:    store,
		verifier: NewIdentityVerifier(store, cfg, log),
		ledger:   ledger,
		users:    us,
	}
}

func newEnv(t *testing.T) *env {
	return newEnvWithStore(t, memory.Open())
}

func (e *env) register(t *testing.T, name string) *models.User {
	t.Helper()
	u, err := e.users.Register(context.Background(), name, name+" Full", "pw-"+name)
	require.NoError(t, err)
	return u
}

// stepClock returns a clock that advances by one second on every call.
func stepClock(start time.Time) func() time.Time {
	next := start
	return func() time.Time {
		now := next
		next = next.Add(time.Second)
		return now
	}
}

// brokenManager serves the memory repositories except where an error is
// configured, in which case every call of that repository fails with it.
type brokenManager struct {
	*memory.Manager
	usersErr         error
	notificationsErr error
}

func (m *brokenManager) Users(db dbx.DBTX) usersrepo.Repository {
	if m.usersErr != nil {
		return failingUsers{err: m.usersErr}
	}
	return m.Manager.Users(db)
}

func (m *brokenManager) Notifications(db dbx.DBTX) notificationsrepo.Repository {
	if m.notificationsErr != nil {
		return failingNotifications{err: m.notificationsErr}
	}
	return m.Manager.Notifications(db)
}

func newBrokenStore(usersErr, notificationsErr error) (*repomanager.Store, *memory.Manager) {
	base := memory.NewManager()
	bm := &brokenManager{Manager: base, usersErr: usersErr, notificationsErr: notificationsErr}
	return repomanager.NewStore(nil, base, bm, nil), base
}

type failingUsers struct{ err error }

func (f failingUsers) Create(context.Context, *models.User) (*models.User, error) { return nil, f.err }
func (f failingUsers) GetUserByLogin(context.Context, string) (*models.User, error) {
	return nil, f.err
}
func (f failingUsers) GetUserByID(context.Context, string) (*models.User, error) { return nil, f.err }
func (f failingUsers) Delete(context.Context, string) error                       { return f.err }

type failingNotifications struct{ err error }

func (f failingNotifications) Create(context.Context, *models.Notification) error { return f.err }
func (f failingNotifications) Acknowledge(context.Context, string) ([]string, error) {
	return nil, f.err
}
func (f failingNotifications) ListRead(context.Context, string) ([]models.InboxEntry, error) {
	return nil, f.err
}
func (f failingNotifications) CountUnread(context.Context, string) (int64, error) { return 0, f.err }
func (f failingNotifications) DeleteForRecipient(context.Context, string) (int64, error) {
	return 0, f.err
}
