package services

import (
	"context"
	"errors"
	"testing"

	"github.com/dmitrijs2005/feedhub/internal/common"
	"github.com/dmitrijs2005/feedhub/internal/logging"
	"github.com/dmitrijs2005/feedhub/internal/server/models"
	"github.com/dmitrijs2005/feedhub/internal/server/repositories/memory"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestRegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	u, err := e.users.Register(ctx, "alice", "Alice A", "s3cret")
	require.NoError(t, err)
	assert.NotEqual(t, []byte("s3cret"), u.PasswordHash)

	id, token, err := e.users.Login(ctx, "alice", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, u.ID, id.ID)
	assert.Equal(t, "Alice A", id.FullName)

	resolved, err := e.verifier.Authenticate(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, id, resolved)
}

func TestRegister_Duplicate(t *testing.T) {
	e := newEnv(t)
	e.register(t, "alice")

	_, err := e.users.Register(context.Background(), "alice", "", "x")
	assert.ErrorIs(t, err, common.ErrorAlreadyExists)
}

func TestLogin_DoesNotRevealWhichCheckFailed(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	e.register(t, "alice")

	_, _, errWrongPw := e.users.Login(ctx, "alice", "nope")
	_, _, errNoUser := e.users.Login(ctx, "nobody", "nope")

	assert.ErrorIs(t, errWrongPw, common.ErrorUnauthorized)
	assert.ErrorIs(t, errNoUser, common.ErrorUnauthorized)
	assert.Equal(t, errWrongPw, errNoUser)
}

func TestLogin_StoreFailureIsInternal(t *testing.T) {
	store, _ := newBrokenStore(errors.New("down"), nil)
	us := NewUserService(store, nil, testConfig(), logging.Nop())

	_, _, err := us.Login(context.Background(), "alice", "pw")
	assert.ErrorIs(t, err, common.ErrorInternal)
}

func TestToggleFollow_NotifiesOnFollowOnly(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	alice := e.register(t, "alice")
	bob := e.register(t, "bob")

	following, err := e.users.ToggleFollow(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, following)

	following, err = e.users.ToggleFollow(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, following)

	inbox, err := e.ledger.FetchInbox(ctx, bob.ID)
	require.NoError(t, err)
	require.Len(t, inbox, 1)
	assert.Equal(t, models.KindFollow, inbox[0].Kind)
	assert.Equal(t, alice.ID, inbox[0].From.ID)
	assert.True(t, inbox[0].Fresh)
}

func TestToggleFollow_Rejections(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	alice := e.register(t, "alice")

	_, err := e.users.ToggleFollow(ctx, alice.ID, alice.ID)
	assert.ErrorIs(t, err, common.ErrValidation)

	_, err = e.users.ToggleFollow(ctx, alice.ID, uuid.NewString())
	assert.ErrorIs(t, err, common.ErrorNotFound)

	_, err = e.users.ToggleFollow(ctx, alice.ID, "not-a-user-id")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

type failingNotifier struct{ calls int }

func (f *failingNotifier) RecordEvent(context.Context, string, string, models.Kind) (string, error) {
	f.calls++
	return "", common.ErrStorageUnavailable
}

func TestToggleFollow_NotificationFailureDoesNotFailFollow(t *testing.T) {
	ctx := context.Background()
	store := memory.Open()
	n := &failingNotifier{}
	us := NewUserService(store, n, testConfig(), logging.Nop())
	us.bcryptCost = bcrypt.MinCost

	alice, err := us.Register(ctx, "alice", "", "pw")
	require.NoError(t, err)
	bob, err := us.Register(ctx, "bob", "", "pw")
	require.NoError(t, err)

	following, err := us.ToggleFollow(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, following)
	assert.Equal(t, 1, n.calls)

	ok, err := store.Repos.Follows(store.Conn).Exists(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestDeleteAccount(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	alice := e.register(t, "alice")

	tok, err := e.users.IssueToken(alice.ID)
	require.NoError(t, err)

	require.NoError(t, e.users.DeleteAccount(ctx, alice.ID))
	assert.ErrorIs(t, e.users.DeleteAccount(ctx, alice.ID), common.ErrorNotFound)

	_, err = e.verifier.Authenticate(ctx, tok)
	assert.ErrorIs(t, err, common.ErrUnknownSubject)

	_, _, err = e.users.Login(ctx, "alice", "pw-alice")
	assert.ErrorIs(t, err, common.ErrorUnauthorized)
}
