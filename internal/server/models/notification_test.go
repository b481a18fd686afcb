package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKind_Known(t *testing.T) {
	assert.True(t, KindFollow.Known())
	assert.True(t, KindLike.Known())
	assert.False(t, Kind("comment").Known())
	assert.False(t, Kind("").Known())
}

func TestRegisterKind(t *testing.T) {
	k := Kind("mention-test")
	require.False(t, k.Known())
	RegisterKind(k)
	assert.True(t, k.Known())
}

func TestInboxEntry_WireShape(t *testing.T) {
	e := InboxEntry{
		ID:        "n1",
		From:      Actor{ID: "a", UserName: "alice", ProfileImage: "a.png"},
		To:        "b",
		Kind:      Kind("poke"),
		Read:      true,
		Fresh:     true,
		CreatedAt: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}
	b, err := json.Marshal(e)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"id":"n1",
		"from":{"id":"a","username":"alice","profileImg":"a.png"},
		"to":"b",
		"type":"poke",
		"read":true,
		"new":true,
		"createdAt":"2024-01-02T03:04:05Z"
	}`, string(b))
}

func TestUser_IdentityDropsPassword(t *testing.T) {
	u := &User{ID: "1", UserName: "bob", FullName: "Bob", PasswordHash: []byte("hash"), ProfileImage: "p"}
	assert.Equal(t, Identity{ID: "1", UserName: "bob", FullName: "Bob", ProfileImage: "p"}, u.Identity())
}
