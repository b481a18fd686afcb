package models

import (
	"sync"
	"time"
)

// Kind tags a notification with the social action that produced it. Stored
// kinds are plain strings so readers keep working when new kinds appear.
type Kind string

const (
	KindFollow Kind = "follow"
	KindLike   Kind = "like"
)

var (
	kindsMu sync.RWMutex
	kinds   = map[Kind]struct{}{
		KindFollow: {},
		KindLike:   {},
	}
)

// RegisterKind makes k acceptable for new notifications.
func RegisterKind(k Kind) {
	kindsMu.Lock()
	defer kindsMu.Unlock()
	kinds[k] = struct{}{}
}

// Known reports whether new notifications of kind k may be recorded.
func (k Kind) Known() bool {
	kindsMu.RLock()
	defer kindsMu.RUnlock()
	_, ok := kinds[k]
	return ok
}

// Notification is one inbox record: FromUserID did Kind to ToUserID.
type Notification struct {
	ID         string
	FromUserID string
	ToUserID   string
	Kind       Kind
	Read       bool
	CreatedAt  time.Time
}

// Actor is the public projection of the user who caused a notification.
// It is zero-valued (apart from ID) when that user no longer exists.
type Actor struct {
	ID           string `json:"id"`
	UserName     string `json:"username"`
	ProfileImage string `json:"profileImg"`
}

// InboxEntry is a notification as returned to its recipient. Fresh is true
// only in the response of the fetch that flipped it to read.
type InboxEntry struct {
	ID        string    `json:"id"`
	From      Actor     `json:"from"`
	To        string    `json:"to"`
	Kind      Kind      `json:"type"`
	Read      bool      `json:"read"`
	Fresh     bool      `json:"new"`
	CreatedAt time.Time `json:"createdAt"`
}
