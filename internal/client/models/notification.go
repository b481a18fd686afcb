// Package models holds the client-side view of API payloads.
package models

import "time"

type Actor struct {
	ID         string `json:"id"`
	UserName   string `json:"username"`
	ProfileImg string `json:"profileImg"`
}

// Notification is one inbox entry as served by GET /api/notifications.
type Notification struct {
	ID        string    `json:"id"`
	From      Actor     `json:"from"`
	To        string    `json:"to"`
	Type      string    `json:"type"`
	Read      bool      `json:"read"`
	New       bool      `json:"new"`
	CreatedAt time.Time `json:"createdAt"`
}
