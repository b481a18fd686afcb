// Package notifications declares the repository contract behind the
// notification ledger and its PostgreSQL implementation.
package notifications

import (
	"context"

	"github.com/dmitrijs2005/feedhub/internal/server/models"
)

// Repository stores inbox records keyed by recipient.
type Repository interface {
	// Create appends n as unread.
	Create(ctx context.Context, n *models.Notification) error

	// Acknowledge flips every unread notification of recipientID to read in
	// a single atomic step and returns the ids it flipped. Concurrent calls
	// for the same recipient never return the same id twice.
	Acknowledge(ctx context.Context, recipientID string) ([]string, error)

	// ListRead returns the recipient's read notifications, newest first,
	// with the actor projection filled in (empty when the actor is gone).
	ListRead(ctx context.Context, recipientID string) ([]models.InboxEntry, error)

	// CountUnread returns how many notifications await the recipient.
	CountUnread(ctx context.Context, recipientID string) (int64, error)

	// DeleteForRecipient removes the whole inbox and returns the count removed.
	DeleteForRecipient(ctx context.Context, recipientID string) (int64, error)
}
