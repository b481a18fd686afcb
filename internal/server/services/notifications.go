package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/feedhub/internal/common"
	"github.com/dmitrijs2005/feedhub/internal/dbx"
	"github.com/dmitrijs2005/feedhub/internal/logging"
	"github.com/dmitrijs2005/feedhub/internal/server/config"
	"github.com/dmitrijs2005/feedhub/internal/server/models"
	"github.com/dmitrijs2005/feedhub/internal/server/repositories/repomanager"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
)

// NotificationLedger records social events as inbox entries and serves them
// back to their recipient.
//
// Entries start unread. FetchInbox flips all of a recipient's unread entries
// to read in one atomic step, so concurrent fetches for the same recipient
// never both report an entry as new. PurgeInbox removes the inbox entirely.
type NotificationLedger struct {
	store   *repomanager.Store
	timeout time.Duration
	logger  logging.Logger
	now     func() time.Time
}

func NewNotificationLedger(store *repomanager.Store, cfg *config.Config, logger logging.Logger) *NotificationLedger {
	return &NotificationLedger{
		store:   store,
		timeout: cfg.StoreTimeout,
		logger:  logger.With("module", "ledger"),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// RecordEvent appends an unread entry telling toUserID that fromUserID did
// kind, and returns the new entry's id.
func (l *NotificationLedger) RecordEvent(ctx context.Context, fromUserID, toUserID string, kind models.Kind) (string, error) {
	ctx, span := tracer.Start(ctx, "NotificationLedger.RecordEvent")
	defer span.End()
	span.SetAttributes(attribute.String("notification.kind", string(kind)))

	if !kind.Known() {
		err := fmt.Errorf("%w: unknown kind %q", common.ErrValidation, kind)
		span.RecordError(err)
		return "", err
	}
	for _, id := range []string{fromUserID, toUserID} {
		if _, err := uuid.Parse(id); err != nil {
			err = fmt.Errorf("%w: bad user id %q", common.ErrValidation, id)
			span.RecordError(err)
			return "", err
		}
	}

	sctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	users := l.store.Repos.Users(l.store.Conn)
	for _, id := range []string{fromUserID, toUserID} {
		if _, err := users.GetUserByID(sctx, id); err != nil {
			span.RecordError(err)
			if errors.Is(err, common.ErrorNotFound) {
				return "", fmt.Errorf("%w: user %s does not exist", common.ErrValidation, id)
			}
			l.logger.Error(ctx, "user lookup failed", "error", err.Error())
			return "", fmt.Errorf("%w: %w", common.ErrStorageUnavailable, err)
		}
	}

	n := &models.Notification{
		ID:         uuid.NewString(),
		FromUserID: fromUserID,
		ToUserID:   toUserID,
		Kind:       kind,
		CreatedAt:  l.now(),
	}
	if err := l.store.Repos.Notifications(l.store.Conn).Create(sctx, n); err != nil {
		span.RecordError(err)
		l.logger.Error(ctx, "notification insert failed", "error", err.Error())
		return "", fmt.Errorf("%w: %w", common.ErrStorageUnavailable, err)
	}

	l.logger.Debug(ctx, "notification recorded", "id", n.ID, "kind", string(kind), "to", toUserID)
	return n.ID, nil
}

// FetchInbox acknowledges every unread entry of userID and returns all of
// the recipient's read entries, newest first. Entries acknowledged by this
// call have Fresh set. Entries recorded while the call runs are left unread
// for the next fetch. On failure nothing is acknowledged.
func (l *NotificationLedger) FetchInbox(ctx context.Context, userID string) ([]models.InboxEntry, error) {
	ctx, span := tracer.Start(ctx, "NotificationLedger.FetchInbox")
	defer span.End()

	if _, err := uuid.Parse(userID); err != nil {
		err = fmt.Errorf("%w: bad user id %q", common.ErrValidation, userID)
		span.RecordError(err)
		return nil, err
	}

	sctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	var entries []models.InboxEntry
	err := l.store.Tx.WithTx(sctx, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := l.store.Repos.Notifications(tx)

		flipped, err := repo.Acknowledge(ctx, userID)
		if err != nil {
			return err
		}

		listed, err := repo.ListRead(ctx, userID)
		if err != nil {
			return err
		}

		fresh := make(map[string]struct{}, len(flipped))
		for _, id := range flipped {
			fresh[id] = struct{}{}
		}
		for i := range listed {
			_, listed[i].Fresh = fresh[listed[i].ID]
		}
		entries = listed
		return nil
	})
	if err != nil {
		span.RecordError(err)
		l.logger.Error(ctx, "inbox fetch failed", "error", err.Error())
		return nil, fmt.Errorf("%w: %w", common.ErrStorageUnavailable, err)
	}

	span.SetAttributes(attribute.Int("inbox.size", len(entries)))
	return entries, nil
}

// PurgeInbox deletes every entry addressed to userID, read or not, and
// returns how many were removed.
func (l *NotificationLedger) PurgeInbox(ctx context.Context, userID string) (int64, error) {
	ctx, span := tracer.Start(ctx, "NotificationLedger.PurgeInbox")
	defer span.End()

	if _, err := uuid.Parse(userID); err != nil {
		err = fmt.Errorf("%w: bad user id %q", common.ErrValidation, userID)
		span.RecordError(err)
		return 0, err
	}

	sctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	n, err := l.store.Repos.Notifications(l.store.Conn).DeleteForRecipient(sctx, userID)
	if err != nil {
		span.RecordError(err)
		l.logger.Error(ctx, "inbox purge failed", "error", err.Error())
		return 0, fmt.Errorf("%w: %w", common.ErrStorageUnavailable, err)
	}

	l.logger.Info(ctx, "inbox purged", "deleted", n)
	return n, nil
}

// UnreadCount reports how many entries a fetch would mark as new, without
// acknowledging them.
func (l *NotificationLedger) UnreadCount(ctx context.Context, userID string) (int64, error) {
	ctx, span := tracer.Start(ctx, "NotificationLedger.UnreadCount")
	defer span.End()

	if _, err := uuid.Parse(userID); err != nil {
		err = fmt.Errorf("%w: bad user id %q", common.ErrValidation, userID)
		span.RecordError(err)
		return 0, err
	}

	sctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	n, err := l.store.Repos.Notifications(l.store.Conn).CountUnread(sctx, userID)
	if err != nil {
		span.RecordError(err)
		return 0, fmt.Errorf("%w: %w", common.ErrStorageUnavailable, err)
	}
	return n, nil
}
