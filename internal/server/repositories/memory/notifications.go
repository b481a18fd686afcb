package memory

import (
	"context"
	"sort"

	"github.com/dmitrijs2005/feedhub/internal/server/models"
)

type notificationRepo struct {
	m *Manager
}

func (r *notificationRepo) Create(ctx context.Context, n *models.Notification) error {
	ib := r.m.inboxFor(n.ToUserID, true)
	seq := r.m.nextSeq()

	ib.mu.Lock()
	defer ib.mu.Unlock()

	rec := record{n: *n, seq: seq}
	rec.n.Read = false
	ib.records = append(ib.records, rec)
	return nil
}

func (r *notificationRepo) Acknowledge(ctx context.Context, recipientID string) ([]string, error) {
	ib := r.m.inboxFor(recipientID, false)
	if ib == nil {
		return nil, nil
	}

	ib.mu.Lock()
	defer ib.mu.Unlock()

	var ids []string
	for i := range ib.records {
		if !ib.records[i].n.Read {
			ib.records[i].n.Read = true
			ids = append(ids, ib.records[i].n.ID)
		}
	}
	return ids, nil
}

// ListRead orders by creation time, newest first; entries created at the
// same instant keep reverse insertion order.
func (r *notificationRepo) ListRead(ctx context.Context, recipientID string) ([]models.InboxEntry, error) {
	entries := make([]models.InboxEntry, 0)

	ib := r.m.inboxFor(recipientID, false)
	if ib == nil {
		return entries, nil
	}

	ib.mu.Lock()
	read := make([]record, 0, len(ib.records))
	for _, rec := range ib.records {
		if rec.n.Read {
			read = append(read, rec)
		}
	}
	ib.mu.Unlock()

	sort.Slice(read, func(i, j int) bool {
		a, b := read[i], read[j]
		if !a.n.CreatedAt.Equal(b.n.CreatedAt) {
			return a.n.CreatedAt.After(b.n.CreatedAt)
		}
		return a.seq > b.seq
	})

	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	for _, rec := range read {
		actor := models.Actor{ID: rec.n.FromUserID}
		if u, ok := r.m.users[rec.n.FromUserID]; ok {
			actor.UserName = u.UserName
			actor.ProfileImage = u.ProfileImage
		}
		entries = append(entries, models.InboxEntry{
			ID:        rec.n.ID,
			From:      actor,
			To:        rec.n.ToUserID,
			Kind:      rec.n.Kind,
			Read:      true,
			CreatedAt: rec.n.CreatedAt,
		})
	}

	return entries, nil
}

func (r *notificationRepo) CountUnread(ctx context.Context, recipientID string) (int64, error) {
	ib := r.m.inboxFor(recipientID, false)
	if ib == nil {
		return 0, nil
	}

	ib.mu.Lock()
	defer ib.mu.Unlock()

	var n int64
	for _, rec := range ib.records {
		if !rec.n.Read {
			n++
		}
	}
	return n, nil
}

func (r *notificationRepo) DeleteForRecipient(ctx context.Context, recipientID string) (int64, error) {
	ib := r.m.inboxFor(recipientID, false)
	if ib == nil {
		return 0, nil
	}

	ib.mu.Lock()
	defer ib.mu.Unlock()

	n := int64(len(ib.records))
	ib.records = nil
	return n, nil
}
