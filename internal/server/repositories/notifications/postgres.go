package notifications

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/feedhub/internal/dbx"
	"github.com/dmitrijs2005/feedhub/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, n *models.Notification) error {
	query :=
		`INSERT INTO notifications (id, from_user_id, to_user_id, kind, read, created_at)
         VALUES ($1, $2, $3, $4, false, $5)
		 `

	_, err := r.db.ExecContext(ctx, query, n.ID, n.FromUserID, n.ToUserID, string(n.Kind), n.CreatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) Acknowledge(ctx context.Context, recipientID string) ([]string, error) {
	query :=
		`UPDATE notifications SET read = true
		 WHERE to_user_id = $1 AND read = false
		 RETURNING id
		 `

	rows, err := r.db.QueryContext(ctx, query, recipientID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return ids, nil
}

func (r *PostgresRepository) ListRead(ctx context.Context, recipientID string) ([]models.InboxEntry, error) {
	query :=
		`SELECT n.id, n.from_user_id, COALESCE(u.username, ''), COALESCE(u.profile_img, ''),
		        n.to_user_id, n.kind, n.read, n.created_at
		 FROM notifications n
		 LEFT JOIN users u ON u.id = n.from_user_id
		 WHERE n.to_user_id = $1 AND n.read = true
		 ORDER BY n.created_at DESC, n.id DESC
		 `

	rows, err := r.db.QueryContext(ctx, query, recipientID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	entries := make([]models.InboxEntry, 0)
	for rows.Next() {
		var e models.InboxEntry
		var kind string
		if err := rows.Scan(&e.ID, &e.From.ID, &e.From.UserName, &e.From.ProfileImage,
			&e.To, &kind, &e.Read, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		e.Kind = models.Kind(kind)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return entries, nil
}

func (r *PostgresRepository) CountUnread(ctx context.Context, recipientID string) (int64, error) {
	query :=
		`SELECT COUNT(*) FROM notifications
		 WHERE to_user_id = $1 AND read = false
		 `

	var n int64
	if err := r.db.QueryRowContext(ctx, query, recipientID).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}

	return n, nil
}

func (r *PostgresRepository) DeleteForRecipient(ctx context.Context, recipientID string) (int64, error) {
	query :=
		`DELETE FROM notifications
		 WHERE to_user_id = $1
		 `

	res, err := r.db.ExecContext(ctx, query, recipientID)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}

	return n, nil
}
