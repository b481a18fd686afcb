package follows

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/feedhub/internal/dbx"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Exists(ctx context.Context, followerID, followeeID string) (bool, error) {
	query :=
		`SELECT EXISTS (SELECT 1 FROM follows WHERE follower_id = $1 AND followee_id = $2)`

	var ok bool
	if err := r.db.QueryRowContext(ctx, query, followerID, followeeID).Scan(&ok); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return ok, nil
}

func (r *PostgresRepository) Create(ctx context.Context, followerID, followeeID string) error {
	query :=
		`INSERT INTO follows (follower_id, followee_id)
         VALUES ($1, $2)
		 ON CONFLICT DO NOTHING
		 `

	if _, err := r.db.ExecContext(ctx, query, followerID, followeeID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, followerID, followeeID string) error {
	query :=
		`DELETE FROM follows
		 WHERE follower_id = $1 AND followee_id = $2
		 `

	if _, err := r.db.ExecContext(ctx, query, followerID, followeeID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
