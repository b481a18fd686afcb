// Package repomanager vends repository implementations bound to a database
// handle and bundles them with a connection into a Store.
package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/feedhub/internal/dbx"
	"github.com/dmitrijs2005/feedhub/internal/server/migrations"
	"github.com/dmitrijs2005/feedhub/internal/server/repositories/follows"
	"github.com/dmitrijs2005/feedhub/internal/server/repositories/notifications"
	"github.com/dmitrijs2005/feedhub/internal/server/repositories/users"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Follows(db dbx.DBTX) follows.Repository
	Notifications(db dbx.DBTX) notifications.Repository
}

// PostgresRepositoryManager vends PostgreSQL-backed repositories.
type PostgresRepositoryManager struct{}

func (m *PostgresRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Follows(db dbx.DBTX) follows.Repository {
	return follows.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Notifications(db dbx.DBTX) notifications.Repository {
	return notifications.NewPostgresRepository(db)
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations applies the embedded migrations.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	if err := gooseUpContext(ctx, db, "."); err != nil {
		return err
	}
	return nil
}

func NewPostgresRepositoryManager() RepositoryManager {
	return &PostgresRepositoryManager{}
}

// sqlOpen and pingContext are seams for OpenPostgres tests.
var (
	sqlOpen     = sql.Open
	pingContext = func(ctx context.Context, db *sql.DB) error { return db.PingContext(ctx) }
)

// OpenPostgres connects to dsn through pgx, applies migrations and returns a
// Store that owns the connection pool.
func OpenPostgres(ctx context.Context, dsn string) (*Store, error) {
	db, err := sqlOpen("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := pingContext(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	m := NewPostgresRepositoryManager()
	if err := m.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return NewStore(db, dbx.NewSQLTransactor(db), m, db.Close), nil
}
