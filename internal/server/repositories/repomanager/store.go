package repomanager

import (
	"github.com/dmitrijs2005/feedhub/internal/dbx"
)

// Store is everything the services need from persistence: a connection for
// single statements, a transactor for atomic units and the repository
// factory that binds repositories to either.
type Store struct {
	Conn  dbx.DBTX
	Tx    dbx.Transactor
	Repos RepositoryManager

	closer func() error
}

// NewStore bundles the parts of a store. closer may be nil.
func NewStore(conn dbx.DBTX, tx dbx.Transactor, repos RepositoryManager, closer func() error) *Store {
	return &Store{Conn: conn, Tx: tx, Repos: repos, closer: closer}
}

// Close releases the underlying connection, if any.
func (s *Store) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer()
}
