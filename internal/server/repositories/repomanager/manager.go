// Package repomanager vends the repositories used by the services and owns
// the underlying store: PostgreSQL (with goose migrations) or the in-process
// memory store.
package repomanager

import (
	"context"

	"github.com/dmitrijs2005/gophnotes/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/gophnotes/internal/server/repositories/notes"
	"github.com/dmitrijs2005/gophnotes/internal/server/repositories/templates"
)

type RepositoryManager interface {
	RunMigrations(ctx context.Context) error
	// Ping reports whether the store is reachable.
	Ping(ctx context.Context) error
	Accounts() accounts.Repository
	Templates() templates.Repository
	Notes() notes.Repository
	Close() error
}
