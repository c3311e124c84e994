package repomanager

import (
	"context"

	"github.com/dmitrijs2005/gophnotes/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/gophnotes/internal/server/repositories/memory"
	"github.com/dmitrijs2005/gophnotes/internal/server/repositories/notes"
	"github.com/dmitrijs2005/gophnotes/internal/server/repositories/templates"
)

// MemoryRepositoryManager serves repositories from a memory.Store. Data
// lives as long as the process.
type MemoryRepositoryManager struct {
	store *memory.Store
}

func NewMemoryRepositoryManager(store *memory.Store) *MemoryRepositoryManager {
	if store == nil {
		store = memory.NewStore()
	}
	return &MemoryRepositoryManager{store: store}
}

func (m *MemoryRepositoryManager) Accounts() accounts.Repository   { return m.store.Accounts() }
func (m *MemoryRepositoryManager) Templates() templates.Repository { return m.store.Templates() }
func (m *MemoryRepositoryManager) Notes() notes.Repository         { return m.store.Notes() }

func (m *MemoryRepositoryManager) RunMigrations(context.Context) error { return nil }
func (m *MemoryRepositoryManager) Ping(context.Context) error          { return nil }
func (m *MemoryRepositoryManager) Close() error                        { return nil }
