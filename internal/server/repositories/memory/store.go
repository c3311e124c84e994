// Package memory is an in-process implementation of the account, template
// and note repositories. A single mutex serialises every operation, which
// gives the same per-entity atomicity as the Postgres transactions.
package memory

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/gophnotes/internal/server/models"
)

type Store struct {
	mu  sync.Mutex
	now func() time.Time

	accounts  map[string]*models.Account
	templates map[string]*models.Template
	notes     map[string]*models.Note
}

// NewStore returns an empty store using the wall clock.
func NewStore() *Store {
	return NewStoreWithClock(time.Now)
}

func NewStoreWithClock(now func() time.Time) *Store {
	return &Store{
		now:       now,
		accounts:  make(map[string]*models.Account),
		templates: make(map[string]*models.Template),
		notes:     make(map[string]*models.Note),
	}
}

func (s *Store) Accounts() *AccountRepository   { return &AccountRepository{s: s} }
func (s *Store) Templates() *TemplateRepository { return &TemplateRepository{s: s} }
func (s *Store) Notes() *NoteRepository         { return &NoteRepository{s: s} }

func newID() string { return uuid.NewString() }

// templateUsed reports whether any note references id. Callers hold mu.
func (s *Store) templateUsed(id string) bool {
	for _, n := range s.notes {
		if n.TemplateID == id {
			return true
		}
	}
	return false
}

func cloneAccount(a *models.Account) *models.Account {
	c := *a
	if a.Thumbnail != nil {
		t := *a.Thumbnail
		c.Thumbnail = &t
	}
	if a.LastLoginAt != nil {
		t := *a.LastLoginAt
		c.LastLoginAt = &t
	}
	return &c
}

func cloneTemplate(t *models.Template) *models.Template {
	c := *t
	c.Fields = append([]models.Field{}, t.Fields...)
	return &c
}

func cloneNote(n *models.Note) *models.Note {
	c := *n
	c.Sections = append([]models.Section{}, n.Sections...)
	if n.Owner.Thumbnail != nil {
		t := *n.Owner.Thumbnail
		c.Owner.Thumbnail = &t
	}
	return &c
}
