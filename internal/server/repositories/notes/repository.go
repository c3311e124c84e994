// Package notes persists notes and their sections, including the template
// and owner snapshots copied into each note.
package notes

import (
	"context"

	"github.com/dmitrijs2005/gophnotes/internal/server/models"
)

// Repository stores notes. Mutations are atomic and owner-checked: a missing
// note yields common.ErrorNotFound and a note of another owner
// common.ErrorForbidden.
type Repository interface {
	// Create stores a Draft note for ownerID, snapshotting the template name,
	// the owner summary and each section's field.
	Create(ctx context.Context, ownerID string, in models.NoteInput) (*models.Note, error)
	GetByID(ctx context.Context, id string) (*models.Note, error)
	List(ctx context.Context, filter models.NoteFilter) ([]models.Note, error)
	Update(ctx context.Context, id, ownerID string, patch models.NotePatch) (*models.Note, error)
	// SetStatus moves the note to target; moving to the current status is a no-op.
	SetStatus(ctx context.Context, id, ownerID string, target models.NoteStatus) (*models.Note, error)
	Delete(ctx context.Context, id, ownerID string) error
}
