// Package templates persists templates together with their fields.
package templates

import (
	"context"

	"github.com/dmitrijs2005/gophnotes/internal/server/models"
)

// Repository stores templates. Mutations check ownership and the field lock
// atomically: a missing template yields common.ErrorNotFound, a different
// owner common.ErrorForbidden, and adding or removing fields of a template
// referenced by notes common.ErrTemplateStructureLocked.
type Repository interface {
	// Create stores t and its fields; ids must already be assigned.
	Create(ctx context.Context, t *models.Template) (*models.Template, error)
	GetByID(ctx context.Context, id string) (*models.Template, error)
	List(ctx context.Context, filter models.TemplateFilter) ([]models.Template, error)
	Update(ctx context.Context, id, ownerID string, patch models.TemplatePatch) (*models.Template, error)
	// Delete removes an unused template; used ones fail with common.ErrTemplateInUse.
	Delete(ctx context.Context, id, ownerID string) error
}
