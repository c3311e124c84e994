package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/gophnotes/internal/common"
	"github.com/dmitrijs2005/gophnotes/internal/server/models"
	"github.com/dmitrijs2005/gophnotes/internal/server/repositories/repomanager"
)

type TemplateService struct {
	repomanager repomanager.RepositoryManager
}

func NewTemplateService(m repomanager.RepositoryManager) *TemplateService {
	return &TemplateService{repomanager: m}
}

// Create stores a template owned by ownerID. Fields keep their input order
// and receive fresh ids.
func (s *TemplateService) Create(ctx context.Context, ownerID, name string, fields []models.FieldInput) (*models.Template, error) {
	if len(fields) == 0 {
		return nil, fmt.Errorf("template needs at least one field: %w", common.ErrorValidation)
	}

	t := &models.Template{
		ID:      uuid.NewString(),
		Name:    name,
		OwnerID: ownerID,
		Fields:  make([]models.Field, 0, len(fields)),
	}
	for _, f := range fields {
		t.Fields = append(t.Fields, models.Field{
			ID:         uuid.NewString(),
			Label:      f.Label,
			Order:      f.Order,
			IsRequired: f.IsRequired,
		})
	}

	return s.repomanager.Templates().Create(ctx, t)
}

func (s *TemplateService) GetByID(ctx context.Context, id string) (*models.Template, error) {
	t, err := s.repomanager.Templates().GetByID(ctx, id)
	if errors.Is(err, common.ErrorNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	t.Normalize()
	return t, nil
}

func (s *TemplateService) List(ctx context.Context, filter models.TemplateFilter) ([]models.Template, error) {
	list, err := s.repomanager.Templates().List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []models.Template{}
	}
	return list, nil
}

// Update applies patch to a template of ownerID. Adding or removing fields
// of a template that notes use fails with common.ErrTemplateStructureLocked
// (or common.ErrTemplateFieldInUse when the store detects it on delete).
func (s *TemplateService) Update(ctx context.Context, id, ownerID string, patch models.TemplatePatch) (*models.Template, error) {
	if patch.Fields != nil && len(patch.Fields) == 0 {
		return nil, fmt.Errorf("template needs at least one field: %w", common.ErrorValidation)
	}
	return s.repomanager.Templates().Update(ctx, id, ownerID, patch)
}

// Delete removes an unused template of ownerID.
func (s *TemplateService) Delete(ctx context.Context, id, ownerID string) error {
	return s.repomanager.Templates().Delete(ctx, id, ownerID)
}
