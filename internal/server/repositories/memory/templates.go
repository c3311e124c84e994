package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/dmitrijs2005/gophnotes/internal/common"
	"github.com/dmitrijs2005/gophnotes/internal/server/models"
)

type TemplateRepository struct {
	s *Store
}

func (r *TemplateRepository) Create(_ context.Context, t *models.Template) (*models.Template, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.accounts[t.OwnerID]; !ok {
		return nil, fmt.Errorf("owner %s: %w", t.OwnerID, common.ErrorNotFound)
	}

	stored := cloneTemplate(t)
	stored.UpdatedAt = r.s.now()
	stored.IsUsed = false
	stored.Normalize()
	r.s.templates[stored.ID] = stored
	return cloneTemplate(stored), nil
}

func (r *TemplateRepository) GetByID(_ context.Context, id string) (*models.Template, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	t, ok := r.s.templates[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return r.view(t), nil
}

func (r *TemplateRepository) List(_ context.Context, filter models.TemplateFilter) ([]models.Template, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	result := []models.Template{}
	for _, t := range r.s.templates {
		if filter.OwnerID != nil && t.OwnerID != *filter.OwnerID {
			continue
		}
		if filter.Q != nil && !containsFold(t.Name, *filter.Q) {
			continue
		}
		result = append(result, *r.view(t))
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].UpdatedAt.Equal(result[j].UpdatedAt) {
			return result[i].UpdatedAt.After(result[j].UpdatedAt)
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

func (r *TemplateRepository) Update(_ context.Context, id, ownerID string, patch models.TemplatePatch) (*models.Template, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	t, err := r.owned(id, ownerID)
	if err != nil {
		return nil, err
	}

	if patch.Fields != nil {
		if r.s.templateUsed(id) && models.StructureChanged(t.Fields, patch.Fields) {
			return nil, common.ErrTemplateStructureLocked
		}
		t.Fields = models.ApplyFieldInputs(t.Fields, patch.Fields, newID)
	}
	if patch.Name != nil {
		t.Name = *patch.Name
	}
	t.UpdatedAt = r.s.now()
	return r.view(t), nil
}

func (r *TemplateRepository) Delete(_ context.Context, id, ownerID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, err := r.owned(id, ownerID); err != nil {
		return err
	}
	if r.s.templateUsed(id) {
		return common.ErrTemplateInUse
	}
	delete(r.s.templates, id)
	return nil
}

func (r *TemplateRepository) owned(id, ownerID string) (*models.Template, error) {
	t, ok := r.s.templates[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	if t.OwnerID != ownerID {
		return nil, common.NewForbidden("Can only modify your own template")
	}
	return t, nil
}

// view returns a copy of t with IsUsed computed. Callers hold mu.
func (r *TemplateRepository) view(t *models.Template) *models.Template {
	c := cloneTemplate(t)
	c.IsUsed = r.s.templateUsed(t.ID)
	return c
}

func containsFold(s, q string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(q))
}
