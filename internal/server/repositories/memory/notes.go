package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/dmitrijs2005/gophnotes/internal/common"
	"github.com/dmitrijs2005/gophnotes/internal/server/models"
)

type NoteRepository struct {
	s *Store
}

func (r *NoteRepository) Create(_ context.Context, ownerID string, in models.NoteInput) (*models.Note, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	t, owner, err := r.snapshotSource(in.TemplateID, ownerID)
	if err != nil {
		return nil, err
	}
	sections, err := models.BuildSections(t.Fields, in.Sections, newID)
	if err != nil {
		return nil, err
	}

	now := r.s.now()
	n := &models.Note{
		ID:           newID(),
		Title:        in.Title,
		TemplateID:   t.ID,
		TemplateName: t.Name,
		OwnerID:      ownerID,
		Owner:        owner,
		Status:       models.StatusDraft,
		Sections:     sections,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	n.Normalize()
	r.s.notes[n.ID] = n
	return cloneNote(n), nil
}

func (r *NoteRepository) GetByID(_ context.Context, id string) (*models.Note, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	n, ok := r.s.notes[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return cloneNote(n), nil
}

func (r *NoteRepository) List(_ context.Context, filter models.NoteFilter) ([]models.Note, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	result := []models.Note{}
	for _, n := range r.s.notes {
		if filter.Status != nil && n.Status != *filter.Status {
			continue
		}
		if filter.TemplateID != nil && n.TemplateID != *filter.TemplateID {
			continue
		}
		if filter.OwnerID != nil && n.OwnerID != *filter.OwnerID {
			continue
		}
		if filter.Q != nil && !containsFold(n.Title, *filter.Q) {
			continue
		}
		result = append(result, *cloneNote(n))
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].UpdatedAt.Equal(result[j].UpdatedAt) {
			return result[i].UpdatedAt.After(result[j].UpdatedAt)
		}
		return result[i].ID < result[j].ID
	})

	if filter.Page != nil {
		start := models.Offset(*filter.Page)
		if start >= len(result) {
			return []models.Note{}, nil
		}
		end := min(start+models.PageSize, len(result))
		result = result[start:end]
	}
	return result, nil
}

func (r *NoteRepository) Update(_ context.Context, id, ownerID string, patch models.NotePatch) (*models.Note, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	n, err := r.owned(id, ownerID)
	if err != nil {
		return nil, err
	}
	t, owner, err := r.snapshotSource(n.TemplateID, ownerID)
	if err != nil {
		return nil, err
	}
	merged, err := models.MergeSections(n.Sections, t.Fields, patch.Sections, newID)
	if err != nil {
		return nil, err
	}

	if patch.Title != nil {
		n.Title = *patch.Title
	}
	n.TemplateName = t.Name
	n.Owner = owner
	n.Sections = merged
	n.UpdatedAt = r.s.now()
	return cloneNote(n), nil
}

func (r *NoteRepository) SetStatus(_ context.Context, id, ownerID string, target models.NoteStatus) (*models.Note, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	n, err := r.owned(id, ownerID)
	if err != nil {
		return nil, err
	}
	next, err := n.Status.Transition(target)
	if err != nil {
		return nil, err
	}
	if next != n.Status {
		n.Status = next
		n.UpdatedAt = r.s.now()
	}
	return cloneNote(n), nil
}

func (r *NoteRepository) Delete(_ context.Context, id, ownerID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, err := r.owned(id, ownerID); err != nil {
		return err
	}
	delete(r.s.notes, id)
	return nil
}

func (r *NoteRepository) owned(id, ownerID string) (*models.Note, error) {
	n, ok := r.s.notes[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	if n.OwnerID != ownerID {
		return nil, common.NewForbidden("Can only modify your own note")
	}
	return n, nil
}

func (r *NoteRepository) snapshotSource(templateID, ownerID string) (*models.Template, models.Owner, error) {
	t, ok := r.s.templates[templateID]
	if !ok {
		return nil, models.Owner{}, fmt.Errorf("template %s: %w", templateID, common.ErrorNotFound)
	}
	a, ok := r.s.accounts[ownerID]
	if !ok {
		return nil, models.Owner{}, fmt.Errorf("owner %s: %w", ownerID, common.ErrorNotFound)
	}
	return t, cloneAccount(a).Owner(), nil
}
