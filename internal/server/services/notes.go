package services

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/gophnotes/internal/common"
	"github.com/dmitrijs2005/gophnotes/internal/server/models"
	"github.com/dmitrijs2005/gophnotes/internal/server/repositories/repomanager"
)

type NoteService struct {
	repomanager repomanager.RepositoryManager
}

func NewNoteService(m repomanager.RepositoryManager) *NoteService {
	return &NoteService{repomanager: m}
}

// Create stores a Draft note of ownerID against an existing template.
func (s *NoteService) Create(ctx context.Context, ownerID string, in models.NoteInput) (*models.Note, error) {
	if in.Sections == nil {
		in.Sections = []models.SectionInput{}
	}
	return s.repomanager.Notes().Create(ctx, ownerID, in)
}

func (s *NoteService) GetByID(ctx context.Context, id string) (*models.Note, error) {
	n, err := s.repomanager.Notes().GetByID(ctx, id)
	if errors.Is(err, common.ErrorNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	n.Normalize()
	return n, nil
}

func (s *NoteService) List(ctx context.Context, filter models.NoteFilter) ([]models.Note, error) {
	list, err := s.repomanager.Notes().List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []models.Note{}
	}
	return list, nil
}

// Update changes the title and merges sections by id; sections without an
// id are added.
func (s *NoteService) Update(ctx context.Context, id, ownerID string, patch models.NotePatch) (*models.Note, error) {
	return s.repomanager.Notes().Update(ctx, id, ownerID, patch)
}

func (s *NoteService) Publish(ctx context.Context, id, ownerID string) (*models.Note, error) {
	return s.repomanager.Notes().SetStatus(ctx, id, ownerID, models.StatusPublish)
}

func (s *NoteService) Unpublish(ctx context.Context, id, ownerID string) (*models.Note, error) {
	return s.repomanager.Notes().SetStatus(ctx, id, ownerID, models.StatusDraft)
}

func (s *NoteService) Delete(ctx context.Context, id, ownerID string) error {
	return s.repomanager.Notes().Delete(ctx, id, ownerID)
}
