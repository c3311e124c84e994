package schema

import (
	"fmt"

	"github.com/dmitrijs2005/gophnotes/internal/server/models"
)

type GetNoteByIDRequest struct {
	ID string `json:"id" validate:"required,id"`
}

type ListNotesRequest struct {
	Status     *models.NoteStatus `json:"status" validate:"omitnil,oneof=Draft Publish"`
	TemplateID *string            `json:"templateId" validate:"omitnil,id"`
	Q          *string            `json:"q"`
	Page       *int               `json:"page" validate:"omitnil,gte=1"`
	OwnerID    *string            `json:"ownerId" validate:"omitnil,id"`
}

type ListMyNotesRequest struct {
	Status     *models.NoteStatus `json:"status" validate:"omitnil,oneof=Draft Publish"`
	TemplateID *string            `json:"templateId" validate:"omitnil,id"`
	Q          *string            `json:"q"`
	Page       *int               `json:"page" validate:"omitnil,gte=1"`
}

type SectionInput struct {
	FieldID string `json:"fieldId" validate:"required,id"`
	Content string `json:"content"`
}

type CreateNoteRequest struct {
	Title      string         `json:"title" validate:"required,max=100"`
	TemplateID string         `json:"templateId" validate:"required,id"`
	Sections   []SectionInput `json:"sections" validate:"omitnil,dive"`
}

func (r *CreateNoteRequest) Input() models.NoteInput {
	sections := make([]models.SectionInput, 0, len(r.Sections))
	for _, s := range r.Sections {
		sections = append(sections, models.SectionInput{FieldID: s.FieldID, Content: s.Content})
	}
	return models.NoteInput{Title: r.Title, TemplateID: r.TemplateID, Sections: sections}
}

// SectionUpdate targets an existing section by ID, or adds one for FieldID.
type SectionUpdate struct {
	ID      *string `json:"id" validate:"omitnil,id"`
	FieldID *string `json:"fieldId" validate:"omitnil,id"`
	Content string  `json:"content"`
}

type UpdateNoteRequest struct {
	ID       string          `json:"id" validate:"required,id"`
	Title    *string         `json:"title" validate:"omitnil,min=1,max=100"`
	Sections []SectionUpdate `json:"sections" validate:"omitnil,dive"`
}

func (r *UpdateNoteRequest) crossCheck() []Issue {
	var issues []Issue
	for i, s := range r.Sections {
		if s.ID == nil && s.FieldID == nil {
			issues = append(issues, Issue{
				Field:   fmt.Sprintf("sections[%d].fieldId", i),
				Message: "is required for a new section",
			})
		}
	}
	return issues
}

func (r *UpdateNoteRequest) Patch() models.NotePatch {
	p := models.NotePatch{Title: r.Title}
	if r.Sections == nil {
		return p
	}
	p.Sections = make([]models.SectionPatch, 0, len(r.Sections))
	for _, s := range r.Sections {
		sp := models.SectionPatch{Content: s.Content}
		if s.ID != nil {
			sp.ID = *s.ID
		}
		if s.FieldID != nil {
			sp.FieldID = *s.FieldID
		}
		p.Sections = append(p.Sections, sp)
	}
	return p
}

type PublishNoteRequest struct {
	ID string `json:"id" validate:"required,id"`
}

type UnpublishNoteRequest struct {
	ID string `json:"id" validate:"required,id"`
}

type DeleteNoteRequest struct {
	ID string `json:"id" validate:"required,id"`
}
