package schema

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/gophnotes/internal/server/models"
)

type GetTemplateByIDRequest struct {
	ID string `json:"id" validate:"required,id"`
}

type ListTemplatesRequest struct {
	OwnerID         *string `json:"ownerId" validate:"omitnil,id"`
	Q               *string `json:"q"`
	OnlyMyTemplates *bool   `json:"onlyMyTemplates"`
}

type ListMyTemplatesRequest struct {
	Q *string `json:"q"`
}

type FieldInput struct {
	ID         *string `json:"id" validate:"omitnil,id"`
	Label      string  `json:"label" validate:"required,max=100"`
	Order      int     `json:"order" validate:"gte=1"`
	IsRequired bool    `json:"isRequired"`
}

type CreateTemplateRequest struct {
	Name   string       `json:"name" validate:"required,max=100"`
	Fields []FieldInput `json:"fields" validate:"required,min=1,dive"`
}

func (r *CreateTemplateRequest) crossCheck() []Issue {
	return checkOrders(r.Fields)
}

func (r *CreateTemplateRequest) Inputs() []models.FieldInput {
	return fieldInputs(r.Fields)
}

type UpdateTemplateRequest struct {
	ID     string       `json:"id" validate:"required,id"`
	Name   *string      `json:"name" validate:"omitnil,min=1,max=100"`
	Fields []FieldInput `json:"fields" validate:"omitnil,min=1,dive"`
}

func (r *UpdateTemplateRequest) crossCheck() []Issue {
	return append(checkOrders(r.Fields), checkIDs(r.Fields)...)
}

func (r *UpdateTemplateRequest) Patch() models.TemplatePatch {
	return models.TemplatePatch{Name: r.Name, Fields: fieldInputs(r.Fields)}
}

type DeleteTemplateRequest struct {
	ID string `json:"id" validate:"required,id"`
}

func fieldInputs(in []FieldInput) []models.FieldInput {
	if in == nil {
		return nil
	}
	out := make([]models.FieldInput, 0, len(in))
	for _, f := range in {
		fi := models.FieldInput{Label: f.Label, Order: f.Order, IsRequired: f.IsRequired}
		if f.ID != nil {
			fi.ID = *f.ID
		}
		out = append(out, fi)
	}
	return out
}

// checkOrders reports field orders used more than once.
func checkOrders(fields []FieldInput) []Issue {
	var issues []Issue
	seen := make(map[int]int, len(fields))
	for i, f := range fields {
		if first, dup := seen[f.Order]; dup {
			issues = append(issues, Issue{
				Field:   fmt.Sprintf("fields[%d].order", i),
				Message: fmt.Sprintf("duplicates the order of fields[%d]", first),
			})
			continue
		}
		seen[f.Order] = i
	}
	return issues
}

// checkIDs reports field ids used more than once.
func checkIDs(fields []FieldInput) []Issue {
	var issues []Issue
	seen := make(map[string]int, len(fields))
	for i, f := range fields {
		if f.ID == nil {
			continue
		}
		id := strings.ToLower(*f.ID)
		if first, dup := seen[id]; dup {
			issues = append(issues, Issue{
				Field:   fmt.Sprintf("fields[%d].id", i),
				Message: fmt.Sprintf("duplicates the id of fields[%d]", first),
			})
			continue
		}
		seen[id] = i
	}
	return issues
}
