package models

import (
	"fmt"
	"sort"
	"time"

	"github.com/dmitrijs2005/gophnotes/internal/common"
)

type NoteStatus string

const (
	StatusDraft   NoteStatus = "Draft"
	StatusPublish NoteStatus = "Publish"
)

func (s NoteStatus) Valid() bool {
	return s == StatusDraft || s == StatusPublish
}

// Transition returns the status a note ends up in after moving to target.
// Moving to the current status is allowed and changes nothing.
func (s NoteStatus) Transition(target NoteStatus) (NoteStatus, error) {
	if !s.Valid() {
		return s, fmt.Errorf("unknown note status %q", s)
	}
	if !target.Valid() {
		return s, fmt.Errorf("unknown target status %q", target)
	}
	return target, nil
}

// Owner is the author summary copied into a note when it is written.
type Owner struct {
	ID        string  `json:"id"`
	FirstName string  `json:"firstName"`
	LastName  string  `json:"lastName"`
	Thumbnail *string `json:"thumbnail"`
}

type Note struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	TemplateID   string     `json:"templateId"`
	TemplateName string     `json:"templateName"`
	OwnerID      string     `json:"ownerId"`
	Owner        Owner      `json:"owner"`
	Status       NoteStatus `json:"status"`
	Sections     []Section  `json:"sections"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// Section is a note's content for one template field. FieldLabel and
// IsRequired are copies of the field taken when the section was written.
type Section struct {
	ID         string `json:"id"`
	FieldID    string `json:"fieldId"`
	FieldLabel string `json:"fieldLabel"`
	Content    string `json:"content"`
	IsRequired bool   `json:"isRequired"`
}

func (n *Note) Normalize() {
	if n.Sections == nil {
		n.Sections = []Section{}
	}
	if n.Owner.ID == "" {
		n.Owner.ID = n.OwnerID
	}
}

type SectionInput struct {
	FieldID string
	Content string
}

type NoteInput struct {
	Title      string
	TemplateID string
	Sections   []SectionInput
}

// SectionPatch updates the section with ID, or adds a new section for
// FieldID when ID is empty.
type SectionPatch struct {
	ID      string
	FieldID string
	Content string
}

type NotePatch struct {
	Title    *string
	Sections []SectionPatch
}

// NoteFilter narrows a note listing. Page is 1-based; nil returns every match.
type NoteFilter struct {
	Status     *NoteStatus
	TemplateID *string
	Q          *string
	OwnerID    *string
	Page       *int
}

// PageSize is the number of notes returned per page.
const PageSize = 20

// Offset returns the row offset for page p (1-based).
func Offset(p int) int {
	if p < 1 {
		return 0
	}
	return (p - 1) * PageSize
}

// BuildSections creates the sections of a new note. Each input must name a
// field of the template; label and required flag are copied from it.
func BuildSections(fields []Field, inputs []SectionInput, newID func() string) ([]Section, error) {
	byID := indexFields(fields)

	out := make([]Section, 0, len(inputs))
	for _, in := range inputs {
		f, ok := byID[in.FieldID]
		if !ok {
			return nil, fmt.Errorf("field %s: %w", in.FieldID, common.ErrSectionFieldMismatch)
		}
		out = append(out, Section{
			ID:         newID(),
			FieldID:    f.ID,
			FieldLabel: f.Label,
			Content:    in.Content,
			IsRequired: f.IsRequired,
		})
	}
	sortSections(out, byID)
	return out, nil
}

// MergeSections applies patches to current. Patches with an ID replace the
// content of that section; the rest become new sections. Every section is
// re-snapshotted from fields.
func MergeSections(current []Section, fields []Field, patches []SectionPatch, newID func() string) ([]Section, error) {
	byID := indexFields(fields)

	out := make([]Section, len(current))
	copy(out, current)
	pos := make(map[string]int, len(out))
	for i, s := range out {
		pos[s.ID] = i
	}

	for _, p := range patches {
		if p.ID != "" {
			i, ok := pos[p.ID]
			if !ok {
				return nil, fmt.Errorf("section %s: %w", p.ID, common.ErrorNotFound)
			}
			out[i].Content = p.Content
			continue
		}
		if _, ok := byID[p.FieldID]; !ok {
			return nil, fmt.Errorf("field %s: %w", p.FieldID, common.ErrSectionFieldMismatch)
		}
		out = append(out, Section{ID: newID(), FieldID: p.FieldID, Content: p.Content})
		pos[out[len(out)-1].ID] = len(out) - 1
	}

	for i := range out {
		if f, ok := byID[out[i].FieldID]; ok {
			out[i].FieldLabel = f.Label
			out[i].IsRequired = f.IsRequired
		}
	}
	sortSections(out, byID)
	return out, nil
}

func indexFields(fields []Field) map[string]Field {
	m := make(map[string]Field, len(fields))
	for _, f := range fields {
		m[f.ID] = f
	}
	return m
}

// sortSections orders sections by the order of their field.
func sortSections(sections []Section, fields map[string]Field) {
	sort.SliceStable(sections, func(i, j int) bool {
		return fields[sections[i].FieldID].Order < fields[sections[j].FieldID].Order
	})
}
