package models

import (
	"sort"
	"time"
)

// Template is a reusable, owner-scoped definition of the fields a note is
// made of. IsUsed is true while at least one note references it.
type Template struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	OwnerID   string    `json:"ownerId"`
	Fields    []Field   `json:"fields"`
	UpdatedAt time.Time `json:"updatedAt"`
	IsUsed    bool      `json:"isUsed"`
}

type Field struct {
	ID         string `json:"id"`
	Label      string `json:"label"`
	Order      int    `json:"order"`
	IsRequired bool   `json:"isRequired"`
}

// FieldInput is a field as submitted by a client. An empty ID means a new field.
type FieldInput struct {
	ID         string
	Label      string
	Order      int
	IsRequired bool
}

func (t *Template) Normalize() {
	if t.Fields == nil {
		t.Fields = []Field{}
	}
}

// FieldByID returns the field with the given id, if any.
func (t *Template) FieldByID(id string) (Field, bool) {
	for _, f := range t.Fields {
		if f.ID == id {
			return f, true
		}
	}
	return Field{}, false
}

// TemplateFilter narrows a template listing. Nil values do not filter.
type TemplateFilter struct {
	OwnerID *string
	Q       *string
}

// TemplatePatch lists template attributes to change. When Fields is non-nil
// it replaces the whole field set.
type TemplatePatch struct {
	Name   *string
	Fields []FieldInput
}

// StructureChanged reports whether fields would be added to or removed from
// current. Inputs whose id is unknown count as additions, as do repeated ids.
func StructureChanged(current []Field, next []FieldInput) bool {
	existing := make(map[string]struct{}, len(current))
	for _, f := range current {
		existing[f.ID] = struct{}{}
	}

	kept := make(map[string]struct{}, len(next))
	for _, f := range next {
		if _, ok := existing[f.ID]; !ok {
			return true
		}
		kept[f.ID] = struct{}{}
	}
	return len(next) != len(kept) || len(kept) != len(existing)
}

// ApplyFieldInputs returns the field set described by inputs. Inputs whose ID
// matches a current field keep that ID; all others get a new one. The result
// is sorted by Order.
func ApplyFieldInputs(current []Field, inputs []FieldInput, newID func() string) []Field {
	existing := make(map[string]struct{}, len(current))
	for _, f := range current {
		existing[f.ID] = struct{}{}
	}

	out := make([]Field, 0, len(inputs))
	for _, in := range inputs {
		id := in.ID
		if _, ok := existing[id]; !ok {
			id = newID()
		} else {
			delete(existing, id)
		}
		out = append(out, Field{ID: id, Label: in.Label, Order: in.Order, IsRequired: in.IsRequired})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}

// RemovedFields returns the ids of current fields missing from next.
func RemovedFields(current, next []Field) []string {
	keep := make(map[string]struct{}, len(next))
	for _, f := range next {
		keep[f.ID] = struct{}{}
	}
	var removed []string
	for _, f := range current {
		if _, ok := keep[f.ID]; !ok {
			removed = append(removed, f.ID)
		}
	}
	return removed
}
