package builder

import (
	"fmt"

	"github.com/grantflow/formkit/pkg/model"
)

// Builder owns the in-memory form document while it is being edited: the
// ordered field sequence, the title/description metadata, and the current
// selection. It is the only mutator of document structure; per-field
// attribute edits go through the properties surface in properties.go.
//
// A Builder is not safe for concurrent use. It models a single editing
// session, matching the one-surface-one-document ownership of the UI flow.
type Builder struct {
	doc      model.FormDocument
	selected string
}

// New opens an empty editing session with default metadata and zero fields.
func New() *Builder {
	return &Builder{doc: model.NewFormDocument()}
}

// Hydrate opens an editing session over a previously saved document. The
// document is validated and deep-copied; the caller's copy stays untouched.
func Hydrate(doc model.FormDocument) (*Builder, error) {
	if err := doc.Validate(); err != nil {
		return nil, fmt.Errorf("builder: hydrate: %w", err)
	}
	hydrated := doc.Clone()
	if hydrated.Title == "" {
		hydrated.Title = model.DefaultTitle
	}
	if hydrated.Description == "" {
		hydrated.Description = model.DefaultDescription
	}
	return &Builder{doc: hydrated}, nil
}

// Title returns the working title.
func (b *Builder) Title() string { return b.doc.Title }

// SetTitle updates the working title.
func (b *Builder) SetTitle(title string) { b.doc.Title = title }

// Description returns the working description.
func (b *Builder) Description() string { return b.doc.Description }

// SetDescription updates the working description.
func (b *Builder) SetDescription(description string) { b.doc.Description = description }

// Len reports the number of fields on the canvas.
func (b *Builder) Len() int { return len(b.doc.Fields) }

// Fields returns a copy of the ordered field sequence.
func (b *Builder) Fields() []model.Field {
	out := make([]model.Field, len(b.doc.Fields))
	for i, field := range b.doc.Fields {
		out[i] = field.Clone()
	}
	return out
}

// Append adds a field to the end of the sequence.
func (b *Builder) Append(field model.Field) error {
	return b.insert(field, len(b.doc.Fields))
}

// AppendNew creates a field of the given type, appends it, and selects it,
// matching the toolbox drop flow. The created field is returned.
func (b *Builder) AppendNew(t model.FieldType) (model.Field, error) {
	field, err := model.NewField(t)
	if err != nil {
		return model.Field{}, fmt.Errorf("builder: %w", err)
	}
	if err := b.Append(field); err != nil {
		return model.Field{}, err
	}
	b.selected = field.ID
	return field, nil
}

// InsertAfter places a field immediately after the anchor field. When the
// anchor is not on the canvas the field is appended instead.
func (b *Builder) InsertAfter(field model.Field, anchorID string) error {
	at := b.doc.IndexOf(anchorID)
	if at < 0 {
		return b.Append(field)
	}
	return b.insert(field, at+1)
}

func (b *Builder) insert(field model.Field, at int) error {
	if field.ID == "" {
		return fmt.Errorf("builder: field id is required")
	}
	if !model.ValidFieldType(field.Type) {
		return fmt.Errorf("builder: unsupported field type %q", field.Type)
	}
	if b.doc.IndexOf(field.ID) >= 0 {
		return fmt.Errorf("builder: field id %q already on canvas", field.ID)
	}
	clone := field.Clone()
	b.doc.Fields = append(b.doc.Fields, model.Field{})
	copy(b.doc.Fields[at+1:], b.doc.Fields[at:])
	b.doc.Fields[at] = clone
	return nil
}

// MoveTo relocates an existing field to the target index. Unknown ids are a
// no-op; out-of-range targets clamp to the valid range.
func (b *Builder) MoveTo(fieldID string, target int) {
	from := b.doc.IndexOf(fieldID)
	if from < 0 {
		return
	}
	if target < 0 {
		target = 0
	}
	if max := len(b.doc.Fields) - 1; target > max {
		target = max
	}
	if target == from {
		return
	}
	field := b.doc.Fields[from]
	b.doc.Fields = append(b.doc.Fields[:from], b.doc.Fields[from+1:]...)
	b.doc.Fields = append(b.doc.Fields, model.Field{})
	copy(b.doc.Fields[target+1:], b.doc.Fields[target:])
	b.doc.Fields[target] = field
}

// Remove deletes a field from the canvas. Unknown ids are a no-op. Removing
// the selected field clears the selection.
func (b *Builder) Remove(fieldID string) {
	at := b.doc.IndexOf(fieldID)
	if at < 0 {
		return
	}
	b.doc.Fields = append(b.doc.Fields[:at], b.doc.Fields[at+1:]...)
	if b.selected == fieldID {
		b.selected = ""
	}
}

// Select marks a field as the one under edit.
func (b *Builder) Select(fieldID string) error {
	if b.doc.IndexOf(fieldID) < 0 {
		return fmt.Errorf("builder: field %q not found", fieldID)
	}
	b.selected = fieldID
	return nil
}

// Deselect clears the selection, as when the properties surface is closed or
// the user clicks outside any field.
func (b *Builder) Deselect() { b.selected = "" }

// Selected returns the field under edit, if any.
func (b *Builder) Selected() (model.Field, bool) {
	if b.selected == "" {
		return model.Field{}, false
	}
	return b.doc.FieldByID(b.selected)
}

// Document snapshots the working document for persistence. Published is set
// unconditionally; the save flow knows no separate draft state.
func (b *Builder) Document() model.FormDocument {
	out := b.doc.Clone()
	out.Published = true
	return out
}

func (b *Builder) fieldAt(fieldID string) (*model.Field, error) {
	at := b.doc.IndexOf(fieldID)
	if at < 0 {
		return nil, fmt.Errorf("builder: field %q not found", fieldID)
	}
	return &b.doc.Fields[at], nil
}
