package model

import (
	"encoding/json"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Default metadata applied when the builder opens with no prior data.
const (
	DefaultTitle       = "My New Form"
	DefaultDescription = "Created via Form Builder"
)

// FormDocument is the persisted unit: ordered fields plus title/description
// metadata. Field order is semantically meaningful; it is the rendering and
// tab order.
type FormDocument struct {
	Title       string  `json:"title" yaml:"title"`
	Description string  `json:"description" yaml:"description"`
	Fields      []Field `json:"fields" yaml:"fields"`
	Published   bool    `json:"published" yaml:"published"`
}

// NewFormDocument returns an empty document carrying the default metadata.
func NewFormDocument() FormDocument {
	return FormDocument{
		Title:       DefaultTitle,
		Description: DefaultDescription,
	}
}

// Clone returns a deep copy of the document.
func (d FormDocument) Clone() FormDocument {
	out := d
	if len(d.Fields) > 0 {
		out.Fields = make([]Field, len(d.Fields))
		for i, field := range d.Fields {
			out.Fields[i] = field.Clone()
		}
	}
	return out
}

// FieldByID finds a field by id.
func (d FormDocument) FieldByID(id string) (Field, bool) {
	for _, field := range d.Fields {
		if field.ID == id {
			return field, true
		}
	}
	return Field{}, false
}

// IndexOf returns the position of a field id, or -1 when absent.
func (d FormDocument) IndexOf(id string) int {
	for i, field := range d.Fields {
		if field.ID == id {
			return i
		}
	}
	return -1
}

// Validate checks the structural invariants the builder guarantees: unique,
// non-empty ids and known field types. Attribute combinations are deliberately
// not validated.
func (d FormDocument) Validate() error {
	seen := make(map[string]struct{}, len(d.Fields))
	for i, field := range d.Fields {
		if field.ID == "" {
			return fmt.Errorf("model: field %d has empty id", i)
		}
		if _, dup := seen[field.ID]; dup {
			return fmt.Errorf("model: duplicate field id %q", field.ID)
		}
		seen[field.ID] = struct{}{}
		if !ValidFieldType(field.Type) {
			return fmt.Errorf("model: field %q has unsupported type %q", field.ID, field.Type)
		}
	}
	return nil
}

// ParseFormDocument decodes a document from JSON. A payload that is itself a
// JSON-encoded string (double-encoded, as some backends store schemaJson) is
// unwrapped first. YAML is accepted as a fallback for documents kept as
// fixtures or templates on disk.
func ParseFormDocument(raw []byte) (FormDocument, error) {
	if len(raw) == 0 {
		return FormDocument{}, errors.New("model: document payload is empty")
	}

	var inner string
	if err := json.Unmarshal(raw, &inner); err == nil {
		raw = []byte(inner)
	}

	var doc FormDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		if yerr := yaml.Unmarshal(raw, &doc); yerr != nil {
			return FormDocument{}, fmt.Errorf("model: parse document: %w", err)
		}
	}
	if err := doc.Validate(); err != nil {
		return FormDocument{}, err
	}
	return doc, nil
}

// EncodeFormDocument serialises the document to JSON, the wire shape handed to
// the backend collaborator.
func EncodeFormDocument(doc FormDocument) ([]byte, error) {
	out, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("model: encode document: %w", err)
	}
	return out, nil
}
