package schema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/grantflow/formkit/pkg/model"
)

// Descriptor is one node of a tenant-defined schema. Leaf nodes carry a
// key or id plus a label; container nodes nest further descriptors under
// components, columns, or rows.
type Descriptor struct {
	Key   string `json:"key,omitempty" yaml:"key,omitempty"`
	ID    string `json:"id,omitempty" yaml:"id,omitempty"`
	Label string `json:"label,omitempty" yaml:"label,omitempty"`
	Type  string `json:"type,omitempty" yaml:"type,omitempty"`

	Components []Descriptor `json:"components,omitempty" yaml:"components,omitempty"`
	Columns    []Column     `json:"columns,omitempty" yaml:"columns,omitempty"`
	Rows       [][]Cell     `json:"rows,omitempty" yaml:"rows,omitempty"`
}

// Column is a layout container holding a vertical run of descriptors.
type Column struct {
	Components []Descriptor `json:"components,omitempty" yaml:"components,omitempty"`
}

// Cell is one table cell inside a row layout.
type Cell struct {
	Components []Descriptor `json:"components,omitempty" yaml:"components,omitempty"`
}

// Flatten unwraps container constructs into a single ordered sequence,
// depth-first, preserving encounter order. Containers appear in the output
// ahead of their children.
func Flatten(descriptors []Descriptor) []Descriptor {
	var flat []Descriptor
	for _, d := range descriptors {
		flat = append(flat, d)
		flat = append(flat, Flatten(d.Components)...)
		for _, column := range d.Columns {
			flat = append(flat, Flatten(column.Components)...)
		}
		for _, row := range d.Rows {
			for _, cell := range row {
				flat = append(flat, Flatten(cell.Components)...)
			}
		}
	}
	return flat
}

// envelope covers the two wrapper shapes schemas arrive in: third-party
// documents with a components list and this library's own documents with a
// fields list.
type envelope struct {
	Components []Descriptor `json:"components" yaml:"components"`
	Fields     []Descriptor `json:"fields" yaml:"fields"`
}

func (e envelope) descriptors() []Descriptor {
	if len(e.Components) > 0 {
		return e.Components
	}
	return e.Fields
}

// Decode parses a raw schema payload into top-level descriptors. It accepts
// a components or fields envelope, a bare descriptor array, JSON or YAML,
// and a double-encoded JSON string wrapping any of those. A well-formed
// document with no recognizable field list decodes to an empty sequence so
// callers degrade to "no usable schema" instead of failing.
func Decode(raw []byte) ([]Descriptor, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, errors.New("schema: empty document")
	}

	if trimmed[0] == '"' {
		var inner string
		if err := json.Unmarshal(trimmed, &inner); err == nil {
			return Decode([]byte(inner))
		}
	}

	switch trimmed[0] {
	case '{':
		var env envelope
		if err := json.Unmarshal(trimmed, &env); err == nil {
			return env.descriptors(), nil
		}
	case '[':
		var list []Descriptor
		if err := json.Unmarshal(trimmed, &list); err == nil {
			return list, nil
		}
	}

	var env envelope
	if err := yaml.Unmarshal(raw, &env); err == nil {
		if out := env.descriptors(); out != nil {
			return out, nil
		}
	}
	var list []Descriptor
	if err := yaml.Unmarshal(raw, &list); err == nil && list != nil {
		return list, nil
	}

	return nil, fmt.Errorf("schema: unrecognized document")
}

// FromDocument projects a form document's fields into descriptors so the
// same resolution path serves both native and tenant-defined schemas.
func FromDocument(doc model.FormDocument) []Descriptor {
	out := make([]Descriptor, 0, len(doc.Fields))
	for _, field := range doc.Fields {
		out = append(out, Descriptor{
			ID:    field.ID,
			Label: field.Label,
			Type:  string(field.Type),
		})
	}
	return out
}
