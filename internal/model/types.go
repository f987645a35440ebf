package model

import (
	"fmt"

	"github.com/google/uuid"
)

// FieldType enumerates the closed set of form element kinds the builder can
// place on a canvas. The set is fixed; a field never changes type after
// creation.
type FieldType string

const (
	FieldTypeText     FieldType = "text"
	FieldTypeNumber   FieldType = "number"
	FieldTypeTextarea FieldType = "textarea"
	FieldTypeDropdown FieldType = "dropdown"
	FieldTypeDate     FieldType = "date"
	FieldTypeCheckbox FieldType = "checkbox"
	FieldTypeFile     FieldType = "file"
)

// FieldTypes returns every supported field type in canvas-toolbox order.
func FieldTypes() []FieldType {
	return []FieldType{
		FieldTypeText,
		FieldTypeNumber,
		FieldTypeTextarea,
		FieldTypeDropdown,
		FieldTypeDate,
		FieldTypeCheckbox,
		FieldTypeFile,
	}
}

// ValidFieldType reports whether t names a supported field type.
func ValidFieldType(t FieldType) bool {
	switch t {
	case FieldTypeText, FieldTypeNumber, FieldTypeTextarea, FieldTypeDropdown,
		FieldTypeDate, FieldTypeCheckbox, FieldTypeFile:
		return true
	}
	return false
}

// ExtraAttributes is the type-specific attribute bag. Only the slots relevant
// to a field's type are meaningful: Options for dropdowns, Min/Max for number
// fields, Accept (comma-separated patterns) for file fields. The model does
// not validate combinations; Min > Max or empty option strings are
// representable.
type ExtraAttributes struct {
	Options []string `json:"options,omitempty" yaml:"options,omitempty"`
	Min     *float64 `json:"min,omitempty" yaml:"min,omitempty"`
	Max     *float64 `json:"max,omitempty" yaml:"max,omitempty"`
	Accept  string   `json:"accept,omitempty" yaml:"accept,omitempty"`
}

// IsZero reports whether no attribute is set.
func (e ExtraAttributes) IsZero() bool {
	return len(e.Options) == 0 && e.Min == nil && e.Max == nil && e.Accept == ""
}

func (e ExtraAttributes) clone() ExtraAttributes {
	out := ExtraAttributes{Accept: e.Accept}
	if len(e.Options) > 0 {
		out.Options = append([]string(nil), e.Options...)
	}
	if e.Min != nil {
		v := *e.Min
		out.Min = &v
	}
	if e.Max != nil {
		v := *e.Max
		out.Max = &v
	}
	return out
}

// Field is one form element. ID and Type are fixed at creation; everything
// else is mutated through the builder's edit surface.
type Field struct {
	ID              string          `json:"id" yaml:"id"`
	Type            FieldType       `json:"type" yaml:"type"`
	Label           string          `json:"label" yaml:"label"`
	Placeholder     string          `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	Required        bool            `json:"required" yaml:"required"`
	ExtraAttributes ExtraAttributes `json:"extraAttributes" yaml:"extraAttributes"`
}

// NewField creates a field of the given type with a fresh id and the default
// label "New <type> field". Unknown types are rejected.
func NewField(t FieldType) (Field, error) {
	if !ValidFieldType(t) {
		return Field{}, fmt.Errorf("model: unsupported field type %q", t)
	}
	return Field{
		ID:    uuid.NewString(),
		Type:  t,
		Label: fmt.Sprintf("New %s field", t),
	}, nil
}

// MustNewField panics on an invalid type. Useful for tests and toolbox wiring.
func MustNewField(t FieldType) Field {
	field, err := NewField(t)
	if err != nil {
		panic(err)
	}
	return field
}

// Clone returns a deep copy of the field.
func (f Field) Clone() Field {
	out := f
	out.ExtraAttributes = f.ExtraAttributes.clone()
	return out
}
