package builder

import (
	"fmt"
	"strings"

	"github.com/grantflow/formkit/pkg/model"
)

// Attribute names one editable slot on the properties surface.
type Attribute string

const (
	AttrLabel       Attribute = "label"
	AttrPlaceholder Attribute = "placeholder"
	AttrRequired    Attribute = "required"
	AttrOptions     Attribute = "options"
	AttrAccept      Attribute = "accept"
	AttrMinMax      Attribute = "minmax"
)

// Surface reports the editable attributes for a field type. The result is a
// pure function of the type: two fields of the same type always expose the
// same surface, whatever their current values.
func Surface(t model.FieldType) []Attribute {
	switch t {
	case model.FieldTypeText, model.FieldTypeTextarea, model.FieldTypeDate:
		return []Attribute{AttrLabel, AttrPlaceholder, AttrRequired}
	case model.FieldTypeNumber:
		return []Attribute{AttrLabel, AttrPlaceholder, AttrRequired, AttrMinMax}
	case model.FieldTypeDropdown:
		return []Attribute{AttrLabel, AttrPlaceholder, AttrRequired, AttrOptions}
	case model.FieldTypeCheckbox:
		return []Attribute{AttrLabel, AttrRequired}
	case model.FieldTypeFile:
		return []Attribute{AttrLabel, AttrRequired, AttrAccept}
	default:
		return nil
	}
}

func surfaceHas(t model.FieldType, attr Attribute) bool {
	for _, a := range Surface(t) {
		if a == attr {
			return true
		}
	}
	return false
}

func (b *Builder) editable(fieldID string, attr Attribute) (*model.Field, error) {
	field, err := b.fieldAt(fieldID)
	if err != nil {
		return nil, err
	}
	if !surfaceHas(field.Type, attr) {
		return nil, fmt.Errorf("builder: %s is not editable for %s fields", attr, field.Type)
	}
	return field, nil
}

// SetLabel updates a field's display label.
func (b *Builder) SetLabel(fieldID, label string) error {
	field, err := b.editable(fieldID, AttrLabel)
	if err != nil {
		return err
	}
	field.Label = label
	return nil
}

// SetPlaceholder updates a field's hint text.
func (b *Builder) SetPlaceholder(fieldID, placeholder string) error {
	field, err := b.editable(fieldID, AttrPlaceholder)
	if err != nil {
		return err
	}
	field.Placeholder = placeholder
	return nil
}

// SetRequired toggles the required flag.
func (b *Builder) SetRequired(fieldID string, required bool) error {
	field, err := b.editable(fieldID, AttrRequired)
	if err != nil {
		return err
	}
	field.Required = required
	return nil
}

// AddOption appends a dropdown choice. An empty value gets the positional
// default ("Option N"), matching the add button in the editor. The stored
// value is returned.
func (b *Builder) AddOption(fieldID, value string) (string, error) {
	field, err := b.editable(fieldID, AttrOptions)
	if err != nil {
		return "", err
	}
	if value == "" {
		value = fmt.Sprintf("Option %d", len(field.ExtraAttributes.Options)+1)
	}
	field.ExtraAttributes.Options = append(field.ExtraAttributes.Options, value)
	return value, nil
}

// SetOption replaces the dropdown choice at index.
func (b *Builder) SetOption(fieldID string, index int, value string) error {
	field, err := b.editable(fieldID, AttrOptions)
	if err != nil {
		return err
	}
	if index < 0 || index >= len(field.ExtraAttributes.Options) {
		return fmt.Errorf("builder: option index %d out of range", index)
	}
	field.ExtraAttributes.Options[index] = value
	return nil
}

// RemoveOption deletes the dropdown choice at index. Removing the last choice
// leaves an empty options list; that is a tolerated state, not an error.
func (b *Builder) RemoveOption(fieldID string, index int) error {
	field, err := b.editable(fieldID, AttrOptions)
	if err != nil {
		return err
	}
	options := field.ExtraAttributes.Options
	if index < 0 || index >= len(options) {
		return fmt.Errorf("builder: option index %d out of range", index)
	}
	field.ExtraAttributes.Options = append(options[:index], options[index+1:]...)
	return nil
}

// AcceptPatterns splits a file field's accept string into its patterns.
func AcceptPatterns(field model.Field) []string {
	raw := strings.TrimSpace(field.ExtraAttributes.Accept)
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		out = append(out, strings.TrimSpace(part))
	}
	return out
}

// AddAcceptPattern appends a file-type pattern. An empty value defaults to
// ".pdf", the editor's seed pattern.
func (b *Builder) AddAcceptPattern(fieldID, pattern string) error {
	field, err := b.editable(fieldID, AttrAccept)
	if err != nil {
		return err
	}
	if pattern == "" {
		pattern = ".pdf"
	}
	patterns := append(AcceptPatterns(*field), pattern)
	field.ExtraAttributes.Accept = strings.Join(patterns, ",")
	return nil
}

// SetAcceptPattern replaces the pattern at index.
func (b *Builder) SetAcceptPattern(fieldID string, index int, pattern string) error {
	field, err := b.editable(fieldID, AttrAccept)
	if err != nil {
		return err
	}
	patterns := AcceptPatterns(*field)
	if index < 0 || index >= len(patterns) {
		return fmt.Errorf("builder: accept index %d out of range", index)
	}
	patterns[index] = pattern
	field.ExtraAttributes.Accept = strings.Join(patterns, ",")
	return nil
}

// RemoveAcceptPattern deletes the pattern at index. An empty accept string
// means any file type is accepted.
func (b *Builder) RemoveAcceptPattern(fieldID string, index int) error {
	field, err := b.editable(fieldID, AttrAccept)
	if err != nil {
		return err
	}
	patterns := AcceptPatterns(*field)
	if index < 0 || index >= len(patterns) {
		return fmt.Errorf("builder: accept index %d out of range", index)
	}
	patterns = append(patterns[:index], patterns[index+1:]...)
	field.ExtraAttributes.Accept = strings.Join(patterns, ",")
	return nil
}

// SetMin sets the lower bound for a number field. Pass nil to clear. No
// consistency check against Max is performed; min > max is representable.
func (b *Builder) SetMin(fieldID string, min *float64) error {
	field, err := b.editable(fieldID, AttrMinMax)
	if err != nil {
		return err
	}
	field.ExtraAttributes.Min = min
	return nil
}

// SetMax sets the upper bound for a number field. Pass nil to clear.
func (b *Builder) SetMax(fieldID string, max *float64) error {
	field, err := b.editable(fieldID, AttrMinMax)
	if err != nil {
		return err
	}
	field.ExtraAttributes.Max = max
	return nil
}
