package model

import (
	"strconv"
	"strings"
)

// AnswerSet maps field ids to submitted values. Value shapes follow the field
// type: string for text/textarea/dropdown/date, bool for checkbox,
// number-as-string for number inputs, filename string for file. Unanswered
// optional fields may be absent or hold an empty string.
type AnswerSet map[string]any

// Clone returns a shallow copy; values are scalars by construction.
func (a AnswerSet) Clone() AnswerSet {
	if a == nil {
		return nil
	}
	out := make(AnswerSet, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

// String reads a value as a string, stringifying scalars where needed.
func (a AnswerSet) String(id string) (string, bool) {
	v, ok := a[id]
	if !ok {
		return "", false
	}
	return CoerceString(v)
}

// CoerceString converts any scalar answer value to its string form.
func CoerceString(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case bool:
		return strconv.FormatBool(t), true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case int:
		return strconv.Itoa(t), true
	case int64:
		return strconv.FormatInt(t, 10), true
	default:
		return "", false
	}
}

// Bool reads a value as a boolean. Absent values are false.
func (a AnswerSet) Bool(id string) bool {
	v, ok := a[id]
	if !ok {
		return false
	}
	switch t := v.(type) {
	case bool:
		return t
	case string:
		return strings.EqualFold(t, "true") || t == "1"
	default:
		return false
	}
}

// Number reads a value as a float64, coercing number-as-string answers.
func (a AnswerSet) Number(id string) (float64, bool) {
	v, ok := a[id]
	if !ok || v == nil {
		return 0, false
	}
	return CoerceNumber(v)
}

// CoerceNumber converts any scalar answer value to a float64.
func CoerceNumber(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0, false
		}
		return parsed, true
	default:
		return 0, false
	}
}

// Answered reports whether the value held for a field counts as a non-empty
// answer for that field's type: non-empty trimmed string for text-like
// fields, a checked box for checkboxes.
func (a AnswerSet) Answered(field Field) bool {
	v, ok := a[field.ID]
	if !ok || v == nil {
		return false
	}
	if field.Type == FieldTypeCheckbox {
		return a.Bool(field.ID)
	}
	s, ok := a.String(field.ID)
	if !ok {
		return false
	}
	return strings.TrimSpace(s) != ""
}
