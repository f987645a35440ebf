// Package resolver maps tenant-defined schemas onto the small fixed set of
// business values the backend expects. Resolution is a pure function of the
// flattened schema and the answer set: repeated calls always return the same
// match and value.
package resolver

import (
	"strings"

	"github.com/grantflow/formkit/pkg/model"
	"github.com/grantflow/formkit/pkg/schema"
)

// Concept names one business value and the vocabulary used to locate it in
// an arbitrary schema.
type Concept struct {
	// Name identifies the business value (amount, title, detail).
	Name string

	// Terms are case-insensitive substrings matched against descriptor
	// labels, keys, and ids.
	Terms []string

	// LiteralKeys are conventional answer-set keys tried when no schema
	// descriptor matches.
	LiteralKeys []string

	// Numeric concepts coerce the extracted value to a number; an empty or
	// zero value counts as unresolved.
	Numeric bool

	// Sentinel replaces the value when a numeric concept stays unresolved,
	// so downstream positive-number validation never blocks a submission.
	Sentinel *float64
}

// Resolution reports where a concept's value came from.
type Resolution struct {
	Concept string

	// Field is the matched descriptor, nil when resolution fell through to
	// literal keys or the sentinel.
	Field *schema.Descriptor

	// Value is the extracted value: float64 for numeric concepts, the raw
	// answer value otherwise. Nil when nothing resolved.
	Value any

	// FromSentinel marks values substituted by the sentinel fallback.
	FromSentinel bool
}

// Resolve runs the full cascade for one concept: first schema descriptor
// whose label, key, or id contains a candidate term, then the answer read
// under the descriptor's key and id, then the conventional literal keys,
// then the sentinel. Earliest flattened descriptor wins ties.
func Resolve(fields []schema.Descriptor, answers model.AnswerSet, concept Concept) Resolution {
	res := Resolution{Concept: concept.Name}

	for i := range fields {
		field := &fields[i]
		if !matchesConcept(field, concept) {
			continue
		}
		res.Field = field
		if value, ok := readAnswer(answers, field, concept); ok {
			res.Value = value
			return res
		}
		break
	}

	for _, key := range concept.LiteralKeys {
		raw, ok := answers[key]
		if !ok {
			continue
		}
		if value, ok := usableValue(raw, concept); ok {
			res.Value = value
			return res
		}
	}

	if concept.Numeric && concept.Sentinel != nil {
		res.Value = *concept.Sentinel
		res.FromSentinel = true
	}
	return res
}

// ResolveAll resolves each concept against the same schema and answers,
// keyed by concept name.
func ResolveAll(fields []schema.Descriptor, answers model.AnswerSet, concepts []Concept) map[string]Resolution {
	out := make(map[string]Resolution, len(concepts))
	for _, concept := range concepts {
		out[concept.Name] = Resolve(fields, answers, concept)
	}
	return out
}

// Number returns the resolved value as a float64, zero when unresolved.
func (r Resolution) Number() float64 {
	if v, ok := model.CoerceNumber(r.Value); ok {
		return v
	}
	return 0
}

// String returns the resolved value as a string, empty when unresolved.
func (r Resolution) String() string {
	if r.Value == nil {
		return ""
	}
	s, _ := model.CoerceString(r.Value)
	return s
}

func matchesConcept(field *schema.Descriptor, concept Concept) bool {
	label := strings.ToLower(field.Label)
	key := strings.ToLower(field.Key)
	id := strings.ToLower(field.ID)

	for _, term := range concept.Terms {
		needle := strings.ToLower(term)
		if needle == "" {
			continue
		}
		if strings.Contains(label, needle) || strings.Contains(key, needle) || strings.Contains(id, needle) {
			return true
		}
	}
	return false
}

// readAnswer tries the descriptor's key first, then its id.
func readAnswer(answers model.AnswerSet, field *schema.Descriptor, concept Concept) (any, bool) {
	for _, key := range []string{field.Key, field.ID} {
		if key == "" {
			continue
		}
		raw, ok := answers[key]
		if !ok {
			continue
		}
		if value, ok := usableValue(raw, concept); ok {
			return value, true
		}
	}
	return nil, false
}

// usableValue rejects the empty and, for numeric concepts, zero values that
// the cascade treats as unresolved.
func usableValue(raw any, concept Concept) (any, bool) {
	if concept.Numeric {
		value, ok := model.CoerceNumber(raw)
		if !ok || value == 0 {
			return nil, false
		}
		return value, true
	}

	if raw == nil {
		return nil, false
	}
	if s, ok := raw.(string); ok && strings.TrimSpace(s) == "" {
		return nil, false
	}
	return raw, true
}
