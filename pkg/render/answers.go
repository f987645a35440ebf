package render

import (
	"fmt"
	"strings"

	"github.com/grantflow/formkit/pkg/model"
)

// RequiredError reports the required fields that lack an answer. It carries
// enough detail for a caller to highlight the offending controls.
type RequiredError struct {
	Missing []model.Field
}

func (e *RequiredError) Error() string {
	labels := make([]string, len(e.Missing))
	for i, field := range e.Missing {
		labels[i] = field.Label
	}
	return fmt.Sprintf("render: required fields missing: %s", strings.Join(labels, ", "))
}

// MissingRequired lists the required fields of doc without a type-appropriate
// non-empty value in answers, in document order. An empty result means the
// answer set passes the submission gate.
func MissingRequired(doc model.FormDocument, answers model.AnswerSet) []model.Field {
	var missing []model.Field
	for _, field := range doc.Fields {
		if !field.Required {
			continue
		}
		if !answers.Answered(field) {
			missing = append(missing, field)
		}
	}
	return missing
}

// CheckRequired wraps MissingRequired into an error for submit paths.
func CheckRequired(doc model.FormDocument, answers model.AnswerSet) error {
	if missing := MissingRequired(doc, answers); len(missing) > 0 {
		return &RequiredError{Missing: missing}
	}
	return nil
}
