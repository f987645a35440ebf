package render

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/grantflow/formkit/pkg/model"
)

var (
	// ErrReadOnly is returned when a display-only session is asked to submit.
	ErrReadOnly = errors.New("render: session is read-only")
	// ErrSubmitting is returned when a submit arrives while a prior one is
	// still in flight. The submit control should be disabled during that
	// window; this is the backstop.
	ErrSubmitting = errors.New("render: submit already in flight")
)

// SubmitFunc is the caller-supplied completion callback. It receives the
// final answer set and is awaited before the session returns to idle.
type SubmitFunc func(ctx context.Context, answers model.AnswerSet) error

// Session collects answer state for one document and gates submission. It
// moves Idle → Submitting → Idle; the callback runs at most once per accepted
// submit, and a failed submit leaves the collected answers intact so the user
// can retry the same action.
type Session struct {
	mu         sync.Mutex
	doc        model.FormDocument
	answers    model.AnswerSet
	readOnly   bool
	submitting bool
}

// NewSession starts a fill session over doc, optionally seeded with a prior
// answer set. When readOnly is true the session is a pure display surface and
// refuses both edits and submission.
func NewSession(doc model.FormDocument, initial model.AnswerSet, readOnly bool) *Session {
	answers := initial.Clone()
	if answers == nil {
		answers = make(model.AnswerSet)
	}
	return &Session{
		doc:      doc.Clone(),
		answers:  answers,
		readOnly: readOnly,
	}
}

// Document returns the document under fill.
func (s *Session) Document() model.FormDocument {
	return s.doc.Clone()
}

// ReadOnly reports whether the session is display-only.
func (s *Session) ReadOnly() bool { return s.readOnly }

// Submitting reports whether a submit callback is currently in flight.
func (s *Session) Submitting() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.submitting
}

// Set records an answer for a field. Unknown fields and read-only sessions
// are rejected.
func (s *Session) Set(fieldID string, value any) error {
	if s.readOnly {
		return ErrReadOnly
	}
	if s.doc.IndexOf(fieldID) < 0 {
		return fmt.Errorf("render: field %q not in document", fieldID)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.answers[fieldID] = value
	return nil
}

// Answers returns a copy of the collected answer set.
func (s *Session) Answers() model.AnswerSet {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.answers.Clone()
}

// Submit runs the required-field gate and, when it passes, invokes fn exactly
// once with the final answer set, awaiting its result before returning to
// idle. The callback's error is returned unwrapped so callers can branch on
// it; the answer set is preserved either way. Submission may be repeated any
// number of times.
func (s *Session) Submit(ctx context.Context, fn SubmitFunc) error {
	if s.readOnly {
		return ErrReadOnly
	}
	if fn == nil {
		return errors.New("render: submit callback is required")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	if s.submitting {
		s.mu.Unlock()
		return ErrSubmitting
	}
	if err := CheckRequired(s.doc, s.answers); err != nil {
		s.mu.Unlock()
		return err
	}
	s.submitting = true
	answers := s.answers.Clone()
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.submitting = false
		s.mu.Unlock()
	}()

	return fn(ctx, answers)
}
