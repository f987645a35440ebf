package render

import (
	theme "github.com/goliatone/go-theme"

	"github.com/grantflow/formkit/pkg/model"
)

// Options carries per-request data renderers use to customise output without
// touching the document itself.
type Options struct {
	// Values pre-populates controls from a prior answer set, keyed by field id.
	Values model.AnswerSet

	// ReadOnly renders a pure display surface: every control disabled, no
	// submit affordance.
	ReadOnly bool

	// SubmitLabel overrides the submit control caption. Empty means "Submit".
	SubmitLabel string

	// Theme optionally supplies resolved theme tokens and assets. Renderers
	// that produce markup map tokens onto CSS custom properties; interactive
	// renderers may ignore it.
	Theme *theme.RendererConfig
}

// Label returns the effective submit caption.
func (o Options) Label() string {
	if o.SubmitLabel != "" {
		return o.SubmitLabel
	}
	return "Submit"
}
