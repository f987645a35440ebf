package render

import (
	"context"

	"github.com/grantflow/formkit/pkg/model"
)

// Renderer turns a form document into an input surface: bytes for static
// surfaces (HTML), a filled answer set for interactive ones (TUI). Both kinds
// implement this interface so registries and CLIs can treat them uniformly.
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, doc model.FormDocument, options Options) ([]byte, error)
}
