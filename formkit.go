// Package formkit assembles the form builder, renderers, and resolver into
// ready-to-use entry points. Libraries embedding individual pieces should
// import the pkg subpackages directly.
package formkit

import (
	"context"
	"fmt"

	"github.com/grantflow/formkit/pkg/builder"
	"github.com/grantflow/formkit/pkg/model"
	"github.com/grantflow/formkit/pkg/render"
	"github.com/grantflow/formkit/pkg/renderers/html"
	"github.com/grantflow/formkit/pkg/renderers/tui"
)

// NewBuilder returns an empty form builder with default document metadata.
func NewBuilder() *builder.Builder {
	return builder.New()
}

// NewRegistry returns a registry with the built-in renderers registered.
func NewRegistry(options ...RegistryOption) (*render.Registry, error) {
	cfg := registryConfig{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	registry := render.NewRegistry()

	htmlRenderer, err := html.New(cfg.htmlOptions...)
	if err != nil {
		return nil, fmt.Errorf("formkit: %w", err)
	}
	if err := registry.Register(htmlRenderer); err != nil {
		return nil, err
	}
	if err := registry.Register(tui.New(cfg.tuiOptions...)); err != nil {
		return nil, err
	}
	return registry, nil
}

// RegistryOption customises the built-in renderers during registry setup.
type RegistryOption func(*registryConfig)

type registryConfig struct {
	htmlOptions []html.Option
	tuiOptions  []tui.Option
}

// WithHTMLOptions forwards options to the HTML renderer.
func WithHTMLOptions(options ...html.Option) RegistryOption {
	return func(cfg *registryConfig) {
		cfg.htmlOptions = append(cfg.htmlOptions, options...)
	}
}

// WithTUIOptions forwards options to the TUI renderer.
func WithTUIOptions(options ...tui.Option) RegistryOption {
	return func(cfg *registryConfig) {
		cfg.tuiOptions = append(cfg.tuiOptions, options...)
	}
}

// RenderHTML renders a document with a default HTML renderer.
func RenderHTML(ctx context.Context, doc model.FormDocument, options render.Options) ([]byte, error) {
	renderer, err := html.New()
	if err != nil {
		return nil, err
	}
	return renderer.Render(ctx, doc, options)
}

// FillTUI runs an interactive terminal session over the document and
// returns the collected answers.
func FillTUI(ctx context.Context, doc model.FormDocument, options render.Options) (model.AnswerSet, error) {
	return tui.New().Fill(ctx, doc, options)
}
