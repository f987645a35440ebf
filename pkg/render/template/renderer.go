package template

import "io"

// TemplateRenderer is the engine contract the HTML renderer depends on.
// Implementations load named templates from a backing store, render them
// with a data context, and optionally copy the output to extra writers.
type TemplateRenderer interface {
	// Render picks RenderString when name looks like inline template
	// content and RenderTemplate otherwise.
	Render(name string, data any, out ...io.Writer) (string, error)
	RenderTemplate(name string, data any, out ...io.Writer) (string, error)
	RenderString(templateContent string, data any, out ...io.Writer) (string, error)
	RegisterFilter(name string, fn func(input any, param any) (any, error)) error
	GlobalContext(data any) error
}
