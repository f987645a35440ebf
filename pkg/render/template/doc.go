// Package template defines the rendering-engine seam used by the HTML
// renderer. The gotemplate subpackage provides the default pongo2-backed
// implementation; callers with an existing template pipeline can satisfy
// TemplateRenderer themselves instead.
package template
