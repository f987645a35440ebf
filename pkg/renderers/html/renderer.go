package html

import (
	"context"
	"fmt"
	"html"
	"sort"
	"strconv"
	"strings"

	"github.com/grantflow/formkit/pkg/model"
	"github.com/grantflow/formkit/pkg/render"
	"github.com/grantflow/formkit/pkg/render/template"
	"github.com/grantflow/formkit/pkg/render/template/gotemplate"
)

const (
	// Name is the registry key for the HTML renderer.
	Name = "html"

	defaultTemplate = "form"

	emptyDropdownChoice = "Select an option..."
	defaultCheckboxNote = "Yes"
)

// Option customises the renderer during construction.
type Option func(*Renderer)

// WithTemplateEngine swaps the default pongo2-backed engine for a caller
// supplied one. The engine must be able to resolve the configured template
// name.
func WithTemplateEngine(engine template.TemplateRenderer) Option {
	return func(r *Renderer) {
		if engine != nil {
			r.engine = engine
		}
	}
}

// WithTemplateName overrides the shell template rendered around the fields.
func WithTemplateName(name string) Option {
	return func(r *Renderer) {
		trimmed := strings.TrimSpace(name)
		if trimmed != "" {
			r.templateName = trimmed
		}
	}
}

// Renderer produces a standalone HTML form for a document. Field controls
// are built in Go and injected into a small template shell, so themes can
// restyle the chrome without touching control markup.
type Renderer struct {
	engine       template.TemplateRenderer
	templateName string
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs an HTML renderer backed by the embedded templates.
func New(options ...Option) (*Renderer, error) {
	r := &Renderer{templateName: defaultTemplate}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}

	if r.engine == nil {
		engine, err := gotemplate.New(gotemplate.WithFS(TemplatesFS()))
		if err != nil {
			return nil, fmt.Errorf("html: build template engine: %w", err)
		}
		r.engine = engine
	}
	return r, nil
}

// MustNew is New for wiring code where construction cannot fail.
func MustNew(options ...Option) *Renderer {
	r, err := New(options...)
	if err != nil {
		panic(err)
	}
	return r
}

func (r *Renderer) Name() string { return Name }

func (r *Renderer) ContentType() string { return "text/html; charset=utf-8" }

// Render produces the full form markup. Field values come from
// options.Values keyed by field id; read-only mode disables every control
// and drops the submit button.
func (r *Renderer) Render(ctx context.Context, doc model.FormDocument, options render.Options) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := doc.Validate(); err != nil {
		return nil, fmt.Errorf("html: %w", err)
	}

	fields := make([]any, 0, len(doc.Fields))
	for _, field := range doc.Fields {
		fields = append(fields, renderField(field, options))
	}

	data := map[string]any{
		"title":        sanitizeRichText(doc.Title),
		"description":  sanitizeRichText(doc.Description),
		"fields":       fields,
		"read_only":    options.ReadOnly,
		"submit_label": options.Label(),
		"css_vars":     cssVarsBlock(options),
	}

	out, err := r.engine.RenderTemplate(r.templateName, data)
	if err != nil {
		return nil, fmt.Errorf("html: %w", err)
	}
	return []byte(out), nil
}

// renderField builds the markup for a single control. Layout per type
// mirrors the browser form surface: label above the control, checkbox with
// a trailing caption, file inputs showing the stored filename when present.
func renderField(field model.Field, options render.Options) string {
	var b strings.Builder

	fmt.Fprintf(&b, "<div class=\"fk-field fk-field-%s\" data-field-id=%q>", field.Type, html.EscapeString(field.ID))

	if field.Type != model.FieldTypeCheckbox {
		writeLabel(&b, field)
	}

	value, _ := options.Values.String(field.ID)
	disabled := options.ReadOnly

	switch field.Type {
	case model.FieldTypeText:
		writeInput(&b, field, "text", value, disabled)
	case model.FieldTypeNumber:
		writeNumberInput(&b, field, value, disabled)
	case model.FieldTypeTextarea:
		writeTextarea(&b, field, value, disabled)
	case model.FieldTypeDate:
		writeInput(&b, field, "date", value, disabled)
	case model.FieldTypeDropdown:
		writeDropdown(&b, field, value, disabled)
	case model.FieldTypeCheckbox:
		writeCheckbox(&b, field, options.Values.Bool(field.ID), disabled)
	case model.FieldTypeFile:
		writeFileInput(&b, field, value, disabled)
	}

	b.WriteString("</div>")
	return b.String()
}

func writeLabel(b *strings.Builder, field model.Field) {
	fmt.Fprintf(b, "<label class=\"fk-label\" for=%q>%s", controlID(field.ID), sanitizeRichText(field.Label))
	if field.Required {
		b.WriteString("<span class=\"fk-required\" aria-hidden=\"true\">*</span>")
	}
	b.WriteString("</label>")
}

func writeInput(b *strings.Builder, field model.Field, inputType, value string, disabled bool) {
	fmt.Fprintf(b, "<input class=\"fk-input\" type=%q id=%q name=%q", inputType, controlID(field.ID), html.EscapeString(field.ID))
	writePlaceholder(b, field)
	if value != "" {
		fmt.Fprintf(b, " value=%q", html.EscapeString(value))
	}
	writeFlags(b, field.Required, disabled)
	b.WriteString(">")
}

func writeNumberInput(b *strings.Builder, field model.Field, value string, disabled bool) {
	fmt.Fprintf(b, "<input class=\"fk-input\" type=\"number\" id=%q name=%q", controlID(field.ID), html.EscapeString(field.ID))
	writePlaceholder(b, field)
	if min := field.ExtraAttributes.Min; min != nil {
		fmt.Fprintf(b, " min=%q", formatNumber(*min))
	}
	if max := field.ExtraAttributes.Max; max != nil {
		fmt.Fprintf(b, " max=%q", formatNumber(*max))
	}
	if value != "" {
		fmt.Fprintf(b, " value=%q", html.EscapeString(value))
	}
	writeFlags(b, field.Required, disabled)
	b.WriteString(">")
}

func writeTextarea(b *strings.Builder, field model.Field, value string, disabled bool) {
	fmt.Fprintf(b, "<textarea class=\"fk-textarea\" id=%q name=%q rows=\"4\"", controlID(field.ID), html.EscapeString(field.ID))
	writePlaceholder(b, field)
	writeFlags(b, field.Required, disabled)
	b.WriteString(">")
	b.WriteString(html.EscapeString(value))
	b.WriteString("</textarea>")
}

func writeDropdown(b *strings.Builder, field model.Field, value string, disabled bool) {
	fmt.Fprintf(b, "<select class=\"fk-select\" id=%q name=%q", controlID(field.ID), html.EscapeString(field.ID))
	writeFlags(b, field.Required, disabled)
	b.WriteString(">")

	fmt.Fprintf(b, "<option value=\"\"%s>%s</option>", selectedAttr(value == ""), emptyDropdownChoice)
	for _, option := range field.ExtraAttributes.Options {
		escaped := html.EscapeString(option)
		fmt.Fprintf(b, "<option value=%q%s>%s</option>", escaped, selectedAttr(option == value), escaped)
	}
	b.WriteString("</select>")
}

func writeCheckbox(b *strings.Builder, field model.Field, checked, disabled bool) {
	b.WriteString("<span class=\"fk-label\">")
	b.WriteString(sanitizeRichText(field.Label))
	if field.Required {
		b.WriteString("<span class=\"fk-required\" aria-hidden=\"true\">*</span>")
	}
	b.WriteString("</span>")

	b.WriteString("<span class=\"fk-checkbox\">")
	fmt.Fprintf(b, "<input type=\"checkbox\" id=%q name=%q value=\"true\"", controlID(field.ID), html.EscapeString(field.ID))
	if checked {
		b.WriteString(" checked")
	}
	writeFlags(b, field.Required, disabled)
	b.WriteString(">")

	note := strings.TrimSpace(field.Placeholder)
	if note == "" {
		note = defaultCheckboxNote
	}
	fmt.Fprintf(b, "<label class=\"fk-checkbox-note\" for=%q>%s</label>", controlID(field.ID), html.EscapeString(note))
	b.WriteString("</span>")
}

func writeFileInput(b *strings.Builder, field model.Field, value string, disabled bool) {
	fmt.Fprintf(b, "<input class=\"fk-input\" type=\"file\" id=%q name=%q", controlID(field.ID), html.EscapeString(field.ID))
	if accept := strings.TrimSpace(field.ExtraAttributes.Accept); accept != "" {
		fmt.Fprintf(b, " accept=%q", html.EscapeString(accept))
	}
	writeFlags(b, field.Required, disabled)
	b.WriteString(">")

	// A stored filename from a prior submission is shown next to the
	// control since file inputs cannot be pre-populated.
	if value != "" {
		fmt.Fprintf(b, "<span class=\"fk-file-name\">%s</span>", html.EscapeString(value))
	}
}

func writePlaceholder(b *strings.Builder, field model.Field) {
	if field.Placeholder != "" {
		fmt.Fprintf(b, " placeholder=%q", html.EscapeString(field.Placeholder))
	}
}

func writeFlags(b *strings.Builder, required, disabled bool) {
	if required {
		b.WriteString(" required")
	}
	if disabled {
		b.WriteString(" disabled")
	}
}

func selectedAttr(selected bool) string {
	if selected {
		return " selected"
	}
	return ""
}

func controlID(fieldID string) string {
	return "fk-" + html.EscapeString(fieldID)
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// cssVarsBlock turns resolved theme tokens into a :root custom-property
// block, keys sorted for stable output.
func cssVarsBlock(options render.Options) string {
	if options.Theme == nil || len(options.Theme.CSSVars) == 0 {
		return ""
	}

	keys := make([]string, 0, len(options.Theme.CSSVars))
	for key := range options.Theme.CSSVars {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(":root {\n")
	for _, key := range keys {
		b.WriteString("  ")
		b.WriteString(key)
		b.WriteString(": ")
		b.WriteString(options.Theme.CSSVars[key])
		b.WriteString(";\n")
	}
	b.WriteString("}")
	return b.String()
}
