package tui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/grantflow/formkit/pkg/model"
	"github.com/grantflow/formkit/pkg/render"
)

const dateLayout = "2006-01-02"

// Name is the registry key for the TUI renderer.
const Name = "tui"

const skipChoice = "(leave blank)"

// Renderer walks a document field by field, prompting on the terminal and
// collecting an answer set. It implements render.Renderer so it can live in
// the same registry as markup renderers; Render returns the serialized
// answers instead of markup.
type Renderer struct {
	driver       PromptDriver
	outputFormat OutputFormat
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs a TUI renderer with defaults (survey driver, JSON output).
func New(options ...Option) *Renderer {
	r := &Renderer{
		driver:       newSurveyDriver(),
		outputFormat: OutputFormatJSON,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	return r
}

func (r *Renderer) Name() string { return Name }

func (r *Renderer) ContentType() string {
	if r.outputFormat == OutputFormatPrettyText {
		return "text/plain; charset=utf-8"
	}
	return "application/json"
}

// Render prompts for every field and returns the collected answers in the
// configured output format.
func (r *Renderer) Render(ctx context.Context, doc model.FormDocument, options render.Options) ([]byte, error) {
	answers, err := r.Fill(ctx, doc, options)
	if err != nil {
		return nil, err
	}
	if r.outputFormat == OutputFormatPrettyText {
		return []byte(prettyPrint(doc, answers)), nil
	}
	return json.Marshal(answers)
}

// Fill runs the interactive session and returns the raw answer set. Values
// already present in options.Values become prompt defaults. In read-only
// mode nothing is prompted; the document and current answers are printed
// instead.
func (r *Renderer) Fill(ctx context.Context, doc model.FormDocument, options render.Options) (model.AnswerSet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.driver == nil {
		return nil, errors.New("tui: prompt driver is nil")
	}
	if err := doc.Validate(); err != nil {
		return nil, fmt.Errorf("tui: %w", err)
	}

	if options.ReadOnly {
		if err := r.driver.Info(ctx, prettyPrint(doc, options.Values)); err != nil {
			return nil, err
		}
		return options.Values.Clone(), nil
	}

	answers := make(model.AnswerSet, len(doc.Fields))
	for _, field := range doc.Fields {
		value, err := r.promptField(ctx, field, options.Values)
		if err != nil {
			return nil, err
		}
		answers[field.ID] = value
	}
	// Prompts re-ask on required-empty input, but a required dropdown with
	// no configured choices or a declined required checkbox can still leave
	// a gap. Apply the same gate the submit path uses.
	if err := render.CheckRequired(doc, answers); err != nil {
		return nil, err
	}
	return answers, nil
}

func (r *Renderer) promptField(ctx context.Context, field model.Field, prior model.AnswerSet) (any, error) {
	priorStr, _ := prior.String(field.ID)
	switch field.Type {
	case model.FieldTypeNumber:
		return r.promptNumber(ctx, field, priorStr)
	case model.FieldTypeTextarea:
		return r.promptTextarea(ctx, field, priorStr)
	case model.FieldTypeDate:
		return r.promptDate(ctx, field, priorStr)
	case model.FieldTypeDropdown:
		return r.promptDropdown(ctx, field, priorStr)
	case model.FieldTypeCheckbox:
		return r.promptCheckbox(ctx, field, prior.Bool(field.ID))
	case model.FieldTypeFile:
		return r.promptFile(ctx, field, priorStr)
	default:
		return r.promptText(ctx, field, priorStr)
	}
}

func (r *Renderer) promptText(ctx context.Context, field model.Field, prior string) (any, error) {
	for {
		response, err := r.driver.Input(ctx, InputConfig{
			Message: promptMessage(field),
			Default: prior,
			Help:    field.Placeholder,
		})
		if err != nil {
			return nil, err
		}
		if field.Required && strings.TrimSpace(response) == "" {
			if err := r.info(ctx, field, "a response is required"); err != nil {
				return nil, err
			}
			continue
		}
		return response, nil
	}
}

func (r *Renderer) promptTextarea(ctx context.Context, field model.Field, prior string) (any, error) {
	for {
		response, err := r.driver.TextArea(ctx, TextAreaConfig{
			Message: promptMessage(field),
			Default: prior,
			Help:    field.Placeholder,
		})
		if err != nil {
			return nil, err
		}
		if field.Required && strings.TrimSpace(response) == "" {
			if err := r.info(ctx, field, "a response is required"); err != nil {
				return nil, err
			}
			continue
		}
		return response, nil
	}
}

// promptNumber keeps the numeric answer as a string so the stored shape
// matches form submissions from other surfaces.
func (r *Renderer) promptNumber(ctx context.Context, field model.Field, prior string) (any, error) {
	for {
		response, err := r.driver.Input(ctx, InputConfig{
			Message: promptMessage(field),
			Default: prior,
			Help:    field.Placeholder,
		})
		if err != nil {
			return nil, err
		}

		trimmed := strings.TrimSpace(response)
		if trimmed == "" {
			if !field.Required {
				return "", nil
			}
			if err := r.info(ctx, field, "a response is required"); err != nil {
				return nil, err
			}
			continue
		}

		value, parseErr := strconv.ParseFloat(trimmed, 64)
		if parseErr != nil {
			if err := r.info(ctx, field, "enter a numeric value"); err != nil {
				return nil, err
			}
			continue
		}
		if min := field.ExtraAttributes.Min; min != nil && value < *min {
			if err := r.info(ctx, field, fmt.Sprintf("value must be at least %s", formatBound(*min))); err != nil {
				return nil, err
			}
			continue
		}
		if max := field.ExtraAttributes.Max; max != nil && value > *max {
			if err := r.info(ctx, field, fmt.Sprintf("value must be at most %s", formatBound(*max))); err != nil {
				return nil, err
			}
			continue
		}
		return trimmed, nil
	}
}

func (r *Renderer) promptDate(ctx context.Context, field model.Field, prior string) (any, error) {
	for {
		response, err := r.driver.Input(ctx, InputConfig{
			Message: promptMessage(field),
			Default: prior,
			Help:    "YYYY-MM-DD",
		})
		if err != nil {
			return nil, err
		}

		trimmed := strings.TrimSpace(response)
		if trimmed == "" {
			if !field.Required {
				return "", nil
			}
			if err := r.info(ctx, field, "a response is required"); err != nil {
				return nil, err
			}
			continue
		}
		if _, parseErr := time.Parse(dateLayout, trimmed); parseErr != nil {
			if err := r.info(ctx, field, "enter a date as YYYY-MM-DD"); err != nil {
				return nil, err
			}
			continue
		}
		return trimmed, nil
	}
}

func (r *Renderer) promptDropdown(ctx context.Context, field model.Field, prior string) (any, error) {
	choices := field.ExtraAttributes.Options
	if len(choices) == 0 {
		// A dropdown without configured choices cannot be answered.
		if err := r.info(ctx, field, "no choices configured, skipping"); err != nil {
			return nil, err
		}
		return "", nil
	}

	options := choices
	if !field.Required {
		options = append([]string{skipChoice}, choices...)
	}

	defaultIndex := indexOf(options, prior)
	if defaultIndex < 0 {
		defaultIndex = 0
	}

	idx, err := r.driver.Select(ctx, SelectConfig{
		Message:      promptMessage(field),
		Options:      options,
		DefaultIndex: defaultIndex,
		Help:         field.Placeholder,
	})
	if err != nil {
		return nil, err
	}
	if idx < 0 || idx >= len(options) || options[idx] == skipChoice {
		return "", nil
	}
	return options[idx], nil
}

func (r *Renderer) promptCheckbox(ctx context.Context, field model.Field, prior bool) (any, error) {
	return r.driver.Confirm(ctx, ConfirmConfig{
		Message: promptMessage(field),
		Default: prior,
		Help:    field.Placeholder,
	})
}

// promptFile asks for a path and stores only the base filename, matching
// what browser file inputs submit.
func (r *Renderer) promptFile(ctx context.Context, field model.Field, prior string) (any, error) {
	accepted := acceptPatterns(field)
	for {
		response, err := r.driver.Input(ctx, InputConfig{
			Message: promptMessage(field),
			Default: prior,
			Help:    acceptHelp(accepted),
		})
		if err != nil {
			return nil, err
		}

		trimmed := strings.TrimSpace(response)
		if trimmed == "" {
			if !field.Required {
				return "", nil
			}
			if err := r.info(ctx, field, "a response is required"); err != nil {
				return nil, err
			}
			continue
		}
		if len(accepted) > 0 && !matchesAccept(trimmed, accepted) {
			if err := r.info(ctx, field, fmt.Sprintf("file must match %s", strings.Join(accepted, ", "))); err != nil {
				return nil, err
			}
			continue
		}
		return filepath.Base(trimmed), nil
	}
}

func (r *Renderer) info(ctx context.Context, field model.Field, msg string) error {
	return r.driver.Info(ctx, fmt.Sprintf("%s: %s", field.Label, msg))
}

func promptMessage(field model.Field) string {
	if field.Required {
		return field.Label + " *"
	}
	return field.Label
}

func acceptPatterns(field model.Field) []string {
	raw := strings.Split(field.ExtraAttributes.Accept, ",")
	out := make([]string, 0, len(raw))
	for _, pattern := range raw {
		trimmed := strings.TrimSpace(pattern)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func acceptHelp(accepted []string) string {
	if len(accepted) == 0 {
		return "path to the file"
	}
	return "path to a " + strings.Join(accepted, ", ") + " file"
}

func matchesAccept(name string, accepted []string) bool {
	lowered := strings.ToLower(name)
	for _, pattern := range accepted {
		if strings.HasSuffix(lowered, strings.ToLower(pattern)) {
			return true
		}
	}
	return false
}

func formatBound(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func prettyPrint(doc model.FormDocument, answers model.AnswerSet) string {
	var b strings.Builder
	b.WriteString(doc.Title)
	b.WriteString("\n")
	if doc.Description != "" {
		b.WriteString(doc.Description)
		b.WriteString("\n")
	}
	for _, field := range doc.Fields {
		b.WriteString("\n")
		b.WriteString(field.Label)
		b.WriteString(": ")
		if field.Type == model.FieldTypeCheckbox {
			b.WriteString(strconv.FormatBool(answers.Bool(field.ID)))
			continue
		}
		s, _ := answers.String(field.ID)
		b.WriteString(s)
	}
	return b.String()
}
