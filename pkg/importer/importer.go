// Package importer builds form documents from OpenAPI specifications so a
// tenant can bootstrap a form from an existing request schema instead of
// assembling it field by field.
package importer

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/grantflow/formkit/pkg/model"
)

// Importer converts OpenAPI request schemas into form documents.
type Importer struct {
	resolveReferences bool
}

// Option configures the importer.
type Option func(*Importer)

// WithReferenceResolution validates the document and follows external $ref
// targets while loading. Off by default to keep imports offline.
func WithReferenceResolution() Option {
	return func(i *Importer) {
		i.resolveReferences = true
	}
}

// New constructs an Importer.
func New(options ...Option) *Importer {
	i := &Importer{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(i)
	}
	return i
}

// Operations lists the operation identifiers found in the specification,
// sorted. Operations without an operationId are keyed "method:path".
func (i *Importer) Operations(ctx context.Context, raw []byte) ([]string, error) {
	spec, err := i.load(ctx, raw)
	if err != nil {
		return nil, err
	}

	var ids []string
	forEachOperation(spec, func(id string, _ *openapi3.Operation) {
		ids = append(ids, id)
	})
	sort.Strings(ids)
	return ids, nil
}

// FormFromSpec builds a form document from the request schema of one
// operation. Properties the field model cannot express (nested objects,
// arrays) are skipped.
func (i *Importer) FormFromSpec(ctx context.Context, raw []byte, operationID string) (model.FormDocument, error) {
	spec, err := i.load(ctx, raw)
	if err != nil {
		return model.FormDocument{}, err
	}

	var found *openapi3.Operation
	forEachOperation(spec, func(id string, op *openapi3.Operation) {
		if id == operationID {
			found = op
		}
	})
	if found == nil {
		return model.FormDocument{}, fmt.Errorf("importer: operation %q not found", operationID)
	}

	request := requestSchema(found)
	if request == nil {
		return model.FormDocument{}, fmt.Errorf("importer: operation %q has no usable request schema", operationID)
	}

	doc := model.NewFormDocument()
	if found.Summary != "" {
		doc.Title = found.Summary
	} else {
		doc.Title = operationID
	}
	if found.Description != "" {
		doc.Description = found.Description
	}

	doc.Fields, err = fieldsFromSchema(request)
	if err != nil {
		return model.FormDocument{}, err
	}
	return doc, nil
}

func (i *Importer) load(ctx context.Context, raw []byte) (*openapi3.T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, errors.New("importer: specification payload is empty")
	}

	loader := &openapi3.Loader{
		Context:               ctx,
		IsExternalRefsAllowed: i.resolveReferences,
	}
	spec, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("importer: load specification: %w", err)
	}

	if i.resolveReferences {
		if err := spec.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
			return nil, fmt.Errorf("importer: validate specification: %w", err)
		}
	}
	return spec, nil
}

func forEachOperation(spec *openapi3.T, visit func(id string, op *openapi3.Operation)) {
	if spec.Paths == nil {
		return
	}
	for path, item := range spec.Paths.Map() {
		if item == nil {
			continue
		}
		for method, op := range map[string]*openapi3.Operation{
			"GET": item.Get, "PUT": item.Put, "POST": item.Post,
			"DELETE": item.Delete, "PATCH": item.Patch,
		} {
			if op == nil {
				continue
			}
			id := op.OperationID
			if id == "" {
				id = strings.ToLower(method) + ":" + path
			}
			visit(id, op)
		}
	}
}

func requestSchema(op *openapi3.Operation) *openapi3.Schema {
	if op.RequestBody == nil || op.RequestBody.Value == nil {
		return nil
	}
	content := op.RequestBody.Value.Content
	for _, mediaType := range []string{"application/json", "application/x-www-form-urlencoded", "multipart/form-data"} {
		if mt, ok := content[mediaType]; ok && mt.Schema != nil && mt.Schema.Value != nil {
			return mt.Schema.Value
		}
	}
	for _, mt := range content {
		if mt.Schema != nil && mt.Schema.Value != nil {
			return mt.Schema.Value
		}
	}
	return nil
}

// fieldsFromSchema converts object properties to fields. Property names are
// sorted so the import is deterministic; the property name becomes the field
// id, which keeps answer keys stable across re-imports.
func fieldsFromSchema(src *openapi3.Schema) ([]model.Field, error) {
	if len(src.Properties) == 0 {
		return nil, errors.New("importer: request schema has no properties")
	}

	required := make(map[string]bool, len(src.Required))
	for _, name := range src.Required {
		required[name] = true
	}

	names := make([]string, 0, len(src.Properties))
	for name := range src.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	var fields []model.Field
	for _, name := range names {
		ref := src.Properties[name]
		if ref == nil || ref.Value == nil {
			continue
		}
		field, ok := fieldFromProperty(name, ref.Value)
		if !ok {
			continue
		}
		field.Required = required[name]
		fields = append(fields, field)
	}

	if len(fields) == 0 {
		return nil, errors.New("importer: no convertible properties in request schema")
	}
	return fields, nil
}

func fieldFromProperty(name string, src *openapi3.Schema) (model.Field, bool) {
	fieldType, ok := fieldTypeFor(src)
	if !ok {
		return model.Field{}, false
	}

	field := model.MustNewField(fieldType)
	field.ID = name
	field.Label = labelFor(name, src)
	field.Placeholder = strings.TrimSpace(src.Description)

	switch fieldType {
	case model.FieldTypeDropdown:
		field.ExtraAttributes.Options = enumOptions(src.Enum)
	case model.FieldTypeNumber:
		if src.Min != nil {
			value := *src.Min
			field.ExtraAttributes.Min = &value
		}
		if src.Max != nil {
			value := *src.Max
			field.ExtraAttributes.Max = &value
		}
	}
	return field, true
}

func fieldTypeFor(src *openapi3.Schema) (model.FieldType, bool) {
	switch schemaType(src) {
	case "string":
		if len(src.Enum) > 0 {
			return model.FieldTypeDropdown, true
		}
		switch src.Format {
		case "date", "date-time":
			return model.FieldTypeDate, true
		case "binary", "byte":
			return model.FieldTypeFile, true
		case "textarea":
			return model.FieldTypeTextarea, true
		}
		return model.FieldTypeText, true
	case "number", "integer":
		return model.FieldTypeNumber, true
	case "boolean":
		return model.FieldTypeCheckbox, true
	default:
		return "", false
	}
}

func schemaType(src *openapi3.Schema) string {
	if src.Type == nil {
		return ""
	}
	values := src.Type.Slice()
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

func enumOptions(enum []any) []string {
	out := make([]string, 0, len(enum))
	for _, value := range enum {
		out = append(out, fmt.Sprint(value))
	}
	return out
}

// labelFor prefers the schema title, falling back to the property name split
// on camelCase and snake_case boundaries.
func labelFor(name string, src *openapi3.Schema) string {
	if title := strings.TrimSpace(src.Title); title != "" {
		return title
	}
	return humanize(name)
}

func humanize(name string) string {
	var b strings.Builder
	var prev rune
	for i, r := range name {
		switch {
		case r == '_' || r == '-':
			b.WriteRune(' ')
			prev = ' '
			continue
		case i > 0 && unicode.IsUpper(r) && !unicode.IsUpper(prev) && prev != ' ':
			b.WriteRune(' ')
			b.WriteRune(r)
		case i == 0:
			b.WriteRune(unicode.ToUpper(r))
		default:
			b.WriteRune(r)
		}
		prev = r
	}
	return b.String()
}
