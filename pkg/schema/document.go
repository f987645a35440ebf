package schema

import "errors"

// Document wraps a raw schema payload together with its origin, keeping the
// bytes immutable while they travel between loader and resolver.
type Document struct {
	source Source
	raw    []byte
}

// NewDocument constructs a Document wrapper while validating the inputs.
func NewDocument(src Source, raw []byte) (Document, error) {
	if src == nil {
		return Document{}, errors.New("schema: source is required")
	}
	if len(raw) == 0 {
		return Document{}, errors.New("schema: raw document is empty")
	}

	clone := append([]byte(nil), raw...)
	return Document{source: src, raw: clone}, nil
}

// MustNewDocument panics if the document cannot be created. Useful for tests.
func MustNewDocument(src Source, raw []byte) Document {
	doc, err := NewDocument(src, raw)
	if err != nil {
		panic(err)
	}
	return doc
}

// Source returns the origin metadata for the document.
func (d Document) Source() Source {
	return d.source
}

// Raw returns a defensive copy of the payload.
func (d Document) Raw() []byte {
	return append([]byte(nil), d.raw...)
}

// Location returns the string identifier for the origin.
func (d Document) Location() string {
	if d.source == nil {
		return ""
	}
	return d.source.Location()
}

// Descriptors decodes the payload into top-level schema descriptors.
func (d Document) Descriptors() ([]Descriptor, error) {
	return Decode(d.raw)
}

// Flattened decodes the payload and unwraps every container construct.
func (d Document) Flattened() ([]Descriptor, error) {
	descriptors, err := d.Descriptors()
	if err != nil {
		return nil, err
	}
	return Flatten(descriptors), nil
}
