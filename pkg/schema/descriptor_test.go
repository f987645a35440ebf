package schema

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/grantflow/formkit/pkg/model"
)

func TestFlattenUnwrapsContainersDepthFirst(t *testing.T) {
	input := []Descriptor{
		{Key: "intro", Label: "Intro"},
		{
			Key: "panel",
			Components: []Descriptor{
				{Key: "nested", Label: "Nested"},
				{
					Key: "inner-panel",
					Components: []Descriptor{
						{Key: "deep", Label: "Deep"},
					},
				},
			},
		},
		{
			Key: "layout",
			Columns: []Column{
				{Components: []Descriptor{{Key: "left"}}},
				{Components: []Descriptor{{Key: "right"}}},
			},
		},
		{
			Key: "table",
			Rows: [][]Cell{
				{
					{Components: []Descriptor{{Key: "r1c1"}}},
					{Components: []Descriptor{{Key: "r1c2"}}},
				},
				{
					{Components: []Descriptor{{Key: "r2c1"}}},
				},
			},
		},
	}

	var keys []string
	for _, d := range Flatten(input) {
		keys = append(keys, d.Key)
	}

	want := []string{
		"intro",
		"panel", "nested", "inner-panel", "deep",
		"layout", "left", "right",
		"table", "r1c1", "r1c2", "r2c1",
	}
	if diff := cmp.Diff(want, keys); diff != "" {
		t.Fatalf("flatten order mismatch (-want +got):\n%s", diff)
	}
}

func TestFlattenEmpty(t *testing.T) {
	if got := Flatten(nil); got != nil {
		t.Fatalf("Flatten(nil) = %v", got)
	}
}

func TestDecodeComponentsEnvelope(t *testing.T) {
	raw := []byte(`{"components":[{"key":"f1","label":"Total Budget Amount","type":"number"}]}`)

	got, err := Decode(raw)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(got) != 1 || got[0].Key != "f1" || got[0].Label != "Total Budget Amount" {
		t.Fatalf("decoded %+v", got)
	}
}

func TestDecodeFieldsEnvelope(t *testing.T) {
	raw := []byte(`{"fields":[{"id":"a1","label":"Name","type":"text"}]}`)

	got, err := Decode(raw)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(got) != 1 || got[0].ID != "a1" {
		t.Fatalf("decoded %+v", got)
	}
}

func TestDecodeBareArray(t *testing.T) {
	raw := []byte(`[{"key":"f1"},{"key":"f2"}]`)

	got, err := Decode(raw)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("decoded %+v", got)
	}
}

func TestDecodeDoubleEncoded(t *testing.T) {
	inner := `{"components":[{"key":"f1","label":"Amount"}]}`
	raw, err := json.Marshal(inner)
	if err != nil {
		t.Fatal(err)
	}

	got, err := Decode(raw)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(got) != 1 || got[0].Key != "f1" {
		t.Fatalf("decoded %+v", got)
	}
}

func TestDecodeYAML(t *testing.T) {
	raw := []byte("components:\n  - key: f1\n    label: Amount\n    columns:\n      - components:\n          - key: f2\n")

	got, err := Decode(raw)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	flat := Flatten(got)
	if len(flat) != 2 || flat[1].Key != "f2" {
		t.Fatalf("flattened %+v", flat)
	}
}

func TestDecodeObjectWithoutFieldLists(t *testing.T) {
	got, err := Decode([]byte(`{"version":2}`))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("decoded %+v", got)
	}
}

func TestDecodeMalformed(t *testing.T) {
	for _, raw := range []string{"", "   ", "{broken", "\"{still broken\""} {
		if _, err := Decode([]byte(raw)); err == nil {
			t.Errorf("Decode(%q) should fail", raw)
		}
	}
}

func TestFromDocument(t *testing.T) {
	doc := model.NewFormDocument()
	name := model.MustNewField(model.FieldTypeText)
	name.ID = "f-name"
	name.Label = "Name"
	doc.Fields = []model.Field{name}

	got := FromDocument(doc)
	want := []Descriptor{{ID: "f-name", Label: "Name", Type: "text"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("descriptors mismatch (-want +got):\n%s", diff)
	}
}

func TestDocumentFlattened(t *testing.T) {
	raw := []byte(`{"components":[{"key":"panel","components":[{"key":"f1"}]}]}`)

	doc, err := NewDocument(SourceFromFile("tenant/schema.json"), raw)
	if err != nil {
		t.Fatalf("NewDocument: %v", err)
	}

	flat, err := doc.Flattened()
	if err != nil {
		t.Fatalf("Flattened: %v", err)
	}
	if len(flat) != 2 || flat[1].Key != "f1" {
		t.Fatalf("flattened %+v", flat)
	}
}

func TestNewDocumentValidation(t *testing.T) {
	if _, err := NewDocument(nil, []byte("{}")); err == nil {
		t.Fatal("expected error for nil source")
	}
	if _, err := NewDocument(SourceFromFile("x.json"), nil); err == nil {
		t.Fatal("expected error for empty payload")
	}
}
