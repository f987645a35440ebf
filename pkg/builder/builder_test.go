package builder

import (
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/grantflow/formkit/pkg/model"
)

func ids(fields []model.Field) []string {
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = f.ID
	}
	return out
}

func TestAppendNew_SelectsField(t *testing.T) {
	b := New()
	field, err := b.AppendNew(model.FieldTypeText)
	if err != nil {
		t.Fatalf("append new: %v", err)
	}
	selected, ok := b.Selected()
	if !ok || selected.ID != field.ID {
		t.Fatalf("expected new field selected, got %+v ok=%v", selected, ok)
	}
}

func TestInsertAfter(t *testing.T) {
	b := New()
	first, _ := b.AppendNew(model.FieldTypeText)
	second, _ := b.AppendNew(model.FieldTypeNumber)

	mid := model.MustNewField(model.FieldTypeDate)
	if err := b.InsertAfter(mid, first.ID); err != nil {
		t.Fatalf("insert after: %v", err)
	}
	want := []string{first.ID, mid.ID, second.ID}
	if diff := cmp.Diff(want, ids(b.Fields())); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}

	// Unknown anchor falls back to append.
	tail := model.MustNewField(model.FieldTypeCheckbox)
	if err := b.InsertAfter(tail, "missing"); err != nil {
		t.Fatalf("insert after missing anchor: %v", err)
	}
	if got := ids(b.Fields()); got[len(got)-1] != tail.ID {
		t.Fatalf("expected fallback append, got order %v", got)
	}
}

func TestAppend_RejectsDuplicateID(t *testing.T) {
	b := New()
	field, _ := b.AppendNew(model.FieldTypeText)
	if err := b.Append(field); err == nil {
		t.Fatal("expected duplicate id rejection")
	}
}

func TestMoveTo_ClampsOutOfRange(t *testing.T) {
	b := New()
	a, _ := b.AppendNew(model.FieldTypeText)
	bb, _ := b.AppendNew(model.FieldTypeNumber)
	c, _ := b.AppendNew(model.FieldTypeDate)

	b.MoveTo(a.ID, 999)
	want := []string{bb.ID, c.ID, a.ID}
	if diff := cmp.Diff(want, ids(b.Fields())); diff != "" {
		t.Fatalf("clamp high mismatch (-want +got):\n%s", diff)
	}

	b.MoveTo(a.ID, -5)
	want = []string{a.ID, bb.ID, c.ID}
	if diff := cmp.Diff(want, ids(b.Fields())); diff != "" {
		t.Fatalf("clamp low mismatch (-want +got):\n%s", diff)
	}

	b.MoveTo("missing", 1)
	if diff := cmp.Diff(want, ids(b.Fields())); diff != "" {
		t.Fatalf("no-op move mutated order (-want +got):\n%s", diff)
	}
}

func TestRemove_SelectionConsistency(t *testing.T) {
	b := New()
	first, _ := b.AppendNew(model.FieldTypeText)
	second, _ := b.AppendNew(model.FieldTypeNumber)

	if err := b.Select(first.ID); err != nil {
		t.Fatalf("select: %v", err)
	}

	// Removing another field never changes the selection.
	b.Remove(second.ID)
	if selected, ok := b.Selected(); !ok || selected.ID != first.ID {
		t.Fatalf("selection changed by unrelated removal: %+v ok=%v", selected, ok)
	}

	// Removing the selected field always clears it.
	b.Remove(first.ID)
	if _, ok := b.Selected(); ok {
		t.Fatal("selection should clear when the selected field is removed")
	}

	// Removing an unknown id is a no-op.
	b.Remove("missing")
	if b.Len() != 0 {
		t.Fatalf("unexpected fields remain: %d", b.Len())
	}
}

// Random operation sequences must keep the sequence duplicate-free and equal
// to the set of appended-minus-removed fields.
func TestOrderingInvariant_RandomOps(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	b := New()
	live := map[string]bool{}

	for i := 0; i < 500; i++ {
		switch rng.Intn(4) {
		case 0:
			field, err := b.AppendNew(model.FieldTypeText)
			if err != nil {
				t.Fatalf("append: %v", err)
			}
			live[field.ID] = true
		case 1:
			field := model.MustNewField(model.FieldTypeNumber)
			anchor := randomID(rng, live)
			if err := b.InsertAfter(field, anchor); err != nil {
				t.Fatalf("insert: %v", err)
			}
			live[field.ID] = true
		case 2:
			b.MoveTo(randomID(rng, live), rng.Intn(20)-5)
		case 3:
			id := randomID(rng, live)
			b.Remove(id)
			delete(live, id)
		}
	}

	fields := b.Fields()
	if len(fields) != len(live) {
		t.Fatalf("field count %d, want %d", len(fields), len(live))
	}
	seen := map[string]bool{}
	for _, f := range fields {
		if seen[f.ID] {
			t.Fatalf("duplicate id %q", f.ID)
		}
		seen[f.ID] = true
		if !live[f.ID] {
			t.Fatalf("unexpected field %q", f.ID)
		}
	}
}

func randomID(rng *rand.Rand, live map[string]bool) string {
	if len(live) == 0 || rng.Intn(5) == 0 {
		return "missing"
	}
	n := rng.Intn(len(live))
	for id := range live {
		if n == 0 {
			return id
		}
		n--
	}
	return "missing"
}

func TestDocument_RoundTripThroughHydrate(t *testing.T) {
	b := New()
	b.SetTitle("Quarterly Report Intake")
	b.SetDescription("NGO quarterly reporting")
	name, _ := b.AppendNew(model.FieldTypeText)
	if err := b.SetLabel(name.ID, "Organisation Name"); err != nil {
		t.Fatalf("set label: %v", err)
	}
	category, _ := b.AppendNew(model.FieldTypeDropdown)
	if _, err := b.AddOption(category.ID, "Education"); err != nil {
		t.Fatalf("add option: %v", err)
	}

	saved := b.Document()
	if !saved.Published {
		t.Fatal("save snapshot must set published")
	}

	reopened, err := Hydrate(saved)
	if err != nil {
		t.Fatalf("hydrate: %v", err)
	}
	if diff := cmp.Diff(saved.Fields, reopened.Fields()); diff != "" {
		t.Fatalf("hydrate changed fields (-want +got):\n%s", diff)
	}
	if reopened.Title() != "Quarterly Report Intake" {
		t.Fatalf("title lost: %q", reopened.Title())
	}
}

func TestDocument_SnapshotIsDetached(t *testing.T) {
	b := New()
	field, _ := b.AppendNew(model.FieldTypeDropdown)
	b.AddOption(field.ID, "a")

	snap := b.Document()
	b.SetOption(field.ID, 0, "mutated")

	if snap.Fields[0].ExtraAttributes.Options[0] != "a" {
		t.Fatal("snapshot shares storage with the working document")
	}
}

func TestHydrate_RejectsInvalidDocument(t *testing.T) {
	field := model.MustNewField(model.FieldTypeText)
	doc := model.FormDocument{Fields: []model.Field{field, field}}
	if _, err := Hydrate(doc); err == nil {
		t.Fatal("expected duplicate id rejection")
	}
}
