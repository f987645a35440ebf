package model

import "testing"

func TestAnswerSet_Answered(t *testing.T) {
	text := MustNewField(FieldTypeText)
	check := MustNewField(FieldTypeCheckbox)
	number := MustNewField(FieldTypeNumber)

	cases := []struct {
		name    string
		field   Field
		answers AnswerSet
		want    bool
	}{
		{"missing", text, AnswerSet{}, false},
		{"empty string", text, AnswerSet{text.ID: ""}, false},
		{"whitespace", text, AnswerSet{text.ID: "   "}, false},
		{"filled", text, AnswerSet{text.ID: "Alice"}, true},
		{"unchecked box", check, AnswerSet{check.ID: false}, false},
		{"checked box", check, AnswerSet{check.ID: true}, true},
		{"number as string", number, AnswerSet{number.ID: "42"}, true},
		{"nil value", text, AnswerSet{text.ID: nil}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.answers.Answered(tc.field); got != tc.want {
				t.Fatalf("Answered() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestCoerceString(t *testing.T) {
	cases := []struct {
		in   any
		want string
		ok   bool
	}{
		{"hello", "hello", true},
		{true, "true", true},
		{float64(12.5), "12.5", true},
		{float64(5000), "5000", true},
		{7, "7", true},
		{int64(9), "9", true},
		{nil, "", false},
		{[]string{"x"}, "", false},
	}
	for _, tc := range cases {
		got, ok := CoerceString(tc.in)
		if ok != tc.ok || got != tc.want {
			t.Fatalf("CoerceString(%v) = (%q, %v), want (%q, %v)", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestCoerceNumber(t *testing.T) {
	cases := []struct {
		in   any
		want float64
		ok   bool
	}{
		{"5000", 5000, true},
		{" 12.5 ", 12.5, true},
		{float64(3), 3, true},
		{7, 7, true},
		{"", 0, false},
		{"abc", 0, false},
		{true, 0, false},
	}
	for _, tc := range cases {
		got, ok := CoerceNumber(tc.in)
		if ok != tc.ok || got != tc.want {
			t.Fatalf("CoerceNumber(%v) = (%v, %v), want (%v, %v)", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}
