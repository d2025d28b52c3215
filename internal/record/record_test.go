package record

import (
	"encoding/json"
	"testing"
)

func TestDiagnostic(t *testing.T) {
	r := Rejection{Index: 2, Reason: "Missing price"}
	want := "Error: Warning: Missing price at index 2.\n\tProduct will not be included in calculations."
	if got := Diagnostic(r, "Product will not be included in calculations."); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestNumber(t *testing.T) {
	obj := map[string]any{
		"int":    json.Number("10"),
		"float":  json.Number("2.5"),
		"exp":    json.Number("1e2"),
		"neg":    json.Number("-3"),
		"huge":   json.Number("1e400"),
		"native": 4.25,
		"bool":   true,
		"text":   "10",
		"null":   nil,
	}
	ok := map[string]float64{"int": 10, "float": 2.5, "exp": 100, "neg": -3, "native": 4.25}
	for key, want := range ok {
		got, valid := Number(obj, key)
		if !valid || got != want {
			t.Fatalf("Number(%s): expected %v, got %v (valid=%v)", key, want, got, valid)
		}
	}
	for _, key := range []string{"huge", "bool", "text", "null", "absent"} {
		if _, valid := Number(obj, key); valid {
			t.Fatalf("Number(%s): expected rejection", key)
		}
	}
}

func TestInteger(t *testing.T) {
	obj := map[string]any{
		"int":      json.Number("3"),
		"neg":      json.Number("-7"),
		"whole":    json.Number("3.0"),
		"exp":      json.Number("1e2"),
		"upperExp": json.Number("1E2"),
		"overflow": json.Number("9223372036854775808"),
		"float64":  3.0,
		"native":   5,
		"bool":     false,
	}
	ok := map[string]int64{"int": 3, "neg": -7, "native": 5}
	for key, want := range ok {
		got, valid := Integer(obj, key)
		if !valid || got != want {
			t.Fatalf("Integer(%s): expected %v, got %v (valid=%v)", key, want, got, valid)
		}
	}
	for _, key := range []string{"whole", "exp", "upperExp", "overflow", "float64", "bool", "absent"} {
		if _, valid := Integer(obj, key); valid {
			t.Fatalf("Integer(%s): expected rejection", key)
		}
	}
}

func TestObjectAndItems(t *testing.T) {
	if _, ok := Items(map[string]any{}); ok {
		t.Fatalf("a record is not a sequence")
	}
	if _, ok := Items([]any{}); !ok {
		t.Fatalf("empty array is a sequence")
	}
	if _, ok := Object([]any{}); ok {
		t.Fatalf("a sequence is not a record")
	}
	if _, ok := Text(map[string]any{"title": json.Number("1")}, "title"); ok {
		t.Fatalf("number is not text")
	}
}
