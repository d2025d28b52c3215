// Package record holds the guard checks shared by the catalog and sales
// validators. Each check inspects one field of a decoded JSON record and
// reports whether it has the expected type.
package record

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Rejection is a per-record schema failure. Only the first failing check of
// a record is ever reported.
type Rejection struct {
	Index  int
	Reason string
}

func (r Rejection) Error() string {
	return fmt.Sprintf("Warning: %s at index %d", r.Reason, r.Index)
}

// Diagnostic renders err as printed for the user, with the consequence on an
// indented second line.
func Diagnostic(err error, consequence string) string {
	return fmt.Sprintf("Error: %v.\n\t%s", err, consequence)
}

// Summary counts what a validator did with a document.
type Summary struct {
	Malformed bool // top-level value was not a sequence
	Accepted  int
	Rejected  int
}

// Items returns v as a sequence of elements.
func Items(v any) ([]any, bool) {
	items, ok := v.([]any)
	return items, ok
}

// Object returns v as a key-value record.
func Object(v any) (map[string]any, bool) {
	obj, ok := v.(map[string]any)
	return obj, ok
}

// Text returns obj[key] when present and a string.
func Text(obj map[string]any, key string) (string, bool) {
	s, ok := obj[key].(string)
	return s, ok
}

// Number returns obj[key] when present and numeric, integer or floating
// point. Booleans and null are not numeric; neither are non-finite values.
func Number(obj map[string]any, key string) (float64, bool) {
	switch n := obj[key].(type) {
	case json.Number:
		f, err := n.Float64()
		if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
			return 0, false
		}
		return f, true
	case float64:
		return n, !math.IsInf(n, 0) && !math.IsNaN(n)
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

// Integer returns obj[key] when present and integer-typed. A number literal
// with a fraction or exponent is floating point and rejected even when it is
// numerically whole (3.0, 1e2).
func Integer(obj map[string]any, key string) (int64, bool) {
	switch n := obj[key].(type) {
	case json.Number:
		s := n.String()
		if strings.ContainsAny(s, ".eE") {
			return 0, false
		}
		i, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return 0, false
		}
		return i, true
	case int:
		return int64(n), true
	case int64:
		return n, true
	}
	return 0, false
}
