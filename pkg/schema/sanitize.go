package schema

import (
	"encoding/json"
	"reflect"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

const (
	// MaxStringLength is the ceiling, in runes, for any sanitized string.
	MaxStringLength = 5000
	// MaxKeyLength caps object keys, in runes.
	MaxKeyLength = 128
	// MaxItems caps the length of arrays and the size of objects.
	MaxItems = 500
	// MaxDepth caps nesting. Values nested deeper are replaced by nil.
	MaxDepth = 8
)

// Sanitize returns a cleaned copy of a raw respondent value.
// Strings lose control characters (except \n, \t and \r), get invalid UTF-8
// repaired, are NFC-normalized, truncated to MaxStringLength and trimmed.
// Arrays and objects are copied recursively within MaxItems and MaxDepth.
// NaN and infinite floats become nil; a json.Number that is not a finite
// number becomes a plain string.
//
// Sanitize is idempotent: Sanitize(Sanitize(v)) equals Sanitize(v).
func Sanitize(v any) any {
	return sanitize(v, 0)
}

func sanitize(v any, depth int) any {
	if depth > MaxDepth {
		return nil
	}

	switch x := v.(type) {
	case nil:
		return nil
	case string:
		return SanitizeString(x)
	case []string:
		out := make([]string, 0, min(len(x), MaxItems))
		for i, s := range x {
			if i == MaxItems {
				break
			}
			out = append(out, SanitizeString(s))
		}
		return out
	case []any:
		return sanitizeList(reflect.ValueOf(x), depth)
	case map[string]any:
		return sanitizeObject(x, depth)
	case map[string]string:
		obj := make(map[string]any, len(x))
		for k, s := range x {
			obj[k] = s
		}
		return sanitizeObject(obj, depth)
	case float64:
		if !isFinite(x) {
			return nil
		}
		return x
	case float32:
		if !isFinite(float64(x)) {
			return nil
		}
		return x
	case json.Number:
		if f, err := x.Float64(); err != nil || !isFinite(f) {
			return SanitizeString(string(x))
		}
		return x
	case bool, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return x
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		return sanitizeList(rv, depth)
	}
	// Other scalars (custom string types) are kept as-is.
	return v
}

func sanitizeList(rv reflect.Value, depth int) []any {
	n := min(rv.Len(), MaxItems)
	out := make([]any, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, sanitize(rv.Index(i).Interface(), depth+1))
	}
	return out
}

func sanitizeObject(obj map[string]any, depth int) map[string]any {
	// Sorted keys keep collisions between keys that sanitize identically deterministic.
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make(map[string]any, min(len(obj), MaxItems))
	for _, k := range keys {
		key := sanitizeKey(k)
		if key == "" {
			continue
		}
		if _, seen := out[key]; seen {
			continue
		}
		if len(out) == MaxItems {
			break
		}
		out[key] = sanitize(obj[k], depth+1)
	}
	return out
}

func sanitizeKey(k string) string {
	k = SanitizeString(k)
	if utf8.RuneCountInString(k) > MaxKeyLength {
		k = strings.TrimSpace(string([]rune(k)[:MaxKeyLength]))
	}
	return k
}

// SanitizeString applies the string rules of Sanitize to a single value.
func SanitizeString(s string) string {
	s = strings.ToValidUTF8(s, "\uFFFD")
	s = stripControl(s)
	s = norm.NFC.String(s)
	if utf8.RuneCountInString(s) > MaxStringLength {
		s = string([]rune(s)[:MaxStringLength])
	}
	return strings.TrimSpace(s)
}

func stripControl(s string) string {
	clean := true
	for _, r := range s {
		if unicode.IsControl(r) && !isSafeControl(r) {
			clean = false
			break
		}
	}
	if clean {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if !unicode.IsControl(r) || isSafeControl(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func isSafeControl(r rune) bool {
	return r == '\n' || r == '\t' || r == '\r'
}
