package schema

import (
	"encoding/json"
	"fmt"
	"math"
	"net/mail"
	"net/url"
	"reflect"
	"time"
)

// Type defines the contract for value validation.
// Implementations determine how values are validated against a shape.
type Type interface {
	// Name returns the human-readable name of the type (e.g., "string", "[string]").
	Name() string
	// Validate checks if a value conforms to this type.
	Validate(value any) error
}

// --- Built-in Type Implementations ---

// StringType validates string values.
type StringType struct{}

func (t *StringType) Name() string { return "string" }

func (t *StringType) Validate(value any) error {
	_, ok := value.(string)
	if !ok {
		return fmt.Errorf("expected string, got %T", value)
	}
	return nil
}

// NumberType validates numeric values, optionally bounded.
type NumberType struct {
	min *float64
	max *float64
}

func (t *NumberType) Name() string { return "number" }

func (t *NumberType) Validate(value any) error {
	f, ok := toFloat(value)
	if !ok {
		return fmt.Errorf("expected number, got %T", value)
	}
	if t.min != nil && f < *t.min {
		return fmt.Errorf("must be at least %v", *t.min)
	}
	if t.max != nil && f > *t.max {
		return fmt.Errorf("must be at most %v", *t.max)
	}
	return nil
}

// BoolType validates boolean values.
type BoolType struct{}

func (t *BoolType) Name() string { return "bool" }

func (t *BoolType) Validate(value any) error {
	_, ok := value.(bool)
	if !ok {
		return fmt.Errorf("expected bool, got %T", value)
	}
	return nil
}

// SliceType validates slices of a specific element type.
type SliceType struct {
	elemType Type
}

func (t *SliceType) Name() string {
	return fmt.Sprintf("[%s]", t.elemType.Name())
}

func (t *SliceType) Validate(value any) error {
	rv := reflect.ValueOf(value)
	if !rv.IsValid() || (rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array) {
		return fmt.Errorf("expected list, got %T", value)
	}

	for i := 0; i < rv.Len(); i++ {
		elem := rv.Index(i).Interface()
		if err := t.elemType.Validate(elem); err != nil {
			return fmt.Errorf("item %d: %w", i, err)
		}
	}
	return nil
}

// ObjectType validates string-keyed objects whose values share one type.
type ObjectType struct {
	valueType Type
}

func (t *ObjectType) Name() string {
	return fmt.Sprintf("{%s}", t.valueType.Name())
}

func (t *ObjectType) Validate(value any) error {
	obj, ok := value.(map[string]any)
	if !ok {
		return fmt.Errorf("expected object, got %T", value)
	}
	for key, v := range obj {
		if err := t.valueType.Validate(v); err != nil {
			return fmt.Errorf("key %q: %w", key, err)
		}
	}
	return nil
}

// AnyType accepts every value.
type AnyType struct{}

func (t *AnyType) Name() string { return "any" }

func (t *AnyType) Validate(any) error { return nil }

// CustomType applies a user-defined validation function.
type CustomType struct {
	name     string
	validate func(any) error
}

func (t *CustomType) Name() string { return t.name }

func (t *CustomType) Validate(value any) error {
	return t.validate(value)
}

// --- Factory Functions ---

// String creates a string type validator.
func String() Type { return &StringType{} }

// Number creates an unbounded number type validator.
func Number() Type { return &NumberType{} }

// NumberBetween creates a number validator with optional inclusive bounds.
func NumberBetween(lo, hi *float64) Type { return &NumberType{min: lo, max: hi} }

// Bool creates a boolean type validator.
func Bool() Type { return &BoolType{} }

// Slice creates a slice type validator for elements of the given type.
func Slice(elemType Type) Type {
	return &SliceType{elemType: elemType}
}

// Object creates an object validator whose values all match valueType.
func Object(valueType Type) Type {
	return &ObjectType{valueType: valueType}
}

// Any creates a validator accepting every value.
func Any() Type { return &AnyType{} }

// Custom creates a custom type validator with a user-defined function.
func Custom(name string, validate func(any) error) Type {
	return &CustomType{name: name, validate: validate}
}

// Email accepts a bare, syntactically valid e-mail address.
func Email() Type {
	return Custom("email", func(v any) error {
		s, ok := v.(string)
		if !ok {
			return fmt.Errorf("expected string, got %T", v)
		}
		addr, err := mail.ParseAddress(s)
		if err != nil || addr.Address != s {
			return fmt.Errorf("expected a valid email address")
		}
		return nil
	})
}

// URL accepts an absolute URL with a scheme and a host.
func URL() Type {
	return Custom("url", func(v any) error {
		s, ok := v.(string)
		if !ok {
			return fmt.Errorf("expected string, got %T", v)
		}
		if !IsAbsoluteURL(s) {
			return fmt.Errorf("expected an absolute URL")
		}
		return nil
	})
}

// Date accepts a calendar date formatted as YYYY-MM-DD.
func Date() Type {
	return Custom("date", func(v any) error {
		s, ok := v.(string)
		if !ok {
			return fmt.Errorf("expected string, got %T", v)
		}
		if _, err := time.Parse(time.DateOnly, s); err != nil {
			return fmt.Errorf("expected a date formatted as YYYY-MM-DD")
		}
		return nil
	})
}

// Link accepts a link collection item: an object with an absolute "url" and
// an optional string "title".
func Link() Type {
	return Custom("link", func(v any) error {
		item, ok := v.(map[string]any)
		if !ok {
			return fmt.Errorf("expected object, got %T", v)
		}
		raw, ok := item["url"].(string)
		if !ok || !IsAbsoluteURL(raw) {
			return fmt.Errorf("expected an absolute URL in \"url\"")
		}
		if title, exists := item["title"]; exists && title != nil {
			if _, ok := title.(string); !ok {
				return fmt.Errorf("expected string title, got %T", title)
			}
		}
		return nil
	})
}

// IsAbsoluteURL reports whether s parses as a URL with a scheme and a host.
func IsAbsoluteURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return u.IsAbs() && u.Host != ""
}

// toFloat accepts every numeric kind an answer decoder can produce and
// refuses NaN and the infinities, which cannot be stored as JSON.
func toFloat(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int8:
		f = float64(n)
	case int16:
		f = float64(n)
	case int32:
		f = float64(n)
	case int64:
		f = float64(n)
	case uint:
		f = float64(n)
	case uint8:
		f = float64(n)
	case uint16:
		f = float64(n)
	case uint32:
		f = float64(n)
	case uint64:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	return f, isFinite(f)
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
