package schema

import (
	"encoding/json"
	"reflect"
	"strconv"
	"strings"
)

// Contract is the value contract of one answer-producing block.
type Contract struct {
	BlockID  string
	Label    string
	Required bool
	Shape    Type

	// coerce normalizes a present value before validation (e.g. "42" -> 42.0).
	coerce func(any) any
	// satisfied overrides the default "non-empty" meaning of required.
	satisfied func(any) bool
}

// Check coerces and validates a value against the contract.
// present reports whether the respondent supplied the key at all.
// The returned value is the coerced value, which is what should be persisted.
func (c *Contract) Check(value any, present bool) (any, error) {
	if present && c.coerce != nil {
		value = c.coerce(value)
	}

	if !present || isEmpty(value) {
		if c.Required {
			return value, c.fail("is required", value)
		}
		return value, nil
	}

	if err := c.Shape.Validate(value); err != nil {
		return value, c.fail("is invalid: "+err.Error(), value)
	}

	if c.Required && c.satisfied != nil && !c.satisfied(value) {
		return value, c.fail("is required", value)
	}
	return value, nil
}

func (c *Contract) fail(reason string, value any) error {
	return &ValidationError{
		BlockID: c.BlockID,
		Label:   c.Label,
		Reason:  reason,
		Value:   value,
	}
}

// isEmpty reports values that count as "not answered".
// Zero numbers and false are answers, not absences.
func isEmpty(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(x) == ""
	case map[string]any:
		return len(x) == 0
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		return rv.Len() == 0
	}
	return false
}

func coerceNumber(v any) any {
	switch x := v.(type) {
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return s
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil && isFinite(f) {
			return f
		}
		return x
	case json.Number:
		if f, err := x.Float64(); err == nil && isFinite(f) {
			return f
		}
		return x
	}
	if f, ok := toFloat(v); ok {
		return f
	}
	return v
}

func coerceBool(v any) any {
	if s, ok := v.(string); ok {
		switch strings.ToLower(strings.TrimSpace(s)) {
		case "true":
			return true
		case "false":
			return false
		}
	}
	return v
}

func isTrue(v any) bool {
	b, ok := v.(bool)
	return ok && b
}
