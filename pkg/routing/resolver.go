package routing

import (
	"encoding/json"
	"reflect"
	"strconv"

	"github.com/aretw0/intake/pkg/domain"
)

// Resolve returns the id of the section that follows s for the given answers.
// ok is false when s is terminal for these answers.
func Resolve(s domain.Section, answers domain.Answers) (next string, ok bool) {
	if rule, matched := Conditional(s, answers); matched {
		return rule.NextSectionID, true
	}
	if rule, found := Fallback(s); found {
		return rule.NextSectionID, true
	}
	return "", false
}

// Conditional runs the conditional phase: the first equals rule, in list
// order, whose condition holds for answers.
func Conditional(s domain.Section, answers domain.Answers) (domain.Rule, bool) {
	for _, r := range s.Rules {
		if r.Operator != domain.OpEquals {
			continue
		}
		if Matches(r, answers) {
			return r, true
		}
	}
	return domain.Rule{}, false
}

// Fallback runs the fallback phase: the section's any rule, if declared.
// With more than one (which validation rejects) the first one wins.
func Fallback(s domain.Section) (domain.Rule, bool) {
	for _, r := range s.Rules {
		if r.Operator == domain.OpAny {
			return r, true
		}
	}
	return domain.Rule{}, false
}

// Matches reports whether an equals rule holds for answers.
// Scalar answers compare by exact text; list answers match when they contain
// the rule value.
func Matches(r domain.Rule, answers domain.Answers) bool {
	if r.Operator != domain.OpEquals {
		return false
	}
	answer, ok := answers[r.FromBlockID]
	if !ok || answer == nil {
		return false
	}

	switch v := answer.(type) {
	case []string:
		for _, item := range v {
			if item == r.Value {
				return true
			}
		}
		return false
	case []any:
		for _, item := range v {
			if text, ok := Canonical(item); ok && text == r.Value {
				return true
			}
		}
		return false
	}

	text, ok := Canonical(answer)
	return ok && text == r.Value
}

// Canonical returns the text form of a scalar answer used for comparison.
// Numbers use the shortest representation ("42", "1.5"); booleans are
// "true" or "false". Lists and objects have no canonical form.
func Canonical(v any) (string, bool) {
	switch x := v.(type) {
	case string:
		return x, true
	case bool:
		return strconv.FormatBool(x), true
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), true
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32), true
	case json.Number:
		if f, err := x.Float64(); err == nil {
			return strconv.FormatFloat(f, 'f', -1, 64), true
		}
		return x.String(), true
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(rv.Uint(), 10), true
	}
	return "", false
}
