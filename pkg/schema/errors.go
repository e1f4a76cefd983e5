package schema

import "fmt"

// ValidationError represents a single block validation failure.
type ValidationError struct {
	BlockID string // Block the value belongs to
	Label   string // Human-readable block label
	Reason  string // Reason for failure, phrased to follow the label
	Value   any    // The value that failed validation
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Label, e.Reason)
}

// AggregateError represents multiple validation failures.
type AggregateError struct {
	Errors []error
}

func (e *AggregateError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	msg := fmt.Sprintf("%d validation errors:\n", len(e.Errors))
	for i, err := range e.Errors {
		msg += fmt.Sprintf("  %d. %s\n", i+1, err.Error())
	}
	return msg
}

// ValidationErrors returns all validation errors if err is an AggregateError.
// Otherwise returns nil.
func ValidationErrors(err error) []error {
	if aggr, ok := err.(*AggregateError); ok {
		return aggr.Errors
	}
	return nil
}
