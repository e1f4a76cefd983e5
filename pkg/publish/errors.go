package publish

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aretw0/intake/internal/validator"
)

var (
	// ErrValidationFailed matches every *ValidationFailedError.
	ErrValidationFailed = errors.New("flow validation failed")
	// ErrProposalRejected matches every *ProposalRejectedError.
	ErrProposalRejected = errors.New("routing proposal rejected")
	// ErrMissingIntakeID is returned when a draft without id is saved.
	ErrMissingIntakeID = errors.New("draft has no intake id")
)

// ValidationFailedError carries every error the validator reported.
type ValidationFailedError struct {
	IntakeID string
	Issues   []validator.Issue
}

func (e *ValidationFailedError) Error() string {
	return fmt.Sprintf("intake %q cannot be published: %s", e.IntakeID, strings.Join(messages(e.Issues), "; "))
}

func (e *ValidationFailedError) Unwrap() error { return ErrValidationFailed }

// Messages returns the issue messages verbatim, in report order.
func (e *ValidationFailedError) Messages() []string { return messages(e.Issues) }

// ProposalRejectedError lists why a routing proposal was refused.
type ProposalRejectedError struct {
	IntakeID string
	Issues   []validator.Issue
}

func (e *ProposalRejectedError) Error() string {
	return fmt.Sprintf("routing proposal for intake %q rejected: %s", e.IntakeID, strings.Join(messages(e.Issues), "; "))
}

func (e *ProposalRejectedError) Unwrap() error { return ErrProposalRejected }

// Messages returns the issue messages verbatim.
func (e *ProposalRejectedError) Messages() []string { return messages(e.Issues) }

func messages(issues []validator.Issue) []string {
	out := make([]string, len(issues))
	for i, issue := range issues {
		out[i] = issue.Message
	}
	return out
}
