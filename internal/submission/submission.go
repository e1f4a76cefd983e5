package submission

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/aretw0/intake/pkg/domain"
	"github.com/aretw0/intake/pkg/schema"
)

// FieldError is a per-block failure, keyed the way the client rendered the block.
type FieldError struct {
	BlockID string `json:"blockId"`
	Label   string `json:"label"`
	Message string `json:"message"`
}

// Result is the outcome of Validate.
// Sanitized is exactly what should be persisted; the raw input never is.
type Result struct {
	Valid     bool           `json:"valid"`
	Errors    []FieldError   `json:"errors"`
	Sanitized map[string]any `json:"sanitized"`
	// Dropped lists answer keys that match no answer-producing block of the graph.
	Dropped []string `json:"dropped,omitempty"`

	causes []error
}

// Err returns nil for a valid result, otherwise a *schema.AggregateError of
// the per-block *schema.ValidationError values.
func (r Result) Err() error {
	if r.Valid {
		return nil
	}
	return &schema.AggregateError{Errors: r.causes}
}

// Validate checks answers against the graph.
//
// A nil visited list means document mode and every section is validated.
// Otherwise only blocks of the visited sections are validated; answers for
// other blocks are sanitized and carried through unchecked.
func Validate(sections []domain.Section, answers domain.Answers, visited []string) Result {
	res := Result{
		Errors:    []FieldError{},
		Sanitized: make(map[string]any, len(answers)),
	}

	blocks := make(map[string]domain.Block)
	for _, s := range sections {
		for _, b := range s.Blocks {
			if _, dup := blocks[b.ID]; !dup {
				blocks[b.ID] = b
			}
		}
	}

	for id, raw := range answers {
		b, ok := blocks[id]
		if !ok || !b.ProducesAnswer() {
			res.Dropped = append(res.Dropped, id)
			continue
		}
		res.Sanitized[id] = schema.Sanitize(raw)
	}
	sort.Strings(res.Dropped)

	inScope := scope(visited)
	seen := make(map[string]bool)
	for _, s := range sections {
		if !inScope(s.ID) {
			continue
		}
		for _, b := range s.Blocks {
			if seen[b.ID] {
				continue
			}
			seen[b.ID] = true

			contract := schema.Derive(b)
			if contract == nil {
				continue
			}
			value, present := res.Sanitized[b.ID]
			coerced, err := contract.Check(value, present)
			if err != nil {
				res.causes = append(res.causes, err)
				res.Errors = append(res.Errors, FieldError{
					BlockID: b.ID,
					Label:   b.DisplayName(),
					Message: err.Error(),
				})
				continue
			}
			if present {
				res.Sanitized[b.ID] = coerced
			}
		}
	}

	res.Valid = len(res.Errors) == 0
	return res
}

func scope(visited []string) func(string) bool {
	if visited == nil {
		return func(string) bool { return true }
	}
	set := make(map[string]bool, len(visited))
	for _, id := range visited {
		set[id] = true
	}
	return func(id string) bool { return set[id] }
}

// New builds the record to persist for a valid result.
func New(intakeID string, version int, res Result, meta domain.SubmissionMetadata, now time.Time) domain.Submission {
	return domain.Submission{
		ID:              uuid.NewString(),
		IntakeID:        intakeID,
		SnapshotVersion: version,
		Answers:         res.Sanitized,
		Metadata:        meta,
		CreatedAt:       now.UTC(),
	}
}
