package submission

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/aretw0/intake/pkg/domain"
)

// Input is one answer set to re-validate in a batch.
type Input struct {
	Answers domain.Answers
	Visited []string
}

// DefaultBatchLimit bounds the number of concurrent validations in ValidateBatch.
const DefaultBatchLimit = 8

// ValidateBatch validates independent submissions in parallel against the
// same graph. Results keep the order of inputs. Validation shares no state,
// so the only error is ctx being done.
func ValidateBatch(ctx context.Context, sections []domain.Section, inputs []Input, limit int) ([]Result, error) {
	if limit <= 0 {
		limit = DefaultBatchLimit
	}

	results := make([]Result, len(inputs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, in := range inputs {
		if err := gctx.Err(); err != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = Validate(sections, in.Answers, in.Visited)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}
