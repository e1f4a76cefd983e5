package submission

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/intake/pkg/domain"
)

func TestValidateBatch(t *testing.T) {
	inputs := make([]Input, 40)
	for i := range inputs {
		if i%2 == 0 {
			inputs[i] = Input{Answers: domain.Answers{"plan": "Pro", "budget": fmt.Sprint(i)}, Visited: []string{"A", "C"}}
		} else {
			inputs[i] = Input{Answers: domain.Answers{"plan": "Basic"}, Visited: []string{"A", "B"}}
		}
	}

	results, err := ValidateBatch(context.Background(), graph(), inputs, 4)
	require.NoError(t, err)
	require.Len(t, results, len(inputs))

	for i, res := range results {
		if i%2 == 0 {
			assert.True(t, res.Valid, "input %d", i)
			assert.Equal(t, float64(i), res.Sanitized["budget"], "input %d", i)
		} else {
			assert.False(t, res.Valid, "input %d", i)
			assert.Equal(t, "name", res.Errors[0].BlockID)
		}
	}
}

func TestValidateBatch_Empty(t *testing.T) {
	results, err := ValidateBatch(context.Background(), graph(), nil, 0)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestValidateBatch_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ValidateBatch(ctx, graph(), []Input{{Answers: domain.Answers{}}}, 2)
	assert.ErrorIs(t, err, context.Canceled)
}
