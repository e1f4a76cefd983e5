package schema

import (
	"errors"
	"testing"

	"github.com/aretw0/intake/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func question(id string, input domain.InputType, required bool) domain.Block {
	return domain.Block{ID: id, Kind: domain.KindQuestion, Label: id, InputType: input, Required: required}
}

func TestDerive_PresentationKindsHaveNoContract(t *testing.T) {
	for _, kind := range []domain.BlockKind{
		domain.KindContext, domain.KindHeading, domain.KindDivider,
		domain.KindImage, domain.KindVideo, domain.KindQuote,
	} {
		assert.Nil(t, Derive(domain.Block{ID: "b", Kind: kind}), "kind %s", kind)
	}
}

func TestDerive_AnswerKinds(t *testing.T) {
	lo, hi := 0.0, 10.0

	tests := []struct {
		name    string
		block   domain.Block
		value   any
		present bool
		wantErr bool
	}{
		{"text ok", question("q", domain.InputText, true), "hi", true, false},
		{"text missing", question("q", domain.InputText, true), nil, false, true},
		{"text blank", question("q", domain.InputText, true), "   ", true, true},
		{"text optional missing", question("q", domain.InputText, false), nil, false, false},
		{"default input is text", question("q", "", true), "hi", true, false},
		{"text wrong type", question("q", domain.InputText, false), 12, true, true},
		{"email ok", question("q", domain.InputEmail, true), "a@b.io", true, false},
		{"email bad", question("q", domain.InputEmail, false), "nope", true, true},
		{"url ok", question("q", domain.InputURL, false), "https://a.io", true, false},
		{"url relative", question("q", domain.InputURL, false), "a.io", true, true},
		{"date ok", question("q", domain.InputDate, false), "2025-01-31", true, false},
		{"date bad", question("q", domain.InputDate, false), "31/01/2025", true, true},
		{"number string coerced", question("q", domain.InputNumber, true), "42", true, false},
		{"number zero is an answer", question("q", domain.InputNumber, true), 0, true, false},
		{"number text rejected", question("q", domain.InputNumber, false), "forty", true, true},
		{"slider in range", domain.Block{ID: "s", Kind: domain.KindQuestion, InputType: domain.InputSlider, Min: &lo, Max: &hi}, "7", true, false},
		{"slider out of range", domain.Block{ID: "s", Kind: domain.KindQuestion, InputType: domain.InputSlider, Min: &lo, Max: &hi}, 11, true, true},
		{"select ok", question("q", domain.InputSelect, true), "Pro", true, false},
		{"select empty", question("q", domain.InputSelect, true), "", true, true},
		{"multi_select ok", question("q", domain.InputMultiSelect, true), []any{"a"}, true, false},
		{"multi_select empty", question("q", domain.InputMultiSelect, true), []any{}, true, true},
		{"multi_select not list", question("q", domain.InputMultiSelect, false), "a", true, true},
		{"image single", domain.Block{ID: "i", Kind: domain.KindImageChoice, Required: true}, "img-1", true, false},
		{"image single given list", domain.Block{ID: "i", Kind: domain.KindImageChoice}, []any{"img-1"}, true, true},
		{"image multi", domain.Block{ID: "i", Kind: domain.KindImageChoice, Multi: true, Required: true}, []string{"img-1"}, true, false},
		{"image multi empty", domain.Block{ID: "i", Kind: domain.KindImageChoice, Multi: true, Required: true}, []string{}, true, true},
		{"links ok", domain.Block{ID: "l", Kind: domain.KindLinkCollection, Required: true}, []any{map[string]any{"url": "https://a.io"}}, true, false},
		{"links relative", domain.Block{ID: "l", Kind: domain.KindLinkCollection}, []any{map[string]any{"url": "a.io"}}, true, true},
		{"links required empty", domain.Block{ID: "l", Kind: domain.KindLinkCollection, Required: true}, []any{}, true, true},
		{"moodboard ranked ids", domain.Block{ID: "m", Kind: domain.KindMoodboard}, []any{"b", "a"}, true, false},
		{"bucket sort", domain.Block{ID: "b", Kind: domain.KindBucketSort}, map[string]any{"img-1": "Love"}, true, false},
		{"bucket sort not object", domain.Block{ID: "b", Kind: domain.KindBucketSort}, []any{"img-1"}, true, true},
		{"call booked", domain.Block{ID: "c", Kind: domain.KindCallBooking, Required: true}, true, true, false},
		{"call booked as text", domain.Block{ID: "c", Kind: domain.KindCallBooking, Required: true}, "true", true, false},
		{"call not booked but required", domain.Block{ID: "c", Kind: domain.KindCallBooking, Required: true}, false, true, true},
		{"call not booked optional", domain.Block{ID: "c", Kind: domain.KindCallBooking}, false, true, false},
		{"unknown kind accepts anything", domain.Block{ID: "x", Kind: "hologram", Required: true}, nil, false, false},
		{"unknown input keeps required", question("q", "color", true), nil, false, true},
		{"unknown input accepts any value", question("q", "color", true), 3, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Derive(tt.block)
			require.NotNil(t, c)

			_, err := c.Check(tt.value, tt.present)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestContract_CheckReturnsCoercedValue(t *testing.T) {
	c := Derive(question("budget", domain.InputNumber, false))

	got, err := c.Check("1500.5", true)
	require.NoError(t, err)
	assert.Equal(t, 1500.5, got)

	booking := Derive(domain.Block{ID: "call", Kind: domain.KindCallBooking})
	got, err = booking.Check("false", true)
	require.NoError(t, err)
	assert.Equal(t, false, got)
}

func TestContract_ErrorsCiteLabel(t *testing.T) {
	c := Derive(domain.Block{
		ID:        "services",
		Kind:      domain.KindQuestion,
		Label:     "Services needed",
		Required:  true,
		InputType: domain.InputMultiSelect,
		Options:   []string{"Design", "Build"},
	})

	_, err := c.Check([]any{}, true)
	require.Error(t, err)
	assert.Equal(t, "Services needed is required", err.Error())

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "services", verr.BlockID)

	// Values are not cross-checked against the declared options.
	_, err = c.Check([]any{"x"}, true)
	assert.NoError(t, err)
}

func TestContract_UnlabeledBlockFallsBackToID(t *testing.T) {
	c := Derive(question("q-7", domain.InputEmail, false))

	_, err := c.Check("bad", true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "q-7 is invalid")
}

func TestDeriveAll(t *testing.T) {
	sections := []domain.Section{
		{ID: "a", Blocks: []domain.Block{
			{ID: "intro", Kind: domain.KindHeading},
			question("name", domain.InputText, true),
		}},
		{ID: "b", Blocks: []domain.Block{
			{ID: "call", Kind: domain.KindCallBooking},
		}},
	}

	set := DeriveAll(sections)
	assert.Len(t, set, 2)
	assert.Contains(t, set, "name")
	assert.Contains(t, set, "call")
	assert.NotContains(t, set, "intro")
}
