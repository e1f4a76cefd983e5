package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDraft() Draft {
	low := 1.0
	return Draft{
		IntakeID: "intake-1",
		Metadata: Metadata{Title: "Onboarding", Mode: ModeGuided, Theme: map[string]string{"accent": "#000"}},
		Sections: []Section{
			{
				ID:    "a",
				Title: "Plan",
				Blocks: []Block{
					{ID: "plan", Kind: KindQuestion, InputType: InputSelect, Options: []string{"Basic", "Pro"}, Required: true},
					{ID: "budget", Kind: KindQuestion, InputType: InputSlider, Min: &low},
					{ID: "pics", Kind: KindImageChoice, ImageOptions: []ImageOption{{ID: "i1", ImageURL: "https://x/1.png"}}},
				},
				Rules: []Rule{{ID: "r1", Operator: OpAny, NextSectionID: "b"}},
			},
			{ID: "b", Title: "Done"},
		},
	}
}

func TestDraftClone_IsDeep(t *testing.T) {
	orig := sampleDraft()
	clone := orig.Clone()
	require.Equal(t, orig, clone)

	clone.Metadata.Theme["accent"] = "#fff"
	clone.Sections[0].Blocks[0].Options[0] = "Free"
	clone.Sections[0].Rules[0].NextSectionID = "z"
	*clone.Sections[0].Blocks[1].Min = 99
	clone.Sections[0].Blocks[2].ImageOptions[0].ID = "changed"

	assert.Equal(t, "#000", orig.Metadata.Theme["accent"])
	assert.Equal(t, "Basic", orig.Sections[0].Blocks[0].Options[0])
	assert.Equal(t, "b", orig.Sections[0].Rules[0].NextSectionID)
	assert.Equal(t, 1.0, *orig.Sections[0].Blocks[1].Min)
	assert.Equal(t, "i1", orig.Sections[0].Blocks[2].ImageOptions[0].ID)
}

func TestNewSnapshot_FreezesDraft(t *testing.T) {
	draft := sampleDraft()
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	snap := NewSnapshot(draft, 3, at)

	assert.Equal(t, "intake-1", snap.IntakeID)
	assert.Equal(t, 3, snap.Version)
	assert.Equal(t, at, snap.PublishedAt)

	draft.Sections[0].Title = "edited after publish"
	assert.Equal(t, "Plan", snap.Sections[0].Title)
}

func TestBlock_ProducesAnswer(t *testing.T) {
	tests := []struct {
		kind BlockKind
		want bool
	}{
		{KindContext, false},
		{KindHeading, false},
		{KindDivider, false},
		{KindImage, false},
		{KindVideo, false},
		{KindQuote, false},
		{KindQuestion, true},
		{KindImageChoice, true},
		{KindLinkCollection, true},
		{KindMoodboard, true},
		{KindBucketSort, true},
		{KindCallBooking, true},
		{BlockKind("signature"), true},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			assert.Equal(t, tt.want, Block{Kind: tt.kind}.ProducesAnswer())
		})
	}
}

func TestSection_Lookup(t *testing.T) {
	draft := sampleDraft()
	s, ok := FindSection(draft.Sections, "a")
	require.True(t, ok)
	b, ok := s.Block("plan")
	require.True(t, ok)
	assert.True(t, b.HasOption("Pro"))
	assert.False(t, b.HasOption("pro"))
	assert.Equal(t, "plan", b.DisplayName())

	_, ok = FindSection(draft.Sections, "missing")
	assert.False(t, ok)
	last, _ := FindSection(draft.Sections, "b")
	assert.True(t, last.IsTerminal())
}
