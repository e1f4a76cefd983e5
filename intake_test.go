package intake_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aretw0/intake"
	"github.com/aretw0/intake/pkg/adapters/memory"
	"github.com/aretw0/intake/pkg/domain"
	"github.com/aretw0/intake/pkg/proposal"
	"github.com/aretw0/intake/pkg/publish"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)

// scenarioDraft is A (required select Plan) -> equals Pro -> C, any -> B.
// B holds a required budget question; B and C are terminal.
func scenarioDraft(mode domain.Mode) domain.Draft {
	return domain.Draft{
		IntakeID: "scenario",
		Metadata: domain.Metadata{Title: "Scenario", Mode: mode},
		Sections: []domain.Section{
			{
				ID: "A",
				Blocks: []domain.Block{
					{ID: "plan", Kind: domain.KindQuestion, Label: "Plan", InputType: domain.InputSelect, Options: []string{"Basic", "Pro"}, Required: true},
				},
				Rules: []domain.Rule{
					{ID: "fallback", Operator: domain.OpAny, NextSectionID: "B"},
					{ID: "pro", Operator: domain.OpEquals, FromBlockID: "plan", Value: "Pro", NextSectionID: "C"},
				},
			},
			{
				ID: "B",
				Blocks: []domain.Block{
					{ID: "budget", Kind: domain.KindQuestion, Label: "Budget", InputType: domain.InputNumber, Required: true},
				},
			},
			{
				ID: "C",
				Blocks: []domain.Block{
					{ID: "notes", Kind: domain.KindQuestion, Label: "Notes", InputType: domain.InputTextarea},
				},
			},
		},
	}
}

func published(t *testing.T, mode domain.Mode, opts ...intake.Option) (*intake.Engine, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	eng := intake.New(store, append([]intake.Option{intake.WithClock(func() time.Time { return now })}, opts...)...)
	ctx := context.Background()
	require.NoError(t, eng.SaveDraft(ctx, scenarioDraft(mode)))
	_, err := eng.Publish(ctx, "scenario")
	require.NoError(t, err)
	return eng, store
}

func TestEngine_Next(t *testing.T) {
	eng, _ := published(t, domain.ModeGuided)
	ctx := context.Background()

	step, err := eng.Next(ctx, "scenario", "A", domain.Answers{"plan": "Pro"})
	require.NoError(t, err)
	assert.Equal(t, intake.Step{NextSectionID: "C"}, step)

	step, err = eng.Next(ctx, "scenario", "A", domain.Answers{"plan": "Basic"})
	require.NoError(t, err)
	assert.Equal(t, "B", step.NextSectionID)

	step, err = eng.Next(ctx, "scenario", "A", domain.Answers{})
	require.NoError(t, err)
	assert.Equal(t, "B", step.NextSectionID)

	step, err = eng.Next(ctx, "scenario", "C", nil)
	require.NoError(t, err)
	assert.Equal(t, intake.Step{Terminal: true}, step)

	_, err = eng.Next(ctx, "scenario", "Z", nil)
	assert.ErrorIs(t, err, domain.ErrSectionNotFound)

	_, err = eng.Next(ctx, "unknown", "A", nil)
	assert.ErrorIs(t, err, domain.ErrNotPublished)
}

func TestEngine_NextUsesPublishedGraph(t *testing.T) {
	eng, _ := published(t, domain.ModeGuided)
	ctx := context.Background()

	edited := scenarioDraft(domain.ModeGuided)
	edited.Sections[0].Rules[1].NextSectionID = "B"
	require.NoError(t, eng.SaveDraft(ctx, edited))

	step, err := eng.Next(ctx, "scenario", "A", domain.Answers{"plan": "Pro"})
	require.NoError(t, err)
	assert.Equal(t, "C", step.NextSectionID)
}

func TestEngine_SubmitVisitedScope(t *testing.T) {
	eng, store := published(t, domain.ModeGuided)
	ctx := context.Background()
	answers := domain.Answers{"plan": "Pro", "notes": "  call me  "}

	res, err := eng.Submit(ctx, "scenario", answers, map[string]any{
		"visitedSectionIds": []any{"A", "C"},
		"submittedAt":       "2026-05-04T10:00:00Z",
		"userAgent":         "dropped",
	})
	require.NoError(t, err)
	require.True(t, res.Valid, "unvisited B must not be checked: %v", res.Errors)
	require.NotNil(t, res.Submission)
	assert.Equal(t, "call me", res.Submission.Answers["notes"])
	assert.Equal(t, 1, res.Submission.SnapshotVersion)
	assert.Equal(t, now, res.Submission.CreatedAt)
	assert.Equal(t, domain.SubmissionMetadata{VisitedSectionIDs: []string{"A", "C"}, SubmittedAt: "2026-05-04T10:00:00Z"}, res.Submission.Metadata)

	res, err = eng.Submit(ctx, "scenario", answers, nil)
	require.NoError(t, err)
	assert.False(t, res.Valid, "without a visited list every section is required")
	assert.Nil(t, res.Submission)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, "budget", res.Errors[0].BlockID)
	assert.Equal(t, "Budget", res.Errors[0].Label)

	stored, err := store.ListSubmissions(ctx, "scenario")
	require.NoError(t, err)
	assert.Len(t, stored, 1, "invalid submissions are not persisted")
}

func TestEngine_SubmitMalformedVisitedValidatesEverySection(t *testing.T) {
	eng, store := published(t, domain.ModeGuided)
	ctx := context.Background()

	for _, visited := range []any{"A", 42, map[string]any{"A": true}} {
		res, err := eng.Submit(ctx, "scenario", domain.Answers{}, map[string]any{"visitedSectionIds": visited})
		require.NoError(t, err)
		assert.False(t, res.Valid, "%v", visited)
		assert.Nil(t, res.Submission)

		var blocks []string
		for _, fe := range res.Errors {
			blocks = append(blocks, fe.BlockID)
		}
		assert.Contains(t, blocks, "budget", "%v", visited)
	}

	stored, err := store.ListSubmissions(ctx, "scenario")
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestEngine_SubmitDocumentModeIgnoresVisited(t *testing.T) {
	eng, _ := published(t, domain.ModeDocument)

	res, err := eng.Submit(context.Background(), "scenario", domain.Answers{"plan": "Pro"}, map[string]any{
		"visitedSectionIds": []any{"A"},
	})
	require.NoError(t, err)
	assert.False(t, res.Valid)
}

func TestEngine_SubmitUnpublished(t *testing.T) {
	eng := intake.New(memory.NewStore())
	_, err := eng.Submit(context.Background(), "nope", domain.Answers{}, nil)
	assert.ErrorIs(t, err, domain.ErrNotPublished)
}

func TestEngine_Recheck(t *testing.T) {
	eng, _ := published(t, domain.ModeGuided)
	ctx := context.Background()

	_, err := eng.Submit(ctx, "scenario", domain.Answers{"plan": "Basic", "budget": 10}, map[string]any{"visitedSectionIds": []any{"A", "B"}})
	require.NoError(t, err)
	_, err = eng.Submit(ctx, "scenario", domain.Answers{"plan": "Pro"}, map[string]any{"visitedSectionIds": []any{"A", "C"}})
	require.NoError(t, err)

	// Republish with notes required: the Pro submission no longer validates.
	edited := scenarioDraft(domain.ModeGuided)
	edited.Sections[2].Blocks[0].Required = true
	require.NoError(t, eng.SaveDraft(ctx, edited))
	_, err = eng.Publish(ctx, "scenario")
	require.NoError(t, err)

	results, err := eng.Recheck(ctx, "scenario")
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.True(t, results[0].Valid)
	assert.False(t, results[1].Valid)
}

type stubGenerator struct {
	p   proposal.Proposal
	err error
}

func (s stubGenerator) Propose(context.Context, proposal.Summary) (proposal.Proposal, error) {
	return s.p, s.err
}

func TestEngine_GenerateProposal(t *testing.T) {
	ctx := context.Background()

	eng, _ := published(t, domain.ModeGuided)
	_, err := eng.GenerateProposal(ctx, "scenario")
	assert.ErrorIs(t, err, intake.ErrNoGenerator)

	eng, _ = published(t, domain.ModeGuided, intake.WithGenerator(stubGenerator{p: proposal.Proposal{
		"B": {{Operator: domain.OpAny, NextSectionID: "C"}},
	}}))
	res, err := eng.GenerateProposal(ctx, "scenario")
	require.NoError(t, err)
	assert.Equal(t, "C", res.Draft.Sections[1].Rules[0].NextSectionID)

	eng, _ = published(t, domain.ModeGuided, intake.WithGenerator(stubGenerator{p: proposal.Proposal{
		"B": {{Operator: domain.OpAny, NextSectionID: "invented"}},
	}}))
	_, err = eng.GenerateProposal(ctx, "scenario")
	assert.ErrorIs(t, err, publish.ErrProposalRejected)

	boom := errors.New("model unavailable")
	eng, _ = published(t, domain.ModeGuided, intake.WithGenerator(stubGenerator{err: boom}))
	_, err = eng.GenerateProposal(ctx, "scenario")
	assert.ErrorIs(t, err, boom)
}

func TestEngine_Summary(t *testing.T) {
	eng, _ := published(t, domain.ModeGuided)

	summary, err := eng.Summary(context.Background(), "scenario")
	require.NoError(t, err)
	require.Len(t, summary.Sections, 3)
	assert.Equal(t, []string{"Basic", "Pro"}, summary.Sections[0].Blocks[0].Options)
	assert.Nil(t, summary.Sections[1].Blocks[0].Options)
}
