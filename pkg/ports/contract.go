package ports

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/intake/pkg/domain"
)

// RunStoreContract runs a suite of tests to verify that a Store implementation
// adheres to the defined interface contract.
func RunStoreContract(t *testing.T, store Store) {
	ctx := context.Background()
	intakeID := fmt.Sprintf("contract-%d", time.Now().UnixNano())

	draft := domain.Draft{
		IntakeID: intakeID,
		Metadata: domain.Metadata{Title: "Brief", Mode: domain.ModeGuided},
		Sections: []domain.Section{
			{
				ID:    "A",
				Title: "Plan",
				Blocks: []domain.Block{{
					ID: "plan", Kind: domain.KindQuestion, Label: "Plan", Required: true,
					InputType: domain.InputSelect, Options: []string{"Basic", "Pro"},
				}},
				Rules: []domain.Rule{
					{ID: "r1", Operator: domain.OpEquals, FromBlockID: "plan", Value: "Pro", NextSectionID: "B"},
				},
			},
			{ID: "B", Title: "Done"},
		},
		UpdatedAt: time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
	}

	t.Run("Load Missing Draft", func(t *testing.T) {
		_, err := store.LoadDraft(ctx, "missing-"+intakeID)
		assert.ErrorIs(t, err, domain.ErrIntakeNotFound)
	})

	t.Run("Save and Load Draft", func(t *testing.T) {
		require.NoError(t, store.SaveDraft(ctx, draft))

		loaded, err := store.LoadDraft(ctx, intakeID)
		require.NoError(t, err)
		assert.Equal(t, draft.Metadata.Title, loaded.Metadata.Title)
		require.Len(t, loaded.Sections, 2)
		assert.Equal(t, draft.Sections[0].Rules, loaded.Sections[0].Rules)
		assert.Equal(t, []string{"Basic", "Pro"}, loaded.Sections[0].Blocks[0].Options)
		assert.True(t, draft.UpdatedAt.Equal(loaded.UpdatedAt))
	})

	t.Run("Loaded Draft Is A Copy", func(t *testing.T) {
		loaded, err := store.LoadDraft(ctx, intakeID)
		require.NoError(t, err)
		loaded.Sections[0].Title = "mutated"

		again, err := store.LoadDraft(ctx, intakeID)
		require.NoError(t, err)
		assert.Equal(t, "Plan", again.Sections[0].Title)
	})

	t.Run("Unpublished", func(t *testing.T) {
		_, err := store.LoadPublished(ctx, intakeID)
		assert.ErrorIs(t, err, domain.ErrNotPublished)
	})

	t.Run("Publish Replaces Snapshot", func(t *testing.T) {
		at := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
		require.NoError(t, store.SavePublished(ctx, domain.NewSnapshot(draft, 1, at)))

		edited := draft.Clone()
		edited.Sections[1].Title = "Thanks"
		require.NoError(t, store.SavePublished(ctx, domain.NewSnapshot(edited, 2, at.Add(time.Hour))))

		snap, err := store.LoadPublished(ctx, intakeID)
		require.NoError(t, err)
		assert.Equal(t, 2, snap.Version)
		assert.Equal(t, "Thanks", snap.Sections[1].Title)
		assert.True(t, at.Add(time.Hour).Equal(snap.PublishedAt))

		// The draft is untouched by publishing.
		d, err := store.LoadDraft(ctx, intakeID)
		require.NoError(t, err)
		assert.Equal(t, "Done", d.Sections[1].Title)
	})

	t.Run("List", func(t *testing.T) {
		other := draft.Clone()
		other.IntakeID = intakeID + "-other"
		require.NoError(t, store.SaveDraft(ctx, other))

		ids, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, ids, intakeID)
		assert.Contains(t, ids, other.IntakeID)
		assert.IsNonDecreasing(t, ids)
	})

	t.Run("Submissions", func(t *testing.T) {
		empty, err := store.ListSubmissions(ctx, intakeID)
		require.NoError(t, err)
		assert.Empty(t, empty)

		for i, plan := range []string{"Basic", "Pro"} {
			sub := domain.Submission{
				ID:              fmt.Sprintf("%s-sub-%d", intakeID, i),
				IntakeID:        intakeID,
				SnapshotVersion: 2,
				Answers:         map[string]any{"plan": plan},
				Metadata:        domain.SubmissionMetadata{VisitedSectionIDs: []string{"A"}},
				CreatedAt:       time.Date(2025, 3, 1, 0, 0, i, 0, time.UTC),
			}
			require.NoError(t, store.SaveSubmission(ctx, sub))
		}

		subs, err := store.ListSubmissions(ctx, intakeID)
		require.NoError(t, err)
		require.Len(t, subs, 2)
		assert.Equal(t, "Basic", subs[0].Answers["plan"])
		assert.Equal(t, "Pro", subs[1].Answers["plan"])
		assert.Equal(t, []string{"A"}, subs[1].Metadata.VisitedSectionIDs)
		assert.Equal(t, 2, subs[0].SnapshotVersion)
	})
}
