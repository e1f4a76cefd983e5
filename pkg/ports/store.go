package ports

import (
	"context"

	"github.com/aretw0/intake/pkg/domain"
)

// IntakeStore persists the draft and the published snapshot of each intake,
// keyed by intake id.
type IntakeStore interface {
	// LoadDraft returns domain.ErrIntakeNotFound if no draft was ever saved.
	LoadDraft(ctx context.Context, intakeID string) (domain.Draft, error)

	// SaveDraft replaces the draft.
	SaveDraft(ctx context.Context, draft domain.Draft) error

	// LoadPublished returns domain.ErrNotPublished if the intake has no snapshot.
	LoadPublished(ctx context.Context, intakeID string) (domain.Snapshot, error)

	// SavePublished replaces the published snapshot in a single write.
	// Readers observe either the previous snapshot or the new one, never a mix.
	SavePublished(ctx context.Context, snapshot domain.Snapshot) error

	// List returns the ids of every intake with a draft or a snapshot, sorted.
	List(ctx context.Context) ([]string, error)
}

// SubmissionStore persists sanitized submissions.
type SubmissionStore interface {
	SaveSubmission(ctx context.Context, sub domain.Submission) error

	// ListSubmissions returns the submissions of an intake in insertion order.
	ListSubmissions(ctx context.Context, intakeID string) ([]domain.Submission, error)
}

// Store is a backend serving both intakes and submissions.
type Store interface {
	IntakeStore
	SubmissionStore
}
