package ports

import (
	"context"

	"github.com/aretw0/intake/pkg/domain"
)

// DraftLoader reads authored drafts from a read-only source.
type DraftLoader interface {
	// LoadDraft returns domain.ErrIntakeNotFound for unknown ids.
	LoadDraft(ctx context.Context, intakeID string) (domain.Draft, error)

	// LoadDrafts returns every draft the source holds, sorted by intake id.
	LoadDrafts(ctx context.Context) ([]domain.Draft, error)
}
