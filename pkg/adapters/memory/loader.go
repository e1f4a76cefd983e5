package memory

import (
	"context"
	"sort"

	"github.com/aretw0/intake/pkg/domain"
)

// Loader implements ports.DraftLoader over a fixed set of drafts.
type Loader struct {
	drafts map[string]domain.Draft
}

// NewLoader creates a loader holding copies of the given drafts.
// A later draft with the same intake id replaces an earlier one.
func NewLoader(drafts ...domain.Draft) *Loader {
	l := &Loader{drafts: make(map[string]domain.Draft, len(drafts))}
	for _, d := range drafts {
		l.drafts[d.IntakeID] = d.Clone()
	}
	return l
}

func (l *Loader) LoadDraft(ctx context.Context, intakeID string) (domain.Draft, error) {
	d, ok := l.drafts[intakeID]
	if !ok {
		return domain.Draft{}, domain.ErrIntakeNotFound
	}
	return d.Clone(), nil
}

func (l *Loader) LoadDrafts(ctx context.Context) ([]domain.Draft, error) {
	ids := make([]string, 0, len(l.drafts))
	for id := range l.drafts {
		ids = append(ids, id)
	}
	sort.Strings(ids) // Deterministic order

	out := make([]domain.Draft, len(ids))
	for i, id := range ids {
		out[i] = l.drafts[id].Clone()
	}
	return out, nil
}
