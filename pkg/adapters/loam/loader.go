package loam

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/aretw0/loam"

	"github.com/aretw0/intake/pkg/domain"
)

// Loader adapts a Loam repository to ports.DraftLoader.
// Every document in the repository is one intake draft.
type Loader struct {
	Repo *loam.TypedRepository[IntakeDocument]
}

// New creates a new Loam adapter.
func New(repo *loam.TypedRepository[IntakeDocument]) *Loader {
	return &Loader{
		Repo: repo,
	}
}

// Open initializes a read-only, strict Loam repository at path and wraps it.
func Open(path string) (*Loader, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}

	// Strict mode keeps numbers as json.Number, read-only keeps loam out of
	// its sandbox behavior: drafts are never written back.
	repo, err := loam.Init(absPath,
		loam.WithStrict(true),
		loam.WithReadOnly(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize loam: %w", err)
	}
	return New(loam.NewTypedRepository[IntakeDocument](repo)), nil
}

// LoadDraft loads the document named intakeID (any supported extension).
func (l *Loader) LoadDraft(ctx context.Context, intakeID string) (domain.Draft, error) {
	doc, err := l.Repo.Get(ctx, intakeID)
	if err != nil {
		// Loam does not expose a typed not-found error; fall back to a scan so
		// documents whose intakeId differs from the file name still resolve.
		drafts, listErr := l.LoadDrafts(ctx)
		if listErr != nil {
			return domain.Draft{}, errors.Join(fmt.Errorf("loam get failed for %s: %w", intakeID, err), listErr)
		}
		for _, d := range drafts {
			if d.IntakeID == intakeID {
				return d, nil
			}
		}
		return domain.Draft{}, fmt.Errorf("%w: %s", domain.ErrIntakeNotFound, intakeID)
	}
	return toDraft(doc.ID, doc.Data)
}

// LoadDrafts decodes every document of the repository, sorted by intake id.
func (l *Loader) LoadDrafts(ctx context.Context) ([]domain.Draft, error) {
	docs, err := l.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loam list failed: %w", err)
	}

	seen := make(map[string]string)
	drafts := make([]domain.Draft, 0, len(docs))
	for _, doc := range docs {
		draft, err := toDraft(doc.ID, doc.Data)
		if err != nil {
			return nil, err
		}
		if existing, ok := seen[draft.IntakeID]; ok {
			return nil, fmt.Errorf("collision detected: intake '%s' is defined in both '%s' and '%s'", draft.IntakeID, existing, doc.ID)
		}
		seen[draft.IntakeID] = doc.ID
		drafts = append(drafts, draft)
	}

	sort.Slice(drafts, func(i, j int) bool { return drafts[i].IntakeID < drafts[j].IntakeID })
	return drafts, nil
}
