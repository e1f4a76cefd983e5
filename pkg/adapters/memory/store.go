package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/aretw0/intake/pkg/domain"
)

type record struct {
	draft     *domain.Draft
	published *domain.Snapshot
}

// Store implements ports.Store in memory.
// Values are deep copied on the way in and out. Safe for concurrent use.
type Store struct {
	intakes     map[string]*record
	submissions map[string][]domain.Submission
	mu          sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		intakes:     make(map[string]*record),
		submissions: make(map[string][]domain.Submission),
	}
}

func (s *Store) LoadDraft(ctx context.Context, intakeID string) (domain.Draft, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.intakes[intakeID]
	if !ok || rec.draft == nil {
		return domain.Draft{}, domain.ErrIntakeNotFound
	}
	return rec.draft.Clone(), nil
}

func (s *Store) SaveDraft(ctx context.Context, draft domain.Draft) error {
	copied := draft.Clone()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entry(draft.IntakeID).draft = &copied
	return nil
}

func (s *Store) LoadPublished(ctx context.Context, intakeID string) (domain.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.intakes[intakeID]
	if !ok || rec.published == nil {
		return domain.Snapshot{}, domain.ErrNotPublished
	}
	return rec.published.Clone(), nil
}

func (s *Store) SavePublished(ctx context.Context, snapshot domain.Snapshot) error {
	copied := snapshot.Clone()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entry(snapshot.IntakeID).published = &copied
	return nil
}

// List returns all intake ids, sorted.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.intakes))
	for id := range s.intakes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (s *Store) SaveSubmission(ctx context.Context, sub domain.Submission) error {
	copied := sub.Clone()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.submissions[sub.IntakeID] = append(s.submissions[sub.IntakeID], copied)
	return nil
}

func (s *Store) ListSubmissions(ctx context.Context, intakeID string) ([]domain.Submission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored := s.submissions[intakeID]
	out := make([]domain.Submission, len(stored))
	for i, sub := range stored {
		out[i] = sub.Clone()
	}
	return out, nil
}

// entry must be called with the write lock held.
func (s *Store) entry(intakeID string) *record {
	rec, ok := s.intakes[intakeID]
	if !ok {
		rec = &record{}
		s.intakes[intakeID] = rec
	}
	return rec
}
