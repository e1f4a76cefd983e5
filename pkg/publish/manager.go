package publish

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/intake/internal/logging"
	"github.com/aretw0/intake/internal/validator"
	"github.com/aretw0/intake/pkg/domain"
	"github.com/aretw0/intake/pkg/observability"
	"github.com/aretw0/intake/pkg/ports"
	"github.com/aretw0/intake/pkg/proposal"
)

// DefaultLockTTL bounds how long a crashed replica can hold an intake.
const DefaultLockTTL = 30 * time.Second

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager serializes draft and publish operations per intake.
// It uses Reference Counting to garbage collect unused locks.
type Manager struct {
	store ports.IntakeStore

	mu    sync.Mutex            // Global lock for the map
	locks map[string]*lockEntry // Map of active locks

	locker  ports.DistributedLocker // Optional distributed locker
	lockTTL time.Duration
	logger  *slog.Logger
	metrics *observability.Metrics
	strict  bool
	now     func() time.Time
}

// Option configures the Manager.
type Option func(*Manager)

// WithLocker enables distributed locking.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithLockTTL overrides DefaultLockTTL.
func WithLockTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		if ttl > 0 {
			m.lockTTL = ttl
		}
	}
}

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithMetrics records publish outcomes and validation findings.
func WithMetrics(metrics *observability.Metrics) Option {
	return func(m *Manager) {
		m.metrics = metrics
	}
}

// WithStrictReachability makes unreachable sections block publishing.
func WithStrictReachability(strict bool) Option {
	return func(m *Manager) {
		m.strict = strict
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

// NewManager creates a Manager over the given store.
func NewManager(store ports.IntakeStore, opts ...Option) *Manager {
	m := &Manager{
		store:   store,
		locks:   make(map[string]*lockEntry),
		lockTTL: DefaultLockTTL,
		logger:  logging.NewNop(), // Default to no-op
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Result is the outcome of a successful Publish.
type Result struct {
	Snapshot domain.Snapshot  `json:"snapshot"`
	Report   validator.Report `json:"report"`
}

// ProposalResult is the outcome of an accepted routing proposal.
type ProposalResult struct {
	Draft  domain.Draft     `json:"draft"`
	Report validator.Report `json:"report"`
}

// Store returns the underlying intake store.
func (m *Manager) Store() ports.IntakeStore {
	return m.store
}

// SaveDraft replaces the draft of draft.IntakeID.
func (m *Manager) SaveDraft(ctx context.Context, draft domain.Draft) error {
	if draft.IntakeID == "" {
		return ErrMissingIntakeID
	}
	return m.WithLock(ctx, draft.IntakeID, func(ctx context.Context) error {
		draft = draft.Clone()
		draft.UpdatedAt = m.now().UTC()
		return m.store.SaveDraft(ctx, draft)
	})
}

// Draft loads the current draft.
func (m *Manager) Draft(ctx context.Context, intakeID string) (domain.Draft, error) {
	return m.store.LoadDraft(ctx, intakeID)
}

// Published loads the current snapshot. It never takes the intake lock:
// snapshots are replaced as a whole.
func (m *Manager) Published(ctx context.Context, intakeID string) (domain.Snapshot, error) {
	return m.store.LoadPublished(ctx, intakeID)
}

// Validate runs the flow validator over the current draft without publishing.
func (m *Manager) Validate(ctx context.Context, intakeID string) (validator.Report, error) {
	draft, err := m.store.LoadDraft(ctx, intakeID)
	if err != nil {
		return validator.Report{}, err
	}
	return validator.Validate(draft.Sections, m.validatorOptions()...), nil
}

// Publish validates the draft and, only if it is valid, replaces the
// published snapshot with a frozen copy of it at the next version.
//
// Every validator error is returned through *ValidationFailedError.
func (m *Manager) Publish(ctx context.Context, intakeID string) (*Result, error) {
	start := m.now()
	var res *Result
	err := m.WithLock(ctx, intakeID, func(ctx context.Context) error {
		draft, err := m.store.LoadDraft(ctx, intakeID)
		if err != nil {
			return fmt.Errorf("failed to load draft: %w", err)
		}
		if len(draft.Sections) == 0 {
			return domain.ErrEmptyDraft
		}

		candidate := draft.Clone()
		report := validator.Validate(candidate.Sections, m.validatorOptions()...)
		m.observeReport(report)
		if !report.IsValid {
			return &ValidationFailedError{IntakeID: intakeID, Issues: report.Errors}
		}

		version := 1
		prev, err := m.store.LoadPublished(ctx, intakeID)
		switch {
		case err == nil:
			version = prev.Version + 1
		case errors.Is(err, domain.ErrNotPublished):
		default:
			return fmt.Errorf("failed to load published snapshot: %w", err)
		}

		snapshot := domain.NewSnapshot(candidate, version, m.now().UTC())
		if err := m.store.SavePublished(ctx, snapshot); err != nil {
			return fmt.Errorf("failed to save snapshot: %w", err)
		}
		res = &Result{Snapshot: snapshot, Report: report}
		return nil
	})

	m.metrics.ObservePublish(outcome(err, ErrValidationFailed), m.now().Sub(start))
	switch {
	case err == nil:
		m.logger.Info("intake published",
			"intake_id", intakeID,
			"version", res.Snapshot.Version,
			"warnings", len(res.Report.Warnings),
		)
	case errors.Is(err, ErrValidationFailed):
		m.logger.Info("publish rejected", "intake_id", intakeID, "err", err)
	default:
		m.logger.Error("publish failed", "intake_id", intakeID, "err", err)
	}
	return res, err
}

// ApplyProposal checks a routing proposal against the redacted summary of
// the current draft, merges it and saves the result as the new draft when
// the merged graph has no integrity errors. The returned report is the full
// flow validation of the merged graph. Policy errors in it do not block the
// save; Publish refuses the draft later.
func (m *Manager) ApplyProposal(ctx context.Context, intakeID string, p proposal.Proposal) (*ProposalResult, error) {
	var res *ProposalResult
	err := m.WithLock(ctx, intakeID, func(ctx context.Context) error {
		draft, err := m.store.LoadDraft(ctx, intakeID)
		if err != nil {
			return fmt.Errorf("failed to load draft: %w", err)
		}

		if issues := proposal.Check(proposal.Summarize(draft.Sections), p); len(issues) > 0 {
			return &ProposalRejectedError{IntakeID: intakeID, Issues: issues}
		}

		merged := proposal.Merge(draft.Sections, p)
		if issues := validator.CheckIntegrity(merged); len(issues) > 0 {
			return &ProposalRejectedError{IntakeID: intakeID, Issues: issues}
		}

		next := draft.Clone()
		next.Sections = merged
		next.UpdatedAt = m.now().UTC()
		if err := m.store.SaveDraft(ctx, next); err != nil {
			return fmt.Errorf("failed to save draft: %w", err)
		}
		res = &ProposalResult{Draft: next, Report: validator.Validate(merged, m.validatorOptions()...)}
		return nil
	})

	switch {
	case err == nil:
		m.logger.Info("routing proposal applied", "intake_id", intakeID, "sections", len(p))
	case errors.Is(err, ErrProposalRejected):
		m.logger.Info("routing proposal rejected", "intake_id", intakeID, "err", err)
	default:
		m.logger.Error("routing proposal failed", "intake_id", intakeID, "err", err)
	}
	return res, err
}

func (m *Manager) validatorOptions() []validator.Option {
	if m.strict {
		return []validator.Option{validator.WithStrictReachability()}
	}
	return nil
}

func (m *Manager) observeReport(r validator.Report) {
	for _, issue := range r.Errors {
		m.metrics.ObserveIssue(issue.Code, string(issue.Severity))
	}
	for _, issue := range r.Warnings {
		m.metrics.ObserveIssue(issue.Code, string(issue.Severity))
	}
}

func outcome(err, rejected error) string {
	switch {
	case err == nil:
		return observability.OutcomeSuccess
	case errors.Is(err, rejected):
		return observability.OutcomeRejected
	default:
		return observability.OutcomeError
	}
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller MUST Lock the entry.mu, and then call release(intakeID) after unlocking.
func (m *Manager) acquire(intakeID string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[intakeID]
	if !exists {
		entry = &lockEntry{}
		m.locks[intakeID] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry if it reaches zero.
func (m *Manager) release(intakeID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[intakeID]
	if !exists {
		return
	}

	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, intakeID)
	}
}

// WithLock executes fn while holding the lock for the intake.
func (m *Manager) WithLock(ctx context.Context, intakeID string, fn func(context.Context) error) error {
	entry := m.acquire(intakeID)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(intakeID)
	}()

	if m.locker != nil {
		unlock, err := m.locker.Lock(ctx, intakeID, m.lockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			if err := unlock(context.WithoutCancel(ctx)); err != nil {
				m.logger.Warn("Failed to release distributed lock (will expire via TTL)",
					"intake_id", intakeID,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}
