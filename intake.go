package intake

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/intake/internal/logging"
	"github.com/aretw0/intake/internal/submission"
	"github.com/aretw0/intake/internal/validator"
	"github.com/aretw0/intake/pkg/domain"
	"github.com/aretw0/intake/pkg/observability"
	"github.com/aretw0/intake/pkg/ports"
	"github.com/aretw0/intake/pkg/proposal"
	"github.com/aretw0/intake/pkg/publish"
	"github.com/aretw0/intake/pkg/routing"
)

// ErrNoGenerator is returned by GenerateProposal when no generator is configured.
var ErrNoGenerator = errors.New("no routing proposal generator configured")

// Engine is the high-level entry point of the library.
// It wires the publish manager, the routing resolver and the submission
// validator over one store, and is what the HTTP and MCP adapters serve.
type Engine struct {
	store     ports.Store
	publisher *publish.Manager
	generator proposal.Generator
	metrics   *observability.Metrics
	logger    *slog.Logger
	now       func() time.Time

	publishOpts []publish.Option
	batchLimit  int
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithMetrics records engine activity on the given collectors.
func WithMetrics(metrics *observability.Metrics) Option {
	return func(e *Engine) {
		e.metrics = metrics
	}
}

// WithLocker coordinates publishing across replicas.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(e *Engine) {
		e.publishOpts = append(e.publishOpts, publish.WithLocker(locker))
	}
}

// WithStrictReachability makes unreachable sections block publishing.
func WithStrictReachability(strict bool) Option {
	return func(e *Engine) {
		e.publishOpts = append(e.publishOpts, publish.WithStrictReachability(strict))
	}
}

// WithGenerator enables GenerateProposal.
func WithGenerator(g proposal.Generator) Option {
	return func(e *Engine) {
		e.generator = g
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// WithBatchLimit bounds concurrent validations in Recheck.
func WithBatchLimit(n int) Option {
	return func(e *Engine) {
		e.batchLimit = n
	}
}

// New creates an Engine over store.
func New(store ports.Store, opts ...Option) *Engine {
	e := &Engine{
		store:      store,
		logger:     logging.NewNop(),
		now:        time.Now,
		batchLimit: submission.DefaultBatchLimit,
	}
	for _, opt := range opts {
		opt(e)
	}

	base := []publish.Option{
		publish.WithLogger(e.logger),
		publish.WithMetrics(e.metrics),
		publish.WithClock(e.now),
	}
	e.publisher = publish.NewManager(store, append(base, e.publishOpts...)...)
	return e
}

// Publisher exposes the publish manager.
func (e *Engine) Publisher() *publish.Manager {
	return e.publisher
}

// Store exposes the underlying store.
func (e *Engine) Store() ports.Store {
	return e.store
}

// SaveDraft replaces the draft of an intake.
func (e *Engine) SaveDraft(ctx context.Context, draft domain.Draft) error {
	return e.publisher.SaveDraft(ctx, draft)
}

// Draft returns the draft of an intake.
func (e *Engine) Draft(ctx context.Context, intakeID string) (domain.Draft, error) {
	return e.publisher.Draft(ctx, intakeID)
}

// Validate checks the draft of an intake without publishing it.
func (e *Engine) Validate(ctx context.Context, intakeID string) (validator.Report, error) {
	return e.publisher.Validate(ctx, intakeID)
}

// Publish freezes a valid draft into the next snapshot.
func (e *Engine) Publish(ctx context.Context, intakeID string) (*publish.Result, error) {
	return e.publisher.Publish(ctx, intakeID)
}

// Published returns the snapshot respondents are served.
func (e *Engine) Published(ctx context.Context, intakeID string) (domain.Snapshot, error) {
	return e.publisher.Published(ctx, intakeID)
}

// Step is the outcome of Next.
type Step struct {
	NextSectionID string `json:"nextSectionId,omitempty"`
	// Terminal means the respondent proceeds to the completion screen.
	Terminal bool `json:"terminal"`
}

// Next resolves the section that follows from in the published graph.
func (e *Engine) Next(ctx context.Context, intakeID, from string, answers domain.Answers) (Step, error) {
	snap, err := e.publisher.Published(ctx, intakeID)
	if err != nil {
		return Step{}, err
	}
	next, ok, err := routing.Step(snap.Sections, from, answers)
	if err != nil {
		return Step{}, err
	}
	e.metrics.ObserveResolve(!ok)
	return Step{NextSectionID: next, Terminal: !ok}, nil
}

// Path returns the sections a respondent with these answers visits in the
// published graph, in order.
func (e *Engine) Path(ctx context.Context, intakeID string, answers domain.Answers) ([]string, error) {
	snap, err := e.publisher.Published(ctx, intakeID)
	if err != nil {
		return nil, err
	}
	return routing.Walk(snap.Sections, answers), nil
}

// SubmitResult is the outcome of Submit. Submission is only set when the
// answers were valid and persisted.
type SubmitResult struct {
	submission.Result
	Submission *domain.Submission `json:"submission,omitempty"`
}

// Submit validates answers against the published snapshot and persists the
// sanitized result when valid. An invalid answer set is not an error: the
// per-block failures are in the result.
//
// meta may carry "visitedSectionIds" and "submittedAt"; any other key is
// dropped. The visited list only narrows validation for guided intakes,
// a document intake always validates every section.
func (e *Engine) Submit(ctx context.Context, intakeID string, answers domain.Answers, meta map[string]any) (*SubmitResult, error) {
	snap, err := e.publisher.Published(ctx, intakeID)
	if err != nil {
		e.metrics.ObserveSubmission(observability.OutcomeError)
		return nil, err
	}

	md := submission.SanitizeMetadata(meta)
	res := &SubmitResult{Result: submission.Validate(snap.Sections, answers, visitedScope(snap, md))}
	if !res.Valid {
		e.metrics.ObserveSubmission(observability.OutcomeRejected)
		e.logger.Debug("submission rejected", "intake_id", intakeID, "errors", len(res.Errors))
		return res, nil
	}

	sub := submission.New(intakeID, snap.Version, res.Result, md, e.now())
	if err := e.store.SaveSubmission(ctx, sub); err != nil {
		e.metrics.ObserveSubmission(observability.OutcomeError)
		return nil, fmt.Errorf("failed to save submission: %w", err)
	}
	e.metrics.ObserveSubmission(observability.OutcomeSuccess)
	e.logger.Info("submission stored",
		"intake_id", intakeID,
		"submission_id", sub.ID,
		"version", sub.SnapshotVersion,
		"dropped", len(res.Dropped),
	)
	res.Submission = &sub
	return res, nil
}

// visitedScope narrows validation to the visited sections only for guided
// intakes whose metadata carried a usable list; anything else validates
// every section.
func visitedScope(snap domain.Snapshot, md domain.SubmissionMetadata) []string {
	if snap.Metadata.Mode == domain.ModeDocument {
		return nil
	}
	return md.VisitedSectionIDs
}

// Recheck re-validates every stored submission of an intake against its
// current snapshot, e.g. after a republish. Results follow storage order.
func (e *Engine) Recheck(ctx context.Context, intakeID string) ([]submission.Result, error) {
	snap, err := e.publisher.Published(ctx, intakeID)
	if err != nil {
		return nil, err
	}
	subs, err := e.store.ListSubmissions(ctx, intakeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}

	inputs := make([]submission.Input, len(subs))
	for i, sub := range subs {
		inputs[i] = submission.Input{Answers: sub.Answers}
		if snap.Metadata.Mode != domain.ModeDocument {
			inputs[i].Visited = sub.Metadata.VisitedSectionIDs
		}
	}
	return submission.ValidateBatch(ctx, snap.Sections, inputs, e.batchLimit)
}

// Summary returns the redacted routing summary of the draft, the only view
// of an intake given to proposal generators.
func (e *Engine) Summary(ctx context.Context, intakeID string) (proposal.Summary, error) {
	draft, err := e.publisher.Draft(ctx, intakeID)
	if err != nil {
		return proposal.Summary{}, err
	}
	return proposal.Summarize(draft.Sections), nil
}

// ApplyProposal checks and merges a routing proposal into the draft.
func (e *Engine) ApplyProposal(ctx context.Context, intakeID string, p proposal.Proposal) (*publish.ProposalResult, error) {
	return e.publisher.ApplyProposal(ctx, intakeID, p)
}

// GenerateProposal asks the configured generator for routing and applies it
// through the same checks as ApplyProposal.
func (e *Engine) GenerateProposal(ctx context.Context, intakeID string) (*publish.ProposalResult, error) {
	if e.generator == nil {
		return nil, ErrNoGenerator
	}
	summary, err := e.Summary(ctx, intakeID)
	if err != nil {
		return nil, err
	}
	p, err := e.generator.Propose(ctx, summary)
	if err != nil {
		return nil, fmt.Errorf("failed to generate proposal: %w", err)
	}
	return e.publisher.ApplyProposal(ctx, intakeID, p)
}
