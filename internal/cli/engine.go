package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aretw0/intake"
	"github.com/aretw0/intake/internal/config"
	genaiadapter "github.com/aretw0/intake/pkg/adapters/genai"
	"github.com/aretw0/intake/pkg/observability"
	"github.com/aretw0/intake/pkg/ports"
)

// NewEngine builds an engine over backend with the settings of cfg.
// The proposal generator is only configured when an API key is set.
func NewEngine(ctx context.Context, cfg config.Config, backend *Backend, logger *slog.Logger, metrics *observability.Metrics) (*intake.Engine, error) {
	opts := []intake.Option{
		intake.WithLogger(logger),
		intake.WithMetrics(metrics),
		intake.WithStrictReachability(cfg.StrictReachability),
	}
	if backend.Locker != nil {
		opts = append(opts, intake.WithLocker(backend.Locker))
	}

	if cfg.GenAI.APIKey != "" {
		genOpts := []genaiadapter.Option{genaiadapter.WithLogger(logger)}
		if cfg.GenAI.Model != "" {
			genOpts = append(genOpts, genaiadapter.WithModel(cfg.GenAI.Model))
		}
		gen, err := genaiadapter.New(ctx, cfg.GenAI.APIKey, genOpts...)
		if err != nil {
			return nil, fmt.Errorf("error initializing generator: %w", err)
		}
		opts = append(opts, intake.WithGenerator(gen))
	}

	return intake.New(backend.Store, opts...), nil
}

// Seed saves every draft of loader through engine, replacing stored drafts
// with the same id. Published snapshots are left alone. It returns the ids
// seeded, in loader order.
func Seed(ctx context.Context, loader ports.DraftLoader, engine *intake.Engine) ([]string, error) {
	drafts, err := loader.LoadDrafts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load drafts: %w", err)
	}

	ids := make([]string, 0, len(drafts))
	for _, d := range drafts {
		if err := engine.SaveDraft(ctx, d); err != nil {
			return ids, fmt.Errorf("failed to seed %s: %w", d.IntakeID, err)
		}
		ids = append(ids, d.IntakeID)
	}
	return ids, nil
}
