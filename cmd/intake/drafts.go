package main

import (
	"context"
	"fmt"

	"github.com/aretw0/intake/pkg/adapters/loam"
	"github.com/aretw0/intake/pkg/domain"
)

// loadDrafts reads the drafts of the configured directory, or only the one
// named id when id is not empty.
func loadDrafts(ctx context.Context, id string) ([]domain.Draft, error) {
	loader, err := loam.Open(cfg.Dir)
	if err != nil {
		return nil, fmt.Errorf("error opening %s: %w", cfg.Dir, err)
	}
	if id != "" {
		d, err := loader.LoadDraft(ctx, id)
		if err != nil {
			return nil, err
		}
		return []domain.Draft{d}, nil
	}
	return loader.LoadDrafts(ctx)
}

func loadDraft(ctx context.Context, id string) (domain.Draft, error) {
	drafts, err := loadDrafts(ctx, id)
	if err != nil {
		return domain.Draft{}, err
	}
	return drafts[0], nil
}
