package middleware

import (
	"context"
	"fmt"
	"regexp"

	"github.com/aretw0/intake/pkg/domain"
	"github.com/aretw0/intake/pkg/ports"
)

// Mask replaces masked answer values.
const Mask = "***"

type maskingMiddleware struct {
	ports.Store
	patterns []*regexp.Regexp
}

// NewMaskingMiddleware creates a middleware that masks the answers of blocks
// whose id matches one of the patterns before a submission is saved.
// Drafts and snapshots pass through untouched.
func NewMaskingMiddleware(patternStrings []string) (Middleware, error) {
	patterns := make([]*regexp.Regexp, len(patternStrings))
	for i, p := range patternStrings {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid mask pattern %q: %w", p, err)
		}
		patterns[i] = re
	}
	return func(next ports.Store) ports.Store {
		return &maskingMiddleware{Store: next, patterns: patterns}
	}, nil
}

func (m *maskingMiddleware) SaveSubmission(ctx context.Context, sub domain.Submission) error {
	// Clone to avoid side effects on the caller's submission.
	cloned := sub.Clone()
	maskMap(cloned.Answers, m.patterns)
	return m.Store.SaveSubmission(ctx, cloned)
}

func maskMap(m map[string]any, patterns []*regexp.Regexp) {
	for k, v := range m {
		if matchesAny(k, patterns) {
			m[k] = Mask
			continue
		}
		maskNested(v, patterns)
	}
}

// maskNested walks object answers and lists of objects (link collections).
func maskNested(v any, patterns []*regexp.Regexp) {
	switch x := v.(type) {
	case map[string]any:
		maskMap(x, patterns)
	case []any:
		for _, item := range x {
			maskNested(item, patterns)
		}
	}
}

func matchesAny(k string, patterns []*regexp.Regexp) bool {
	for _, p := range patterns {
		if p.MatchString(k) {
			return true
		}
	}
	return false
}
