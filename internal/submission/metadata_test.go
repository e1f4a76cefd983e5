package submission

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aretw0/intake/pkg/domain"
)

func TestSanitizeMetadata(t *testing.T) {
	tests := []struct {
		name string
		raw  map[string]any
		want domain.SubmissionMetadata
	}{
		{
			name: "keeps known fields",
			raw:  map[string]any{"visitedSectionIds": []any{"A", "C"}, "submittedAt": "2025-03-01T12:00:00Z"},
			want: domain.SubmissionMetadata{VisitedSectionIDs: []string{"A", "C"}, SubmittedAt: "2025-03-01T12:00:00Z"},
		},
		{
			name: "drops everything else",
			raw:  map[string]any{"userAgent": "curl", "ip": "10.0.0.1", "submittedAt": "now"},
			want: domain.SubmissionMetadata{SubmittedAt: "now"},
		},
		{
			name: "accepts typed string lists",
			raw:  map[string]any{"visitedSectionIds": []string{"A"}},
			want: domain.SubmissionMetadata{VisitedSectionIDs: []string{"A"}},
		},
		{
			name: "skips non-string and oversized ids",
			raw:  map[string]any{"visitedSectionIds": []any{"A", 7, "", strings.Repeat("x", MaxSectionIDLength+1), " B "}},
			want: domain.SubmissionMetadata{VisitedSectionIDs: []string{"A", "B"}},
		},
		{
			name: "caps the timestamp",
			raw:  map[string]any{"submittedAt": strings.Repeat("9", 100)},
			want: domain.SubmissionMetadata{SubmittedAt: strings.Repeat("9", MaxSubmittedAtLength)},
		},
		{
			name: "malformed fields stay unset",
			raw:  map[string]any{"visitedSectionIds": "A", "submittedAt": 12},
			want: domain.SubmissionMetadata{},
		},
		{
			name: "number is not a visited list",
			raw:  map[string]any{"visitedSectionIds": 42},
			want: domain.SubmissionMetadata{},
		},
		{
			name: "empty list is kept",
			raw:  map[string]any{"visitedSectionIds": []any{}},
			want: domain.SubmissionMetadata{VisitedSectionIDs: []string{}},
		},
		{
			name: "list of unusable ids is kept empty",
			raw:  map[string]any{"visitedSectionIds": []any{7, ""}},
			want: domain.SubmissionMetadata{VisitedSectionIDs: []string{}},
		},
		{
			name: "nil",
			raw:  nil,
			want: domain.SubmissionMetadata{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeMetadata(tt.raw))
		})
	}
}

func TestSanitizeMetadata_CapsVisitedList(t *testing.T) {
	ids := make([]any, MaxVisitedSections+50)
	for i := range ids {
		ids[i] = "s"
	}

	meta := SanitizeMetadata(map[string]any{"visitedSectionIds": ids})
	assert.Len(t, meta.VisitedSectionIDs, MaxVisitedSections)
}
