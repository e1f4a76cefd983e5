package submission

import (
	"reflect"
	"unicode/utf8"

	"github.com/mitchellh/mapstructure"

	"github.com/aretw0/intake/pkg/domain"
	"github.com/aretw0/intake/pkg/schema"
)

const (
	// MaxVisitedSections caps the visited section list stored with a submission.
	MaxVisitedSections = 200
	// MaxSectionIDLength caps each visited section id, in runes. Longer ids are dropped.
	MaxSectionIDLength = 128
	// MaxSubmittedAtLength caps the client supplied timestamp, in runes.
	MaxSubmittedAtLength = 64
)

// SanitizeMetadata keeps the two known metadata fields, bounded, and drops
// everything else the caller sent.
//
// VisitedSectionIDs is nil unless the caller sent a list, so a missing or
// malformed field can be told apart from an explicitly empty one.
func SanitizeMetadata(raw map[string]any) domain.SubmissionMetadata {
	var decoded struct {
		Visited     []any `mapstructure:"visitedSectionIds"`
		SubmittedAt any   `mapstructure:"submittedAt"`
	}
	// Unknown keys are ignored by the decoder; a malformed field stays unset.
	_ = mapstructure.Decode(raw, &decoded)

	meta := domain.SubmissionMetadata{}
	if isList(raw["visitedSectionIds"]) {
		meta.VisitedSectionIDs = []string{}
	}
	for _, item := range decoded.Visited {
		if len(meta.VisitedSectionIDs) == MaxVisitedSections {
			break
		}
		id, ok := item.(string)
		if !ok {
			continue
		}
		id = schema.SanitizeString(id)
		if id == "" || utf8.RuneCountInString(id) > MaxSectionIDLength {
			continue
		}
		meta.VisitedSectionIDs = append(meta.VisitedSectionIDs, id)
	}

	if at, ok := decoded.SubmittedAt.(string); ok {
		at = schema.SanitizeString(at)
		if utf8.RuneCountInString(at) > MaxSubmittedAtLength {
			at = string([]rune(at)[:MaxSubmittedAtLength])
		}
		meta.SubmittedAt = at
	}
	return meta
}

func isList(v any) bool {
	if v == nil {
		return false
	}
	k := reflect.TypeOf(v).Kind()
	return k == reflect.Slice || k == reflect.Array
}
