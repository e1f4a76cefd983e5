package loam

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mitchellh/mapstructure"

	"github.com/aretw0/intake/pkg/domain"
)

// IntakeDocument is the top level of an intake file (YAML, JSON or Markdown
// frontmatter). Metadata and sections are kept raw here and decoded with the
// domain's json tags, so the file keys match the API payloads.
type IntakeDocument struct {
	IntakeID string         `json:"intakeId" mapstructure:"intakeId"`
	Metadata map[string]any `json:"metadata" mapstructure:"metadata"`
	Sections []any          `json:"sections" mapstructure:"sections"`
}

// toDraft decodes a document into a draft. docID is the repository id of the
// file and names the intake when the document does not.
func toDraft(docID string, doc IntakeDocument) (domain.Draft, error) {
	draft := domain.Draft{IntakeID: doc.IntakeID}
	if draft.IntakeID == "" {
		draft.IntakeID = trimExtension(docID)
	}

	if err := decode(doc.Metadata, &draft.Metadata); err != nil {
		return domain.Draft{}, fmt.Errorf("intake %s: metadata: %w", draft.IntakeID, err)
	}
	if err := decode(doc.Sections, &draft.Sections); err != nil {
		return domain.Draft{}, fmt.Errorf("intake %s: sections: %w", draft.IntakeID, err)
	}
	if draft.Metadata.Mode == "" {
		draft.Metadata.Mode = domain.ModeGuided
	}
	return draft, nil
}

func decode(input, output any) error {
	if input == nil {
		return nil
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           output,
	})
	if err != nil {
		return err
	}
	return dec.Decode(input)
}

func trimExtension(id string) string {
	ext := filepath.Ext(id)
	if ext != "" {
		return filepath.ToSlash(strings.TrimSuffix(id, ext))
	}
	return filepath.ToSlash(id)
}
