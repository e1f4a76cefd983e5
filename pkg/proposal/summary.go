package proposal

import "github.com/aretw0/intake/pkg/domain"

// BlockSummary is the redacted view of an answer-producing block.
type BlockSummary struct {
	ID        string           `json:"id"`
	Label     string           `json:"label,omitempty"`
	Kind      domain.BlockKind `json:"kind"`
	InputType domain.InputType `json:"inputType,omitempty"`
	// Options is only set for choice blocks.
	Options []string `json:"options,omitempty"`
}

// SectionSummary is the redacted view of a section.
type SectionSummary struct {
	ID     string         `json:"id"`
	Title  string         `json:"title,omitempty"`
	Blocks []BlockSummary `json:"blocks"`
}

// Summary is everything a generator is allowed to see.
type Summary struct {
	Sections []SectionSummary `json:"sections"`
}

// Summarize builds the redacted summary of a graph. Presentation blocks,
// descriptions, media URLs and existing rules are left out.
func Summarize(sections []domain.Section) Summary {
	out := Summary{Sections: make([]SectionSummary, 0, len(sections))}
	for _, s := range sections {
		ss := SectionSummary{ID: s.ID, Title: s.Title, Blocks: []BlockSummary{}}
		for _, b := range s.Blocks {
			if !b.ProducesAnswer() {
				continue
			}
			ss.Blocks = append(ss.Blocks, BlockSummary{
				ID:        b.ID,
				Label:     b.Label,
				Kind:      b.Kind,
				InputType: b.InputType,
				Options:   choices(b),
			})
		}
		out.Sections = append(out.Sections, ss)
	}
	return out
}

func choices(b domain.Block) []string {
	switch {
	case b.Kind == domain.KindQuestion && (b.InputType == domain.InputSelect || b.InputType == domain.InputMultiSelect):
		out := make([]string, len(b.Options))
		copy(out, b.Options)
		return out
	case b.Kind == domain.KindImageChoice:
		out := make([]string, len(b.ImageOptions))
		for i, opt := range b.ImageOptions {
			out[i] = opt.ID
		}
		return out
	default:
		return nil
	}
}

// Section looks up a section summary by id.
func (s Summary) Section(id string) (SectionSummary, bool) {
	for _, ss := range s.Sections {
		if ss.ID == id {
			return ss, true
		}
	}
	return SectionSummary{}, false
}

// Block looks up a block summary by id.
func (s SectionSummary) Block(id string) (BlockSummary, bool) {
	for _, b := range s.Blocks {
		if b.ID == id {
			return b, true
		}
	}
	return BlockSummary{}, false
}

// IsChoice reports whether the block has an enumerable option set.
func (b BlockSummary) IsChoice() bool {
	return b.Options != nil
}
