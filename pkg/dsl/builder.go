package dsl

import (
	"fmt"

	"github.com/aretw0/intake/pkg/adapters/memory"
	"github.com/aretw0/intake/pkg/domain"
)

// Builder manages the draft construction.
type Builder struct {
	draft    domain.Draft
	sections []*SectionBuilder
	index    map[string]*SectionBuilder
}

// New creates a new draft builder. The draft starts in guided mode.
func New(intakeID string) *Builder {
	return &Builder{
		draft: domain.Draft{
			IntakeID: intakeID,
			Metadata: domain.Metadata{Mode: domain.ModeGuided},
		},
		index: make(map[string]*SectionBuilder),
	}
}

// Title sets the intake title.
func (b *Builder) Title(title string) *Builder {
	b.draft.Metadata.Title = title
	return b
}

// Mode sets the presentation mode.
func (b *Builder) Mode(mode domain.Mode) *Builder {
	b.draft.Metadata.Mode = mode
	return b
}

// Section adds a section to the draft.
// If the section already exists, it returns the existing builder.
func (b *Builder) Section(id string) *SectionBuilder {
	if sb, ok := b.index[id]; ok {
		return sb
	}
	sb := &SectionBuilder{
		section: domain.Section{ID: id},
		builder: b,
	}
	b.index[id] = sb
	b.sections = append(b.sections, sb)
	return sb
}

// Build returns a copy of the draft. The builder can keep being used.
func (b *Builder) Build() domain.Draft {
	out := b.draft.Clone()
	out.Sections = make([]domain.Section, len(b.sections))
	for i, sb := range b.sections {
		s := sb.section.Clone()
		for j := range s.Rules {
			if s.Rules[j].ID == "" {
				s.Rules[j].ID = fmt.Sprintf("%s-r%d", s.ID, j+1)
			}
		}
		out.Sections[i] = s
	}
	return out
}

// Loader compiles the draft into a memory loader.
func (b *Builder) Loader() *memory.Loader {
	return memory.NewLoader(b.Build())
}
