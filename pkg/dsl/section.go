package dsl

import "github.com/aretw0/intake/pkg/domain"

// SectionBuilder provides a fluent API for configuring a section.
type SectionBuilder struct {
	section domain.Section
	builder *Builder
}

// Title sets the section title.
func (s *SectionBuilder) Title(title string) *SectionBuilder {
	s.section.Title = title
	return s
}

// Description sets the section description.
func (s *SectionBuilder) Description(text string) *SectionBuilder {
	s.section.Description = text
	return s
}

// Text appends a context block.
func (s *SectionBuilder) Text(id, content string) *SectionBuilder {
	return s.Block(domain.Block{ID: id, Kind: domain.KindContext, Content: content})
}

// Question appends a question block. Options only apply to select and
// multi_select inputs.
func (s *SectionBuilder) Question(id, label string, inputType domain.InputType, options ...string) *SectionBuilder {
	return s.Block(domain.Block{
		ID:        id,
		Kind:      domain.KindQuestion,
		Label:     label,
		InputType: inputType,
		Options:   options,
	})
}

// Range sets the bounds of the last block (number and slider inputs).
func (s *SectionBuilder) Range(lo, hi float64) *SectionBuilder {
	if b := s.last(); b != nil {
		b.Min, b.Max = &lo, &hi
	}
	return s
}

// Required marks the last block as required.
func (s *SectionBuilder) Required() *SectionBuilder {
	if b := s.last(); b != nil {
		b.Required = true
	}
	return s
}

// Block appends any block.
func (s *SectionBuilder) Block(b domain.Block) *SectionBuilder {
	s.section.Blocks = append(s.section.Blocks, b)
	return s
}

// When adds an equals rule: answering value on blockID routes to target.
func (s *SectionBuilder) When(blockID, value, target string) *SectionBuilder {
	s.section.Rules = append(s.section.Rules, domain.Rule{
		Operator:      domain.OpEquals,
		FromBlockID:   blockID,
		Value:         value,
		NextSectionID: target,
	})
	return s
}

// Go adds the fallback rule to target.
func (s *SectionBuilder) Go(target string) *SectionBuilder {
	s.section.Rules = append(s.section.Rules, domain.Rule{
		Operator:      domain.OpAny,
		NextSectionID: target,
	})
	return s
}

// Rule appends a rule as is.
func (s *SectionBuilder) Rule(r domain.Rule) *SectionBuilder {
	s.section.Rules = append(s.section.Rules, r)
	return s
}

// Terminal removes every rule, ending the flow at this section.
func (s *SectionBuilder) Terminal() *SectionBuilder {
	s.section.Rules = nil
	return s
}

// Section continues with another section of the same draft.
func (s *SectionBuilder) Section(id string) *SectionBuilder {
	return s.builder.Section(id)
}

// Build builds the whole draft.
func (s *SectionBuilder) Build() domain.Draft {
	return s.builder.Build()
}

func (s *SectionBuilder) last() *domain.Block {
	if len(s.section.Blocks) == 0 {
		return nil
	}
	return &s.section.Blocks[len(s.section.Blocks)-1]
}
