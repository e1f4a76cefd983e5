package domain

// Operator is the kind of a routing rule.
type Operator string

const (
	// OpEquals routes when the answer of FromBlockID equals Value.
	OpEquals Operator = "equals"
	// OpAny is the section fallback, taken when no equals rule matched.
	OpAny Operator = "any"
)

// Rule is a directed edge from its owning section to NextSectionID.
type Rule struct {
	ID            string   `json:"id" yaml:"id" bson:"id"`
	Operator      Operator `json:"operator" yaml:"operator" bson:"operator"`
	FromBlockID   string   `json:"fromBlockId,omitempty" yaml:"fromBlockId,omitempty" bson:"fromBlockId,omitempty"`
	Value         string   `json:"value,omitempty" yaml:"value,omitempty" bson:"value,omitempty"`
	NextSectionID string   `json:"nextSectionId" yaml:"nextSectionId" bson:"nextSectionId"`
}

// Section is a navigable unit of the form.
// Block order is display order; rule order is authoring order only, evaluation
// priority is decided by operator (see package routing).
type Section struct {
	ID          string  `json:"id" yaml:"id" bson:"id"`
	Title       string  `json:"title" yaml:"title" bson:"title"`
	Description string  `json:"description,omitempty" yaml:"description,omitempty" bson:"description,omitempty"`
	Blocks      []Block `json:"blocks" yaml:"blocks" bson:"blocks"`
	Rules       []Rule  `json:"rules" yaml:"rules" bson:"rules"`
}

// Block looks up a block of this section by id.
func (s Section) Block(id string) (Block, bool) {
	for _, b := range s.Blocks {
		if b.ID == id {
			return b, true
		}
	}
	return Block{}, false
}

// IsTerminal reports whether the section has no outgoing rules.
func (s Section) IsTerminal() bool {
	return len(s.Rules) == 0
}

// Clone returns a deep copy of the section.
func (s Section) Clone() Section {
	out := s
	if s.Blocks != nil {
		out.Blocks = make([]Block, len(s.Blocks))
		for i, b := range s.Blocks {
			out.Blocks[i] = b.Clone()
		}
	}
	if s.Rules != nil {
		out.Rules = make([]Rule, len(s.Rules))
		copy(out.Rules, s.Rules)
	}
	return out
}

// CloneSections deep copies an ordered section list.
func CloneSections(sections []Section) []Section {
	if sections == nil {
		return nil
	}
	out := make([]Section, len(sections))
	for i, s := range sections {
		out[i] = s.Clone()
	}
	return out
}

// FindSection returns the section with the given id.
func FindSection(sections []Section, id string) (Section, bool) {
	for _, s := range sections {
		if s.ID == id {
			return s, true
		}
	}
	return Section{}, false
}

// Answers maps block ids to raw respondent values.
type Answers map[string]any
