package schema

import "github.com/aretw0/intake/pkg/domain"

// Derive maps a block onto its value contract.
// It returns nil for presentation kinds, which never appear in a submission.
func Derive(b domain.Block) *Contract {
	if !b.ProducesAnswer() {
		return nil
	}

	c := &Contract{
		BlockID:  b.ID,
		Label:    b.DisplayName(),
		Required: b.Required,
	}

	switch b.Kind {
	case domain.KindQuestion:
		deriveQuestion(b, c)
	case domain.KindImageChoice:
		if b.Multi {
			c.Shape = Slice(String())
		} else {
			c.Shape = String()
		}
	case domain.KindLinkCollection:
		c.Shape = Slice(Link())
	case domain.KindMoodboard:
		c.Shape = Slice(String())
	case domain.KindBucketSort:
		c.Shape = Object(String())
	case domain.KindCallBooking:
		c.Shape = Bool()
		c.coerce = coerceBool
		c.satisfied = isTrue
	default:
		// Forward compatibility: unknown kinds accept anything and are never required.
		c.Shape = Any()
		c.Required = false
	}
	return c
}

func deriveQuestion(b domain.Block, c *Contract) {
	switch b.InputType {
	case "", domain.InputText, domain.InputTextarea, domain.InputPhone:
		c.Shape = String()
	case domain.InputEmail:
		c.Shape = Email()
	case domain.InputURL:
		c.Shape = URL()
	case domain.InputDate:
		c.Shape = Date()
	case domain.InputNumber:
		c.Shape = Number()
		c.coerce = coerceNumber
	case domain.InputSlider:
		c.Shape = NumberBetween(b.Min, b.Max)
		c.coerce = coerceNumber
	case domain.InputSelect:
		c.Shape = String()
	case domain.InputMultiSelect:
		c.Shape = Slice(String())
	default:
		c.Shape = Any()
	}
}

// Set holds the contracts of every answer-producing block of a graph, keyed by block id.
type Set map[string]*Contract

// DeriveAll derives the contracts of every answer-producing block in sections.
func DeriveAll(sections []domain.Section) Set {
	set := make(Set)
	for _, s := range sections {
		for _, b := range s.Blocks {
			if c := Derive(b); c != nil {
				set[b.ID] = c
			}
		}
	}
	return set
}
