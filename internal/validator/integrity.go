package validator

import (
	"fmt"
	"strconv"

	"github.com/aretw0/intake/pkg/domain"
)

// CheckIntegrity runs the structural, referential integrity and fallback
// cardinality checks. Every returned issue is an error.
func CheckIntegrity(sections []domain.Section) []Issue {
	c := &collector{}
	if len(sections) == 0 {
		c.add(Issue{Code: CodeEmptyGraph, Severity: SeverityError, Message: "intake has no sections"})
		return c.errors
	}
	checkIntegrity(c, newGraph(sections))
	return c.errors
}

func checkIntegrity(c *collector, g *graph) {
	checkSectionIDs(c, g)
	checkBlockIDs(c, g)
	for _, s := range g.sections {
		checkRules(c, g, s)
	}
}

func checkSectionIDs(c *collector, g *graph) {
	seen := make(map[string]bool, len(g.sections))
	for i, s := range g.sections {
		if s.ID == "" {
			c.add(Issue{
				Code:     CodeEmptySectionID,
				Severity: SeverityError,
				Message:  fmt.Sprintf("section %d has no id", i+1),
			})
			continue
		}
		if seen[s.ID] {
			c.add(Issue{
				Code:      CodeDuplicateSection,
				Severity:  SeverityError,
				Message:   fmt.Sprintf("section id %q is used more than once", s.ID),
				SectionID: s.ID,
			})
		}
		seen[s.ID] = true
	}
}

func checkBlockIDs(c *collector, g *graph) {
	seen := make(map[string]bool)
	for _, s := range g.sections {
		for _, b := range s.Blocks {
			if seen[b.ID] {
				c.add(Issue{
					Code:      CodeDuplicateBlock,
					Severity:  SeverityError,
					Message:   fmt.Sprintf("block id %q is used more than once", b.ID),
					SectionID: s.ID,
				})
			}
			seen[b.ID] = true
		}
	}
}

func checkRules(c *collector, g *graph, s domain.Section) {
	fallbacks := 0
	for _, r := range s.Rules {
		fail := func(code, format string, args ...any) {
			c.add(Issue{
				Code:      code,
				Severity:  SeverityError,
				Message:   fmt.Sprintf("section %q, rule %q: ", s.ID, r.ID) + fmt.Sprintf(format, args...),
				SectionID: s.ID,
				RuleID:    r.ID,
			})
		}

		switch r.Operator {
		case domain.OpAny:
			fallbacks++
		case domain.OpEquals:
			checkCondition(g, s, r, fail)
		default:
			fail(CodeUnknownOperator, "unknown operator %q", r.Operator)
			continue
		}

		switch {
		case r.NextSectionID == "":
			fail(CodeMissingTarget, "no next section")
		case !g.has(r.NextSectionID):
			fail(CodeDanglingSection, "next section %q does not exist", r.NextSectionID)
		}
	}

	if fallbacks > 1 {
		c.add(Issue{
			Code:      CodeDuplicateFallback,
			Severity:  SeverityError,
			Message:   fmt.Sprintf("section %q has %d fallback rules, at most one is allowed", s.ID, fallbacks),
			SectionID: s.ID,
		})
	}
}

// checkCondition validates the fromBlockId and value of an equals rule.
func checkCondition(g *graph, s domain.Section, r domain.Rule, fail func(code, format string, args ...any)) {
	if r.FromBlockID == "" {
		fail(CodeMissingBlockRef, "condition has no block")
		return
	}

	b, ok := s.Block(r.FromBlockID)
	if !ok {
		if owner, elsewhere := g.blockOwner[r.FromBlockID]; elsewhere {
			fail(CodeBlockInOtherSection, "block %q belongs to section %q", r.FromBlockID, g.sections[owner].ID)
		} else {
			fail(CodeDanglingBlock, "block %q does not exist", r.FromBlockID)
		}
		return
	}
	if !b.ProducesAnswer() {
		fail(CodeNonAnswerBlock, "block %q (%s) does not take an answer", b.ID, b.Kind)
		return
	}
	if r.Value == "" {
		fail(CodeMissingValue, "condition on %q has no value", b.DisplayName())
		return
	}
	if reason := illegalValue(b, r.Value); reason != "" {
		fail(CodeIllegalValue, "value %q for %q %s", r.Value, b.DisplayName(), reason)
	}
}

// illegalValue explains why value can never equal an answer of b, or returns "".
func illegalValue(b domain.Block, value string) string {
	switch b.Kind {
	case domain.KindQuestion:
		switch b.InputType {
		case domain.InputSelect, domain.InputMultiSelect:
			if !b.HasOption(value) {
				return "is not one of the declared options"
			}
		case domain.InputNumber, domain.InputSlider:
			f, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return "is not a number"
			}
			if canonical := strconv.FormatFloat(f, 'f', -1, 64); canonical != value {
				return fmt.Sprintf("never matches, write it as %q", canonical)
			}
			if (b.Min != nil && f < *b.Min) || (b.Max != nil && f > *b.Max) {
				return "is out of range"
			}
		}
	case domain.KindImageChoice, domain.KindMoodboard:
		if !b.HasImageOption(value) {
			return "is not one of the declared image ids"
		}
	case domain.KindCallBooking:
		if value != "true" && value != "false" {
			return `must be "true" or "false"`
		}
	case domain.KindBucketSort, domain.KindLinkCollection:
		return "cannot be matched, this block kind does not route"
	}
	return ""
}
