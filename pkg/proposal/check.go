package proposal

import (
	"fmt"

	"github.com/aretw0/intake/internal/validator"
	"github.com/aretw0/intake/pkg/domain"
)

// Proposal issue codes.
const (
	CodeUnknownSection  = "proposal_unknown_section"
	CodeUnknownTarget   = "proposal_unknown_target"
	CodeUnknownBlock    = "proposal_unknown_block"
	CodeUnknownOption   = "proposal_unknown_option"
	CodeUnknownOperator = "proposal_unknown_operator"
)

// Check verifies that every id and option value used by p appears in the
// summary the generator was given. Nothing is coerced: the first unknown
// reference of each rule is reported and the rule stays as it was.
func Check(summary Summary, p Proposal) []validator.Issue {
	var issues []validator.Issue
	fail := func(code, sectionID, ruleID, format string, args ...any) {
		issues = append(issues, validator.Issue{
			Code:      code,
			Severity:  validator.SeverityError,
			Message:   fmt.Sprintf(format, args...),
			SectionID: sectionID,
			RuleID:    ruleID,
		})
	}

	for _, sectionID := range p.SectionIDs() {
		section, ok := summary.Section(sectionID)
		if !ok {
			fail(CodeUnknownSection, sectionID, "", "proposal routes unknown section %q", sectionID)
			continue
		}
		for i, r := range p[sectionID] {
			ruleID := r.ID
			if ruleID == "" {
				ruleID = fmt.Sprintf("#%d", i+1)
			}
			if _, ok := summary.Section(r.NextSectionID); !ok {
				fail(CodeUnknownTarget, sectionID, r.ID, "section %q, rule %s: unknown target section %q", sectionID, ruleID, r.NextSectionID)
				continue
			}
			switch r.Operator {
			case domain.OpAny:
			case domain.OpEquals:
				block, ok := section.Block(r.FromBlockID)
				if !ok {
					fail(CodeUnknownBlock, sectionID, r.ID, "section %q, rule %s: unknown block %q", sectionID, ruleID, r.FromBlockID)
					continue
				}
				if block.IsChoice() && !contains(block.Options, r.Value) {
					fail(CodeUnknownOption, sectionID, r.ID, "section %q, rule %s: %q is not an option of block %q", sectionID, ruleID, r.Value, r.FromBlockID)
				}
			default:
				fail(CodeUnknownOperator, sectionID, r.ID, "section %q, rule %s: unknown operator %q", sectionID, ruleID, r.Operator)
			}
		}
	}
	return issues
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
