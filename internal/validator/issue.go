package validator

// Severity grades an Issue.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Issue codes. Each check reports under exactly one code.
const (
	// Structural
	CodeEmptyGraph       = "empty_graph"
	CodeEmptySectionID   = "empty_section_id"
	CodeDuplicateSection = "duplicate_section"
	CodeDuplicateBlock   = "duplicate_block"
	CodeUnknownOperator  = "unknown_operator"
	CodeMissingTarget    = "missing_target"

	// Referential integrity
	CodeDanglingSection     = "dangling_section"
	CodeMissingBlockRef     = "missing_block_ref"
	CodeDanglingBlock       = "dangling_block"
	CodeBlockInOtherSection = "block_in_other_section"
	CodeNonAnswerBlock      = "non_answer_block"
	CodeMissingValue        = "missing_value"
	CodeIllegalValue        = "illegal_value"

	// Policy
	CodeDuplicateFallback = "duplicate_fallback"
	CodeTrappedCycle      = "trapped_cycle"

	// Advisory
	CodeUnreachableSection = "unreachable_section"
	CodeEscapableCycle     = "escapable_cycle"
	CodeTerminalHasRules   = "terminal_has_rules"
)

// Issue is a single finding about a graph.
type Issue struct {
	Code      string   `json:"code"`
	Severity  Severity `json:"severity"`
	Message   string   `json:"message"`
	SectionID string   `json:"sectionId,omitempty"`
	RuleID    string   `json:"ruleId,omitempty"`
}

func (i Issue) Error() string { return i.Message }

// Report is the outcome of Validate.
type Report struct {
	IsValid  bool    `json:"isValid"`
	Errors   []Issue `json:"errors"`
	Warnings []Issue `json:"warnings"`
}

// Messages returns the error messages of the report, in order.
func (r Report) Messages() []string {
	out := make([]string, len(r.Errors))
	for i, issue := range r.Errors {
		out[i] = issue.Message
	}
	return out
}

// Codes returns the codes of every error and warning, errors first.
func (r Report) Codes() []string {
	out := make([]string, 0, len(r.Errors)+len(r.Warnings))
	for _, issue := range r.Errors {
		out = append(out, issue.Code)
	}
	for _, issue := range r.Warnings {
		out = append(out, issue.Code)
	}
	return out
}

type collector struct {
	errors   []Issue
	warnings []Issue
}

func (c *collector) add(issue Issue) {
	if issue.Severity == SeverityError {
		c.errors = append(c.errors, issue)
		return
	}
	c.warnings = append(c.warnings, issue)
}

func (c *collector) report() Report {
	r := Report{
		IsValid:  len(c.errors) == 0,
		Errors:   c.errors,
		Warnings: c.warnings,
	}
	if r.Errors == nil {
		r.Errors = []Issue{}
	}
	if r.Warnings == nil {
		r.Warnings = []Issue{}
	}
	return r
}
