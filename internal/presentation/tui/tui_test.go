package tui_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/intake/internal/presentation/tui"
	"github.com/aretw0/intake/internal/validator"
)

func TestReportMarkdown(t *testing.T) {
	r := validator.Report{
		IsValid: false,
		Errors: []validator.Issue{
			{Code: validator.CodeDanglingSection, Severity: validator.SeverityError, Message: "rule r1 points at | missing", SectionID: "A", RuleID: "r1"},
		},
		Warnings: []validator.Issue{
			{Code: validator.CodeUnreachableSection, Severity: validator.SeverityWarning, Message: "section Z is unreachable", SectionID: "Z"},
			{Code: validator.CodeTerminalHasRules, Severity: validator.SeverityInfo, Message: "note"},
		},
	}

	md := tui.ReportMarkdown("onboarding", r)

	assert.True(t, strings.HasPrefix(md, "# onboarding\n\n**Invalid**: 1 error, 2 warnings\n"))
	assert.Contains(t, md, "## Errors")
	assert.Contains(t, md, "| `dangling_section` | A | r1 | rule r1 points at \\| missing |")
	assert.Contains(t, md, "| `unreachable_section` | Z | - | section Z is unreachable |")
	assert.Contains(t, md, "| `terminal_has_rules` | - | - | note |")
}

func TestReportMarkdown_Valid(t *testing.T) {
	md := tui.ReportMarkdown("ok", validator.Report{IsValid: true})

	assert.Equal(t, "# ok\n\n**Valid**: 0 errors, 0 warnings\n", md)
}

func TestRenderer(t *testing.T) {
	render := tui.NewRenderer()
	out, err := render("# Title\n\nbody text\n")

	require.NoError(t, err)
	assert.Contains(t, out, "body text")
}

func TestStatus(t *testing.T) {
	var buf bytes.Buffer
	tui.Status(&buf, false, "2 errors")

	// A buffer is not a terminal, so no escape codes are written.
	assert.Equal(t, "✘ 2 errors\n", buf.String())
}
