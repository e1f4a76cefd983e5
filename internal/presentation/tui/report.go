package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/intake/internal/validator"
)

// ReportMarkdown describes a validation report as markdown, one table per
// severity group.
func ReportMarkdown(title string, r validator.Report) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", title)

	if r.IsValid {
		sb.WriteString("**Valid**")
	} else {
		sb.WriteString("**Invalid**")
	}
	fmt.Fprintf(&sb, ": %s, %s\n", plural(len(r.Errors), "error"), plural(len(r.Warnings), "warning"))

	writeIssues(&sb, "Errors", r.Errors)
	writeIssues(&sb, "Warnings", r.Warnings)
	return sb.String()
}

func writeIssues(sb *strings.Builder, heading string, issues []validator.Issue) {
	if len(issues) == 0 {
		return
	}
	fmt.Fprintf(sb, "\n## %s\n\n", heading)
	sb.WriteString("| Code | Section | Rule | Message |\n")
	sb.WriteString("|------|---------|------|---------|\n")
	for _, i := range issues {
		fmt.Fprintf(sb, "| `%s` | %s | %s | %s |\n",
			i.Code, cell(i.SectionID), cell(i.RuleID), cell(i.Message))
	}
}

func cell(s string) string {
	if s == "" {
		return "-"
	}
	s = strings.ReplaceAll(s, "|", "\\|")
	return strings.ReplaceAll(s, "\n", " ")
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
