package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/intake/pkg/domain"
)

// GraphOverlay contains a respondent path to highlight on the graph.
type GraphOverlay struct {
	VisitedSections []string
	CurrentSection  string
}

// GenerateMermaid produces a Mermaid flowchart of the section graph.
// Shapes:
// - Entry (first section): ((Circle))
// - Terminal (no rules): ([Stadium])
// - Default: [Rectangle]
// Edges are listed in evaluation order: equals rules (labelled with their
// condition), then the fallback. Rules with an unknown operator are dotted.
func GenerateMermaid(sections []domain.Section, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	for i, s := range sections {
		safeID := sanitizeMermaidID(s.ID)

		opener, closer := "[", "]"
		switch {
		case i == 0:
			opener, closer = "((", "))"
		case s.IsTerminal():
			opener, closer = "([", "])"
		}

		label := escapeLabel(s.ID)
		if s.Title != "" {
			label = fmt.Sprintf("%s <br/> %s", label, escapeLabel(s.Title))
		}
		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", safeID, opener, label, closer))

		for _, r := range evaluationOrder(s.Rules) {
			safeTo := sanitizeMermaidID(r.NextSectionID)

			var arrow string
			switch r.Operator {
			case domain.OpEquals:
				arrow = fmt.Sprintf("-- \"%s = %s\" -->", escapeLabel(r.FromBlockID), escapeLabel(r.Value))
			case domain.OpAny:
				arrow = "-->"
			default:
				arrow = fmt.Sprintf("-. \"%s?\" .->", escapeLabel(string(r.Operator)))
			}
			sb.WriteString(fmt.Sprintf("    %s %s %s\n", safeID, arrow, safeTo))
		}
	}

	// Apply Overlay Styles
	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		visitedSet := make(map[string]bool)
		for _, id := range overlay.VisitedSections {
			safeID := sanitizeMermaidID(id)
			if !visitedSet[safeID] && safeID != "" {
				visitedSet[safeID] = true
				sb.WriteString(fmt.Sprintf("    class %s visited;\n", safeID))
			}
		}

		if overlay.CurrentSection != "" {
			sb.WriteString(fmt.Sprintf("    class %s current;\n", sanitizeMermaidID(overlay.CurrentSection)))
		}
	}

	return sb.String()
}

func evaluationOrder(rules []domain.Rule) []domain.Rule {
	out := make([]domain.Rule, 0, len(rules))
	for _, r := range rules {
		if r.Operator == domain.OpEquals {
			out = append(out, r)
		}
	}
	for _, r := range rules {
		if r.Operator != domain.OpEquals {
			out = append(out, r)
		}
	}
	return out
}

func escapeLabel(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return s
}
