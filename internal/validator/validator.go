package validator

import (
	"fmt"

	"github.com/aretw0/intake/pkg/domain"
)

type options struct {
	strictReachability bool
}

// Option configures Validate.
type Option func(*options)

// WithStrictReachability reports unreachable sections as errors instead of warnings.
func WithStrictReachability() Option {
	return func(o *options) {
		o.strictReachability = true
	}
}

// Validate checks a complete candidate graph. The entry section is the first one.
//
// It never stops at the first problem and never panics on malformed data:
// everything it finds ends up in the returned Report.
func Validate(sections []domain.Section, opts ...Option) Report {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	c := &collector{}
	if len(sections) == 0 {
		c.add(Issue{Code: CodeEmptyGraph, Severity: SeverityError, Message: "intake has no sections"})
		return c.report()
	}

	g := newGraph(sections)
	checkIntegrity(c, g)

	visited := reachable(g)
	checkReachability(c, g, visited, o.strictReachability)
	checkCycles(c, g, visited)
	checkTerminal(c, g)

	return c.report()
}

// checkTerminal flags a last section that routes somewhere. That is legal but
// usually means the author expected it to end the flow.
func checkTerminal(c *collector, g *graph) {
	last := g.sections[len(g.sections)-1]
	if last.IsTerminal() {
		return
	}
	c.add(Issue{
		Code:      CodeTerminalHasRules,
		Severity:  SeverityInfo,
		Message:   fmt.Sprintf("last section %q has routing rules; confirm it should not end the intake", last.ID),
		SectionID: last.ID,
	})
}
