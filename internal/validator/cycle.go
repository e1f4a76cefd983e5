package validator

import (
	"fmt"
	"strings"
)

// loop is a strongly connected component of the routing graph that can
// actually be walked around: more than one section, or a section routing to itself.
type loop struct {
	members []string // section order
	exits   bool
}

// findLoops runs Tarjan's algorithm over the rule edges.
//
// A loop can be left when some member has an edge to a section outside it,
// or when some member has no fallback, since resolution there can end the
// flow. Otherwise every answer set keeps the respondent inside forever.
func findLoops(g *graph) []loop {
	var (
		counter int
		stack   []string
		indices = make(map[string]int)
		lowlink = make(map[string]int)
		onStack = make(map[string]bool)
		sccs    [][]string
	)

	var strongConnect func(string)
	strongConnect = func(v string) {
		indices[v] = counter
		lowlink[v] = counter
		counter++
		stack = append(stack, v)
		onStack[v] = true

		for _, w := range g.edges(g.sections[g.index[v]]) {
			if _, seen := indices[w]; !seen {
				strongConnect(w)
				lowlink[v] = min(lowlink[v], lowlink[w])
			} else if onStack[w] {
				lowlink[v] = min(lowlink[v], indices[w])
			}
		}

		if lowlink[v] == indices[v] {
			var scc []string
			for {
				w := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[w] = false
				scc = append(scc, w)
				if w == v {
					break
				}
			}
			sccs = append(sccs, scc)
		}
	}

	for _, s := range g.sections {
		if _, seen := indices[s.ID]; !seen && s.ID != "" {
			strongConnect(s.ID)
		}
	}

	var loops []loop
	for _, scc := range sccs {
		if len(scc) == 1 && !g.routesTo(scc[0], scc[0]) {
			continue
		}
		loops = append(loops, g.describeLoop(scc))
	}
	return loops
}

func (g *graph) routesTo(from, to string) bool {
	for _, next := range g.edges(g.sections[g.index[from]]) {
		if next == to {
			return true
		}
	}
	return false
}

func (g *graph) describeLoop(scc []string) loop {
	inside := make(map[string]bool, len(scc))
	for _, id := range scc {
		inside[id] = true
	}

	l := loop{}
	for _, s := range g.sections {
		if !inside[s.ID] || containsID(l.members, s.ID) {
			continue
		}
		l.members = append(l.members, s.ID)

		if !hasFallback(s) {
			l.exits = true
		}
		for _, next := range g.edges(s) {
			if !inside[next] {
				l.exits = true
			}
		}
	}
	return l
}

func containsID(ids []string, id string) bool {
	for _, x := range ids {
		if x == id {
			return true
		}
	}
	return false
}

func checkCycles(c *collector, g *graph, visited map[string]bool) {
	for _, l := range findLoops(g) {
		path := strings.Join(append(append([]string{}, l.members...), l.members[0]), " -> ")
		entered := false
		for _, id := range l.members {
			if visited[id] {
				entered = true
				break
			}
		}

		switch {
		case !l.exits && entered:
			c.add(Issue{
				Code:      CodeTrappedCycle,
				Severity:  SeverityError,
				Message:   fmt.Sprintf("sections %s form a loop with no way out", path),
				SectionID: l.members[0],
			})
		case !l.exits:
			c.add(Issue{
				Code:      CodeTrappedCycle,
				Severity:  SeverityWarning,
				Message:   fmt.Sprintf("sections %s form a loop with no way out (not reachable yet)", path),
				SectionID: l.members[0],
			})
		default:
			c.add(Issue{
				Code:      CodeEscapableCycle,
				Severity:  SeverityWarning,
				Message:   fmt.Sprintf("sections %s form a loop; make sure respondents can leave it", path),
				SectionID: l.members[0],
			})
		}
	}
}
