package validator

import "fmt"

// reachable returns the ids reachable from the entry section by following rule edges.
func reachable(g *graph) map[string]bool {
	entry := g.sections[0].ID
	visited := map[string]bool{entry: true}
	queue := []string{entry}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, next := range g.edges(g.sections[g.index[current]]) {
			if !visited[next] {
				visited[next] = true
				queue = append(queue, next)
			}
		}
	}
	return visited
}

func checkReachability(c *collector, g *graph, visited map[string]bool, strict bool) {
	severity := SeverityWarning
	if strict {
		severity = SeverityError
	}
	for _, s := range g.sections[1:] {
		if s.ID == "" || visited[s.ID] {
			continue
		}
		c.add(Issue{
			Code:      CodeUnreachableSection,
			Severity:  severity,
			Message:   fmt.Sprintf("section %q cannot be reached from the first section", s.ID),
			SectionID: s.ID,
		})
	}
}
