package validator

import "github.com/aretw0/intake/pkg/domain"

// graph indexes a section list for the checks.
// The first occurrence of a duplicated id wins, matching routing.Walk.
type graph struct {
	sections []domain.Section
	index    map[string]int

	// blockOwner maps a block id to the index of the first section declaring it.
	blockOwner map[string]int
}

func newGraph(sections []domain.Section) *graph {
	g := &graph{
		sections:   sections,
		index:      make(map[string]int, len(sections)),
		blockOwner: make(map[string]int),
	}
	for i, s := range sections {
		if _, dup := g.index[s.ID]; !dup {
			g.index[s.ID] = i
		}
		for _, b := range s.Blocks {
			if _, dup := g.blockOwner[b.ID]; !dup {
				g.blockOwner[b.ID] = i
			}
		}
	}
	return g
}

func (g *graph) has(id string) bool {
	_, ok := g.index[id]
	return ok
}

// edges returns the distinct targets a section can route to, in rule order.
// Rules the resolver never takes and dangling targets are left out.
func (g *graph) edges(s domain.Section) []string {
	var out []string
	seen := make(map[string]bool)
	for _, r := range s.Rules {
		if !isKnownOperator(r.Operator) || r.NextSectionID == "" || !g.has(r.NextSectionID) || seen[r.NextSectionID] {
			continue
		}
		seen[r.NextSectionID] = true
		out = append(out, r.NextSectionID)
	}
	return out
}

func isKnownOperator(op domain.Operator) bool {
	return op == domain.OpEquals || op == domain.OpAny
}

func hasFallback(s domain.Section) bool {
	for _, r := range s.Rules {
		if r.Operator == domain.OpAny {
			return true
		}
	}
	return false
}
