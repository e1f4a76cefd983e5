package proposal

import (
	"fmt"

	"github.com/aretw0/intake/pkg/domain"
)

// Merge returns a copy of sections where every proposed section has its rules
// replaced by the proposal. Sections absent from p keep their rules. Rules
// without an id get one derived from the section id and position.
func Merge(sections []domain.Section, p Proposal) []domain.Section {
	out := domain.CloneSections(sections)
	for i := range out {
		rules, ok := p[out[i].ID]
		if !ok {
			continue
		}
		merged := make([]domain.Rule, len(rules))
		for j, r := range rules {
			if r.ID == "" {
				r.ID = fmt.Sprintf("%s-rule-%d", out[i].ID, j+1)
			}
			merged[j] = r
		}
		out[i].Rules = merged
	}
	return out
}
