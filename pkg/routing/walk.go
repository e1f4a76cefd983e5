package routing

import "github.com/aretw0/intake/pkg/domain"

// Walk follows Resolve from the entry section (the first one) and returns the
// ids of the sections a respondent with these answers visits, in order.
//
// The walk stops at a terminal section, at a target that does not exist, or
// when a section would be visited twice: answers are fixed during a walk, so a
// revisit means the same loop forever.
func Walk(sections []domain.Section, answers domain.Answers) []string {
	if len(sections) == 0 {
		return []string{}
	}

	index := make(map[string]int, len(sections))
	for i, s := range sections {
		if _, dup := index[s.ID]; !dup {
			index[s.ID] = i
		}
	}

	path := []string{sections[0].ID}
	seen := map[string]bool{sections[0].ID: true}
	current := sections[0]

	for {
		next, ok := Resolve(current, answers)
		if !ok {
			return path
		}
		i, exists := index[next]
		if !exists || seen[next] {
			return path
		}
		seen[next] = true
		path = append(path, next)
		current = sections[i]
	}
}

// Step is Resolve addressed by section id within a graph.
// It returns domain.ErrSectionNotFound when from is not part of sections.
func Step(sections []domain.Section, from string, answers domain.Answers) (string, bool, error) {
	s, ok := domain.FindSection(sections, from)
	if !ok {
		return "", false, domain.ErrSectionNotFound
	}
	next, ok := Resolve(s, answers)
	return next, ok, nil
}
