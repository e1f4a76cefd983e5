/*
Package intake is the flow graph engine of multi-section intake forms.

An intake is an ordered list of sections. Each section holds blocks (content
or questions) and routing rules that decide, from the respondent's answers,
which section comes next. Authors edit a draft; publishing validates the whole
graph and freezes it into an immutable snapshot that respondents are served.

# Concept

The engine is split in four pure pieces sharing one data model (pkg/domain):

  - Block schema deriver (pkg/schema): one value contract per answer block.
  - Routing resolver (pkg/routing): equals rules first, then the single fallback.
  - Flow validator (internal/validator): integrity, reachability, cycle safety
    and fallback cardinality, proven before a draft can be published.
  - Submission validator (internal/submission): validates and sanitizes the
    answers of the sections a respondent actually visited.

Engine wires them over a ports.Store, adding per-intake locking for publish,
Prometheus metrics and machine generated routing proposals.

# Usage

	store := memory.NewStore()
	eng := intake.New(store)

	if err := eng.SaveDraft(ctx, draft); err != nil {
		log.Fatal(err)
	}
	if _, err := eng.Publish(ctx, draft.IntakeID); err != nil {
		// *publish.ValidationFailedError lists every problem found.
		log.Fatal(err)
	}

	step, _ := eng.Next(ctx, draft.IntakeID, "plan", domain.Answers{"tier": "Pro"})
	res, _ := eng.Submit(ctx, draft.IntakeID, answers, map[string]any{
		"visitedSectionIds": []string{"plan", "pro"},
	})

# Interfaces

The same Engine is served over HTTP (pkg/adapters/http), to assistants
through MCP (pkg/adapters/mcp) and from the command line (cmd/intake).
*/
package intake
