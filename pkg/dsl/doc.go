/*
Package dsl provides a fluent Go builder for intake drafts.

It is an alternative to authoring JSON, YAML or Markdown files when drafts are
generated by code or written inline in tests.

Example usage:

	draft := dsl.New("onboarding").
		Title("Onboarding").
		Section("plan").
		Title("Choose a plan").
		Question("tier", "Tier", domain.InputSelect, "Free", "Pro").Required().
		When("tier", "Pro", "billing").
		Go("done").
		Section("billing").
		Question("card", "Card holder", domain.InputText).
		Go("done").
		Section("done").
		Build()

Sections keep the order of their first mention, so the first section is the
entry. Rules without an id are numbered per section ("plan-r1", "plan-r2").
*/
package dsl
