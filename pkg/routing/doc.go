// Package routing decides which section a respondent sees next.
//
// Resolution is a two-phase evaluation over a section's rules. The
// conditional phase runs every equals rule in list order and the first match
// wins. Only when no equals rule matched does the fallback phase take the
// section's any rule. A section with no matching rule is terminal and leads to
// the completion screen.
//
// Everything here is a pure function of its arguments and safe for
// concurrent use.
package routing
