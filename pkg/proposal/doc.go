/*
Package proposal handles machine generated routing.

A Generator receives a redacted Summary of the graph and returns a Proposal:
one rule list per section id. Proposals are untrusted. Check rejects any id or
option value absent from the summary, and Merge produces a new graph value
that still has to pass the flow validator before it replaces a draft.
*/
package proposal
