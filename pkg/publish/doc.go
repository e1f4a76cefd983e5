/*
Package publish owns the draft to snapshot lifecycle of an intake.

The Manager serializes every operation on one intake id, locally through
ref-counted mutexes and across replicas through an optional
ports.DistributedLocker. Publish validates a point-in-time copy of the draft
and replaces the published snapshot in a single store write, so readers never
observe a partial or unvalidated graph.
*/
package publish
