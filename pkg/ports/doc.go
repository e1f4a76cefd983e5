/*
Package ports defines the driven ports (interfaces) of the intake engine.

These interfaces decouple publishing and submission handling from the storage
backends, so the same flow runs on memory, Redis or MongoDB.

# Key Interfaces

  - IntakeStore: persists drafts and the published snapshot of each intake.
  - SubmissionStore: persists sanitized submissions.
  - DistributedLocker: serializes publishes of one intake across replicas.
  - DraftLoader: reads authored drafts from a read-only source (e.g. a directory).
*/
package ports
