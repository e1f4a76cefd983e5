/*
Package domain contains the core data model of the intake flow graph.

It defines the entities shared by the schema deriver, the routing resolver,
the flow validator and the submission validator. This package is kept pure and
free of external dependencies like I/O or persistence.

# Key Entities

  - Block: one content or question unit inside a section, discriminated by Kind.
  - Section: a navigable unit (page/step) holding ordered blocks and routing rules.
  - Rule: a directed, optionally conditional edge from a section to another section.
  - Draft: the live, mutable authoring state of an intake.
  - Snapshot: the immutable, validated copy of a draft served to respondents.
  - Submission: a sanitized answer set persisted against a snapshot version.
*/
package domain
