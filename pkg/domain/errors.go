package domain

import "errors"

// ErrIntakeNotFound is returned when no draft exists for an intake id.
var ErrIntakeNotFound = errors.New("intake not found")

// ErrNotPublished is returned when an intake has never been published.
var ErrNotPublished = errors.New("intake not published")

// ErrSectionNotFound is returned when a section id is not part of a graph.
var ErrSectionNotFound = errors.New("section not found")

// ErrEmptyDraft is returned when a draft has no sections and cannot be validated.
var ErrEmptyDraft = errors.New("draft has no sections")
