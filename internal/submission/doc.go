// Package submission validates and sanitizes a respondent's answer set
// against a published graph before it is persisted.
package submission
