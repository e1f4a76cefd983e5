// Package validator statically checks a flow graph before it may be published.
//
// Validate accumulates every finding instead of stopping at the first one so
// an author can fix a draft in a single pass. Findings are split into errors,
// which block publishing, and warnings, which are advisory.
package validator
