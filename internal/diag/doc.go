// Package diag defines the diagnostic model shared by the checker, the
// drivers and the output formatters.
//
// # Purpose
//
//   - Provide deterministic data structures that capture findings produced by
//     the identifier checks.
//   - Offer light-weight utilities (Reporter, Bag, DedupReporter) that let
//     producers emit diagnostics without coupling to storage or formatting.
//
// # Scope
//
// Package diag does not perform any formatting beyond the one-line short form,
// IO, or CLI integration. Rendering lives in internal/diagfmt; collection per
// package lives in internal/driver and internal/analyzer.
//
// # Data model
//
// Diagnostic is the central record. It contains:
//
//   - Severity – tri-level enum (Info, Warning, Error) defined in severity.go.
//   - Code – compact numeric identifier (see codes.go) with stable string form
//     (PLG, CMD, PRM and IO families).
//   - Message – human oriented text; keep it short and actionable.
//   - Primary span – the source.Span of the offending argument.
//   - Notes – optional secondary spans, e.g. the tagged parameter declaration.
//
// # Emitting diagnostics
//
// Checks report through a diag.Reporter. BagReporter collects into a Bag,
// which supports sorting, deduplication and filtering; DedupReporter drops
// repeated reports of the same finding, which happens when several candidate
// resolutions of one call bind the same argument.
package diag
