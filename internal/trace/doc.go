// Package trace records what idlint is doing: driver steps, passes, the
// packages being checked and, at debug level, individual declarations.
//
// Enable it from the command line:
//
//	idlint check --trace=- --trace-level=detail ./...
//
// Implementations: Nop (disabled), StreamTracer (writes every event),
// RingTracer (keeps the last N events for a dump on crash) and MultiTracer.
//
// Levels: off, error (ring dump only), phase (driver and passes), detail
// (packages), debug (declarations).
//
// The tracer travels through context:
//
//	ctx = trace.WithTracer(ctx, tr)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopePass, "load", 0)
//	defer span.End("")
package trace
