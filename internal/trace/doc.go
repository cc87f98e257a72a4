// Package trace records what the analyzer did and how long it took.
//
// A run opens one driver span, one span per input file and one span per
// analysis phase (tokenize, index, spines, links, tracks, nonnull).
// Detail level adds points for individual lines, debug adds everything.
//
// Tracers:
//
//   - Nop: tracing off, no cost.
//   - StreamTracer: writes text, NDJSON or Chrome trace JSON as events arrive.
//   - RingTracer: keeps the last N events; hum dumps it when a run fails.
//   - MultiTracer: both at once.
//
// Enable from the command line:
//
//	hum check --trace=run.json --trace-level=phase scores/*.krn
//
// The tracer travels through context:
//
//	ctx = trace.WithTracer(ctx, tr)
//	ctx, span := trace.Start(ctx, trace.ScopePhase, "phase:spines")
//	defer span.End("")
package trace
