// Package trace provides ambient tracing for the swell runtime.
//
// Events describe what the scheduler and its tasks are doing: run
// begin/end, polls, parks, wakes, timer fires, diagnostic emissions.
// The diagnostics core never logs through this package; it writes raw
// lines to its own output stream. Trace is the telemetry side channel
// next to it.
//
// Every event carries a Scope that grades it from coarse (runtime) to
// fine (diag), and a tracer carries a Level that decides which scopes
// it keeps. LevelError is the post-mortem setting: nothing streams
// live, but a RingTracer still records every scope so a crash dump has
// the full picture.
//
// New builds the backend the config asks for: a StreamTracer writing
// formatted lines as they happen, a RingTracer keeping the last N
// events in memory, or a MultiTracer fanning out to both. When tracing
// is off, New returns Nop and call sites can check Enabled to skip
// event construction entirely.
//
// Tracers travel through the command layer via context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	t := trace.FromContext(ctx)
//
//	span := trace.Begin(t, trace.ScopeRuntime, "run", 0, 0)
//	defer span.End("")
//
// FromContext never returns nil; a context without a tracer yields
// Nop, so instrumentation needs no guards.
package trace
