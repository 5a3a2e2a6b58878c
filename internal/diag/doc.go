// Package diag implements the runtime warning and assertion core of the
// swell executor.
//
// # Purpose
//
//   - Emit operator-facing warnings to a single error stream with a
//     timestamped header and a stack backtrace that reads as one logical
//     stack even when the scheduler interleaves physically separate stacks.
//   - Bound the output rate (fixed window, hard ceiling) so a warning storm
//     cannot flood the stream.
//   - Escalate failed assertions (and, in strict mode, every warning) into
//     process termination with a diagnostic signal.
//
// # Model
//
// All state lives in a Context owned by the process root. The runtime is
// cooperative and single-threaded: one goroutine owns the executor and the
// Context, so the package takes no locks. Reentrancy (a diagnostic raised
// while another is being written) is handled by the critical section depth,
// not by mutual exclusion.
//
// A warning passes through a fixed pipeline: disabled gate, rate gate,
// header, backtrace (capture, stitch across the scheduler boundary, render
// at the configured Level), journal record, observer notification, strict
// escalation. Every internal failure degrades to a textual fallback on the
// same stream; no error ever reaches the warning site.
//
// # Backtrace stitching
//
// Captured frames stop describing the logical task at the scheduler
// boundary: below it runs the executor loop. The stitcher splits the capture
// at the first boundary frame, splices in the suspended task frames supplied
// by the executor, and keeps one contiguous numbering across all three
// segments.
//
// # Consumers
//
//   - internal/asyncrt: wires Boundary and Suspended via AttachDiagnostics
//     and reports executor misuse through Warnf.
//   - cmd/swell: owns the Context, bridges the Observer callback into the
//     trace stream, and exposes Level and Strict as flags.
package diag
