// Package diag defines the diagnostic model shared by every analysis phase.
//
// # Purpose
//
//   - Provide deterministic, serialisable records of the problems found while
//     classifying lines, building spine topology, stitching tokens and
//     numbering tracks.
//   - Offer light-weight utilities (Reporter, Bag) that let producers emit
//     diagnostics without coupling to storage or formatting.
//
// Package diag does no formatting or IO. Rendering lives in internal/diagfmt.
//
// # Data model
//
// Diagnostic is the central record:
//
//   - Severity – Info, Warning or Error.
//   - Code – numeric identifier with a stable string form (LIN, SPN, LNK, IO,
//     TRK, MUT, OBS ranges, see codes.go).
//   - Message – short human text. Structural errors that involve two lines
//     carry the full text of both lines in Notes.
//   - Primary span – the token or line at fault.
//   - Notes – secondary spans, e.g. the previous line of a failed stitch.
//   - Fixes – optional text edits (for example "append a terminator line").
//
// # Emitting diagnostics
//
// Phases receive a diag.Reporter. They either call Report directly or build
// the record with ReportError/ReportWarning, chain WithNote/WithFix and Emit.
// BagReporter aggregates into a Bag, which supports limits, sorting and
// deduplication; MultiReporter fans out to several sinks.
package diag
