// Package hum parses Humdrum files into a graph of tokens and analyzes how
// spines split, merge, exchange and terminate.
//
// Invariants:
//   - A File owns every Line and Token through arenas; tokens and lines refer
//     to each other by TokenID / LineID handles, never by owning pointers.
//   - Token.Kind is always the classification of the token's current text
//     (SetText recomputes it).
//   - Line text and line tokens are two representations. Neither is synced
//     automatically: after mutating tokens call Line.CreateTextFromTokens (or
//     File.SyncText), after replacing text call Line.CreateTokensFromText.
//   - Analysis runs in a fixed phase order: tokenize, index, spines, links,
//     tracks, non-null. A phase needs the output of the previous one; a
//     failed phase stops the chain and marks the File invalid.
//   - Track numbers are assigned when a spine is opened by an exclusive
//     interpretation and never renumbered; subtracks are recomputed per line.
//   - Malformed input never panics and never returns a Go error: problems are
//     reported as diagnostics and File.IsValid reports the outcome.
package hum
