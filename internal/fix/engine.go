// Package fix applies the text edits attached to diagnostics.
package fix

import (
	"bytes"
	"cmp"
	"errors"
	"fmt"
	"slices"

	"humdrum/internal/diag"
	"humdrum/internal/source"
)

// ErrNoFixes is returned when no fixes were applied.
var ErrNoFixes = errors.New("no applicable fixes found")

// ApplyMode determines selection strategy for fixes.
type ApplyMode uint8

const (
	ApplyModeOnce ApplyMode = iota // first fix only
	ApplyModeAll
	ApplyModeCode // fixes of diagnostics whose code ID equals TargetCode
)

// ApplyOptions configures how fixes are selected.
type ApplyOptions struct {
	Mode       ApplyMode
	TargetCode string
}

// AppliedFix records a successfully applied fix.
type AppliedFix struct {
	Title     string
	Code      diag.Code
	Message   string
	File      source.FileID
	EditCount int
}

// SkippedFix captures a skipped fix with a reason.
type SkippedFix struct {
	Title  string
	Code   diag.Code
	Reason string
}

// ApplyResult aggregates applied and skipped fixes. Content holds the
// rewritten bytes of every touched file with its original line endings;
// nothing is written to disk.
type ApplyResult struct {
	Applied []AppliedFix
	Skipped []SkippedFix
	Content map[source.FileID][]byte
}

type candidate struct {
	diag  *diag.Diagnostic
	fix   diag.Fix
	order int
}

// Apply selects fixes from diagnostics according to opts and applies them
// to in-memory copies of the files in fs. Edits are expressed against the
// original content; a fix overlapping an already applied one is skipped.
func Apply(fs *source.FileSet, diagnostics []diag.Diagnostic, opts ApplyOptions) (*ApplyResult, error) {
	result := &ApplyResult{Content: make(map[source.FileID][]byte)}
	if fs == nil {
		return result, fmt.Errorf("fix: FileSet is nil")
	}

	var candidates []candidate
	for i := range diagnostics {
		d := &diagnostics[i]
		for _, f := range d.Fixes {
			if len(f.Edits) == 0 {
				result.Skipped = append(result.Skipped, SkippedFix{Title: f.Title, Code: d.Code, Reason: "fix has no edits"})
				continue
			}
			candidates = append(candidates, candidate{diag: d, fix: f, order: len(candidates)})
		}
	}
	candidates = selectCandidates(candidates, opts)
	if len(candidates) == 0 {
		return result, ErrNoFixes
	}

	applied := make(map[source.FileID][]diag.FixEdit)
	for _, cand := range candidates {
		if reason := checkFix(fs, applied, cand.fix); reason != "" {
			result.Skipped = append(result.Skipped, SkippedFix{Title: cand.fix.Title, Code: cand.diag.Code, Reason: reason})
			continue
		}
		for _, e := range cand.fix.Edits {
			applied[e.Span.File] = append(applied[e.Span.File], e)
		}
		result.Applied = append(result.Applied, AppliedFix{
			Title:     cand.fix.Title,
			Code:      cand.diag.Code,
			Message:   cand.diag.Message,
			File:      cand.diag.Primary.File,
			EditCount: len(cand.fix.Edits),
		})
	}
	if len(result.Applied) == 0 {
		return result, ErrNoFixes
	}

	for id, edits := range applied {
		file := fs.Get(id)
		out := rewrite(file.Content, edits)
		// правки и контент в LF, исходные переводы строк возвращаем как WriteTo
		if file.Flags&source.FileNormalizedCRLF != 0 {
			out = bytes.ReplaceAll(out, []byte("\n"), []byte("\r\n"))
		}
		result.Content[id] = out
	}
	return result, nil
}

func selectCandidates(candidates []candidate, opts ApplyOptions) []candidate {
	switch opts.Mode {
	case ApplyModeOnce:
		if len(candidates) > 0 {
			return candidates[:1]
		}
	case ApplyModeAll:
		return candidates
	case ApplyModeCode:
		var out []candidate
		for _, c := range candidates {
			if c.diag.Code.ID() == opts.TargetCode {
				out = append(out, c)
			}
		}
		return out
	}
	return nil
}

// checkFix returns a skip reason, or "" when the fix can be applied.
func checkFix(fs *source.FileSet, applied map[source.FileID][]diag.FixEdit, f diag.Fix) string {
	for i, e := range f.Edits {
		file := fs.Get(e.Span.File)
		if file == nil {
			return "edit targets an unknown file"
		}
		if e.Span.End < e.Span.Start || int(e.Span.End) > len(file.Content) {
			return "edit span out of range"
		}
		for _, prev := range applied[e.Span.File] {
			if spansConflict(prev.Span, e.Span) {
				return "conflicts with a previously applied edit"
			}
		}
		for _, other := range f.Edits[i+1:] {
			if other.Span.File == e.Span.File && spansConflict(other.Span, e.Span) {
				return "fix edits overlap"
			}
		}
	}
	return ""
}

// spansConflict reports whether two half-open spans overlap. Two
// insertions never conflict; an insertion conflicts with a span that
// strictly contains its position.
func spansConflict(a, b source.Span) bool {
	if a.Empty() && b.Empty() {
		return false
	}
	if a.Empty() {
		return b.Start < a.Start && a.Start < b.End
	}
	if b.Empty() {
		return a.Start < b.Start && b.Start < a.End
	}
	return a.Start < b.End && b.Start < a.End
}

// rewrite applies non-overlapping edits to content. Insertions at a
// position go before a replacement starting there.
func rewrite(content []byte, edits []diag.FixEdit) []byte {
	slices.SortStableFunc(edits, func(a, b diag.FixEdit) int {
		if a.Span.Start != b.Span.Start {
			return cmp.Compare(a.Span.Start, b.Span.Start)
		}
		return cmp.Compare(a.Span.End, b.Span.End)
	})
	out := make([]byte, 0, len(content)+64)
	pos := uint32(0)
	for _, e := range edits {
		out = append(out, content[pos:e.Span.Start]...)
		out = append(out, e.NewText...)
		pos = e.Span.End
	}
	return append(out, content[pos:]...)
}
