package testkit

import (
	"errors"
	"fmt"
	"slices"

	"fortio.org/safecast"

	"humdrum/internal/hum"
	"humdrum/internal/spinepath"
)

// CheckAll runs every structural check on an analyzed file and joins the
// failures.
func CheckAll(f *hum.File) error {
	return errors.Join(
		CheckSpanInvariants(f),
		CheckLinkInvariants(f),
		CheckTrackInvariants(f),
		CheckNonNullInvariants(f),
	)
}

// CheckSpanInvariants verifies that every token read from source points at
// its own text:
// 1) span lies inside the file content
// 2) the bytes under the span equal the token text
func CheckSpanInvariants(f *hum.File) error {
	sf := f.Source()
	if sf == nil {
		return fmt.Errorf("file has no source")
	}
	lenContent, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}
	var errs []error
	f.Walk(func(l *hum.Line, tok *hum.Token) bool {
		sp := tok.Span()
		if sp.File != sf.ID {
			errs = append(errs, fmt.Errorf("line %d field %d: span file %d, want %d", l.Index()+1, tok.Field+1, sp.File, sf.ID))
			return true
		}
		if sp.End > lenContent || sp.Start > sp.End {
			errs = append(errs, fmt.Errorf("line %d field %d: span %v outside content", l.Index()+1, tok.Field+1, sp))
			return true
		}
		if got := string(sf.Content[sp.Start:sp.End]); got != tok.Text() {
			errs = append(errs, fmt.Errorf("line %d field %d: span covers %q, token is %q", l.Index()+1, tok.Field+1, got, tok.Text()))
		}
		return true
	})
	return errors.Join(errs...)
}

// CheckLinkInvariants verifies the token graph:
// 1) links are symmetric: b in a.next iff a in b.prev
// 2) spineless tokens have no links
// 3) splits have two successors, terminators none, other tokens at most one
func CheckLinkInvariants(f *hum.File) error {
	var errs []error
	f.Walk(func(l *hum.Line, tok *hum.Token) bool {
		where := fmt.Sprintf("line %d field %d %q", l.Index()+1, tok.Field+1, tok.Text())
		if !l.HasSpines() {
			if tok.NextCount()+tok.PrevCount() > 0 {
				errs = append(errs, fmt.Errorf("%s: spineless token is linked", where))
			}
			return true
		}
		self := l.TokenID(tok.Field)
		for _, n := range tok.NextTokens() {
			if !slices.Contains(f.Token(n).PrevTokens(), self) {
				errs = append(errs, fmt.Errorf("%s: forward link without backward link", where))
			}
		}
		for _, p := range tok.PrevTokens() {
			if !slices.Contains(f.Token(p).NextTokens(), self) {
				errs = append(errs, fmt.Errorf("%s: backward link without forward link", where))
			}
		}
		switch {
		case tok.IsSplit():
			if tok.NextCount() != 2 {
				errs = append(errs, fmt.Errorf("%s: split has %d successors", where, tok.NextCount()))
			}
		case tok.IsTerminator():
			if tok.NextCount() != 0 {
				errs = append(errs, fmt.Errorf("%s: terminator has successors", where))
			}
		default:
			if tok.NextCount() > 1 {
				errs = append(errs, fmt.Errorf("%s: %d successors", where, tok.NextCount()))
			}
		}
		return true
	})
	return errors.Join(errs...)
}

// CheckTrackInvariants verifies track numbering:
// 1) every track start carries its own track number
// 2) every spine token has a track in 1..MaxTrack matching its parsed path
// 3) subtracks are 1..SubtrackCount on lines where a track has several fields
func CheckTrackInvariants(f *hum.File) error {
	var errs []error
	for track := 1; track <= f.MaxTrack(); track++ {
		start := f.Token(f.TrackStart(track))
		if start == nil {
			errs = append(errs, fmt.Errorf("track %d has no start", track))
			continue
		}
		if start.Track != track {
			errs = append(errs, fmt.Errorf("track %d starts at a token of track %d", track, start.Track))
		}
	}
	f.Walk(func(l *hum.Line, tok *hum.Token) bool {
		if !l.HasSpines() {
			return true
		}
		where := fmt.Sprintf("line %d field %d", l.Index()+1, tok.Field+1)
		if tok.Track < 1 || tok.Track > f.MaxTrack() {
			errs = append(errs, fmt.Errorf("%s: track %d out of range", where, tok.Track))
		}
		p, err := spinepath.Parse(tok.SpineInfo)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", where, err))
		} else if p.Track() != tok.Track {
			errs = append(errs, fmt.Errorf("%s: path %q names track %d, token has %d", where, tok.SpineInfo, p.Track(), tok.Track))
		}
		if tok.SubtrackCount > 1 && (tok.Subtrack < 1 || tok.Subtrack > tok.SubtrackCount) {
			errs = append(errs, fmt.Errorf("%s: subtrack %d of %d", where, tok.Subtrack, tok.SubtrackCount))
		}
		if tok.SubtrackCount == 1 && tok.Subtrack != 0 {
			errs = append(errs, fmt.Errorf("%s: lone field has subtrack %d", where, tok.Subtrack))
		}
		return true
	})
	return errors.Join(errs...)
}

// CheckNonNullInvariants verifies that non-null neighbour sets hold only
// non-null data tokens, without repeats.
func CheckNonNullInvariants(f *hum.File) error {
	var errs []error
	f.Walk(func(l *hum.Line, tok *hum.Token) bool {
		for _, set := range [][]hum.TokenID{tok.PrevNonNull(), tok.NextNonNull()} {
			seen := map[hum.TokenID]bool{}
			for _, id := range set {
				if seen[id] {
					errs = append(errs, fmt.Errorf("line %d field %d: duplicate non-null neighbour", l.Index()+1, tok.Field+1))
				}
				seen[id] = true
				if !f.Token(id).IsNonNullData() {
					errs = append(errs, fmt.Errorf("line %d field %d: neighbour %q is not non-null data", l.Index()+1, tok.Field+1, f.Token(id).Text()))
				}
			}
		}
		return true
	})
	return errors.Join(errs...)
}
