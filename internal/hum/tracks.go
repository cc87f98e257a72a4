package hum

import (
	"humdrum/internal/diag"
	"humdrum/internal/source"
)

// Strand is a run of tokens in one spine that is not interrupted by a
// split or merge. Start is a track start or the second branch of a split;
// End is a terminator or the token feeding a merge.
type Strand struct {
	Track int
	Start TokenID
	End   TokenID
}

// analyzeTracks numbers every spine token with its track and subtrack and
// then walks strands.
func (f *File) analyzeTracks() bool {
	ok := true
	for i := range f.lines.data {
		l := &f.lines.data[i]
		if !l.HasSpines() {
			continue
		}
		counts := make(map[int]int, len(l.tokens))
		for _, id := range l.tokens {
			tok := f.Token(id)
			tok.Track = trackOf(tok.SpineInfo)
			if tok.Track == 0 {
				f.errorf(diag.TrkBadSpineInfo, tok.span,
					"spine path %q of field %d has no track number", tok.SpineInfo, tok.Field+1).Emit()
				ok = false
			}
			counts[tok.Track]++
		}
		seen := make(map[int]int, len(counts))
		for _, id := range l.tokens {
			tok := f.Token(id)
			tok.SubtrackCount = counts[tok.Track]
			if tok.SubtrackCount > 1 {
				seen[tok.Track]++
				tok.Subtrack = seen[tok.Track]
			} else {
				tok.Subtrack = 0
			}
		}
	}
	if !ok {
		return false
	}

	for track := 1; track <= f.MaxTrack(); track++ {
		if !f.trackStarts[track].IsValid() {
			f.errorf(diag.TrkMissingStart, source.Span{File: f.src.ID}, "track %d was never opened", track).Emit()
			ok = false
			continue
		}
		if len(f.trackEnds[track]) == 0 {
			// допустимо: трек слит в другой трек через *v
			start := f.Token(f.trackStarts[track])
			f.warnf(diag.TrkMissingEnd, start.span,
				"track %d (%s) has no terminator of its own", track, start.text).Emit()
		}
	}
	if ok {
		f.analyzeStrands()
	}
	return ok
}

// analyzeStrands starts a strand at every track start and every secondary
// split branch, and follows first links while the current token is the
// first predecessor of its successor.
func (f *File) analyzeStrands() {
	f.strands = f.strands[:0]
	var starts []TokenID
	for track := 1; track <= f.MaxTrack(); track++ {
		starts = append(starts, f.trackStarts[track])
	}
	for len(starts) > 0 {
		start := starts[0]
		starts = starts[1:]
		if f.Token(start).strand >= 0 {
			continue
		}
		index := len(f.strands)
		cur := start
		for {
			tok := f.Token(cur)
			tok.strand = index
			for _, branch := range tok.next[min(1, len(tok.next)):] {
				if tok.kind == KindSplit {
					starts = append(starts, branch)
				}
			}
			if len(tok.next) == 0 {
				break
			}
			succ := f.Token(tok.next[0])
			if succ.prev[0] != cur || succ.strand >= 0 {
				break
			}
			cur = tok.next[0]
		}
		f.strands = append(f.strands, Strand{Track: f.Token(start).Track, Start: start, End: cur})
	}
}

// Strands returns strands in discovery order.
func (f *File) Strands() []Strand {
	return append([]Strand(nil), f.strands...)
}
