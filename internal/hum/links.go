package hum

import (
	"humdrum/internal/diag"
)

// analyzeLinks connects the tokens of each spine line to the tokens of the
// next spine line. Alignment failures are reported for every pair before
// the phase fails; a plain length mismatch stops immediately.
func (f *File) analyzeLinks() bool {
	for i := range f.tokens.data {
		f.tokens.data[i].resetLinks()
	}
	ok := true
	var prev *Line
	for i := range f.lines.data {
		l := &f.lines.data[i]
		if !l.HasSpines() {
			continue
		}
		if prev != nil && prev.kind != LineTerminator {
			switch f.stitch(prev, l) {
			case stitchFatal:
				return false
			case stitchMisaligned:
				ok = false
			}
		}
		prev = l
	}
	return ok
}

type stitchResult uint8

const (
	stitchOK stitchResult = iota
	stitchMisaligned
	stitchFatal
)

func (f *File) link(from, to TokenID) {
	a, b := f.Token(from), f.Token(to)
	a.next = append(a.next, to)
	b.prev = append(b.prev, from)
}

func (f *File) stitch(prev, next *Line) stitchResult {
	if !prev.IsInterpretation() && !next.IsInterpretation() {
		if prev.TokenCount() != next.TokenCount() {
			f.errorf(diag.LnkLengthMismatch, next.span,
				"%s has %d fields but the previous spine line has %d", lineRef(next), next.TokenCount(), prev.TokenCount()).
				WithNote(prev.span, lineRef(prev)).
				Emit()
			return stitchFatal
		}
		for i, id := range prev.tokens {
			f.link(id, next.tokens[i])
		}
		return stitchOK
	}

	pn, nn := prev.TokenCount(), next.TokenCount()
	i, ii := 0, 0
walk:
	for i < pn {
		id := prev.tokens[i]
		tok := f.Token(id)
		switch tok.kind {
		case KindSplit:
			if ii+1 >= nn {
				break walk
			}
			f.link(id, next.tokens[ii])
			f.link(id, next.tokens[ii+1])
			i++
			ii += 2

		case KindMerge:
			if ii >= nn {
				break walk
			}
			target := next.tokens[ii]
			for i < pn && f.Token(prev.tokens[i]).kind == KindMerge {
				f.link(prev.tokens[i], target)
				i++
			}
			ii++

		case KindExchange:
			if i+1 >= pn || ii+1 >= nn {
				break walk
			}
			f.link(prev.tokens[i+1], next.tokens[ii])
			f.link(id, next.tokens[ii+1])
			i += 2
			ii += 2

		case KindTerminate:
			i++

		case KindAdd:
			if ii >= nn {
				break walk
			}
			f.link(id, next.tokens[ii])
			if ii+1 >= nn || f.Token(next.tokens[ii+1]).kind != KindExclusive {
				f.errorf(diag.SpnAddWithoutExclusive, next.span,
					"added spine on field %d is not opened on %s", i+1, lineRef(next)).
					WithNote(prev.span, lineRef(prev)).
					Emit()
				return stitchFatal
			}
			i++
			ii += 2

		default:
			if ii >= nn {
				break walk
			}
			f.link(id, next.tokens[ii])
			i++
			ii++
		}
	}

	if i != pn || ii != nn {
		f.errorf(diag.LnkAlignment, next.span,
			"cannot stitch %s to %s: consumed %d of %d and %d of %d fields",
			lineRef(prev), lineRef(next), i, pn, ii, nn).
			WithNote(prev.span, lineRef(prev)).
			Emit()
		return stitchMisaligned
	}
	return stitchOK
}
