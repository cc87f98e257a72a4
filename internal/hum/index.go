package hum

import (
	"humdrum/internal/diag"
)

// indexLines numbers lines and fields, clears derived state from a previous
// run and checks that every field agrees with its line class. All offending
// fields are reported before the phase fails.
func (f *File) indexLines() bool {
	ok := true
	for i := range f.lines.data {
		l := &f.lines.data[i]
		l.index = i
		for field, id := range l.tokens {
			tok := f.Token(id)
			tok.Address = Address{LineIndex: i, Field: field}
			tok.resetLinks()
		}
		l.reclassify()

		if l.kind == LineEmpty {
			f.warnf(diag.LinEmptyLine, l.span, "empty line %d", i+1).Emit()
			continue
		}
		if !l.kind.HasSpines() {
			continue
		}
		for field, id := range l.tokens {
			tok := f.Token(id)
			if tok.kind == KindEmpty {
				f.errorf(diag.LinEmptyField, tok.span, "empty field %d on %s", field+1, lineRef(l)).Emit()
				ok = false
				continue
			}
			if !fieldFits(l.kind, tok.kind) {
				f.errorf(diag.LinMisclassifiedField, tok.span,
					"field %d %q (%s) does not belong on a %s line", field+1, tok.text, tok.kind, l.kind).
					WithNote(l.span, lineRef(l)).
					Emit()
				ok = false
			}
		}
	}
	return ok
}

func fieldFits(lk LineKind, k Kind) bool {
	switch lk {
	case LineExclusive, LineTerminator, LineInterpretation:
		return k.IsInterpretation()
	case LineLocalComment:
		return k.IsComment()
	case LineBarline:
		return k == KindBarline
	case LineData:
		return k.IsData()
	}
	return true
}
