package hum

// analyzeNonNull records, for every data token, the nearest non-null data
// tokens before and after it along the spine graph. Branches are followed
// through splits and merges, so a token may see several neighbours.
//
// Lines are visited in order with a per-token carry set: the last non-null
// data tokens on any path reaching the token.
func (f *File) analyzeNonNull() bool {
	n := f.tokens.len()
	carry := make([][]TokenID, n+1)

	for i := range f.lines.data {
		l := &f.lines.data[i]
		if !l.HasSpines() {
			continue
		}
		for _, id := range l.tokens {
			tok := f.Token(id)
			var incoming []TokenID
			for _, p := range tok.prev {
				incoming = appendUnique(incoming, carry[p]...)
			}
			if tok.IsData() {
				tok.prevNonNull = incoming
			}
			if tok.kind == KindData {
				carry[id] = []TokenID{id}
			} else {
				carry[id] = incoming
			}
		}
	}

	clear(carry)
	for i := len(f.lines.data) - 1; i >= 0; i-- {
		l := &f.lines.data[i]
		if !l.HasSpines() {
			continue
		}
		for _, id := range l.tokens {
			tok := f.Token(id)
			var incoming []TokenID
			for _, nx := range tok.next {
				incoming = appendUnique(incoming, carry[nx]...)
			}
			if tok.IsData() {
				tok.nextNonNull = incoming
			}
			if tok.kind == KindData {
				carry[id] = []TokenID{id}
			} else {
				carry[id] = incoming
			}
		}
	}
	return true
}
