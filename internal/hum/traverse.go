package hum

// TrackTokens returns every token of track in line order, all subtracks
// included.
func (f *File) TrackTokens(track int) []TokenID {
	var out []TokenID
	for i := range f.lines.data {
		l := &f.lines.data[i]
		if !l.HasSpines() {
			continue
		}
		for _, id := range l.tokens {
			if f.Token(id).Track == track {
				out = append(out, id)
			}
		}
	}
	return out
}

// StrandTokens returns the tokens of strand index from start to end.
func (f *File) StrandTokens(index int) []TokenID {
	if index < 0 || index >= len(f.strands) {
		return nil
	}
	s := f.strands[index]
	var out []TokenID
	for cur := s.Start; cur.IsValid(); {
		out = append(out, cur)
		if cur == s.End {
			break
		}
		cur = f.Token(cur).Next(0)
	}
	return out
}

// Walk calls fn for every token in line and field order until fn returns false.
func (f *File) Walk(fn func(*Line, *Token) bool) {
	for i := range f.lines.data {
		l := &f.lines.data[i]
		for _, id := range l.tokens {
			if !fn(l, f.Token(id)) {
				return
			}
		}
	}
}

// SpineTokens walks forward from start along first links and returns the
// visited tokens, stopping after a terminator or when links run out.
func (f *File) SpineTokens(start TokenID) []TokenID {
	var out []TokenID
	for cur := start; cur.IsValid(); {
		out = append(out, cur)
		tok := f.Token(cur)
		if tok.kind == KindTerminate {
			break
		}
		cur = tok.Next(0)
	}
	return out
}
