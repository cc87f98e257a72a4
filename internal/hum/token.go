package hum

import (
	"humdrum/internal/source"
)

// Address locates a token inside the file and inside the spine structure.
// Track is 1-based; zero means the token belongs to no spine.
type Address struct {
	LineIndex     int    // 0-based line number
	Field         int    // 0-based field index on the line
	Track         int    // 1-based track number, 0 for spineless tokens
	Subtrack      int    // 1-based position among fields of the same track, 0 when alone
	SubtrackCount int    // fields of the same track on this line
	SpineInfo     string // spine path, e.g. "(1)a" or "2 3"
}

// Token is one tab-separated field. Tokens are owned by a File arena and
// reference each other by TokenID.
type Token struct {
	Address

	text   string
	kind   Kind
	line   LineID
	strand int
	span   source.Span

	next        []TokenID
	prev        []TokenID
	nextNonNull []TokenID
	prevNonNull []TokenID
}

func newToken(text string, line LineID) Token {
	return Token{text: text, kind: Classify(text), line: line, strand: -1}
}

func (t *Token) Text() string { return t.text }
func (t *Token) Kind() Kind   { return t.kind }
func (t *Token) Line() LineID { return t.line }

// Span is the byte range of the token in the source it was read from.
// Tokens created by mutation carry an empty span at the start of their line.
func (t *Token) Span() source.Span { return t.span }

// Strand is the index into File.Strands, or -1 when strands were not analyzed.
func (t *Token) Strand() int { return t.strand }

// SetText replaces the token text and reclassifies it. The owning line text
// is not touched.
func (t *Token) SetText(text string) {
	t.text = text
	t.kind = Classify(text)
}

func (t *Token) String() string { return t.text }

// IsNull reports null tokens of any line class: ".", "*" and "!".
func (t *Token) IsNull() bool {
	switch t.text {
	case NullData, NullInterpretation, NullLocalComment:
		return true
	}
	return false
}

func (t *Token) IsData() bool           { return t.kind.IsData() }
func (t *Token) IsNullData() bool       { return t.kind == KindNull }
func (t *Token) IsNonNullData() bool    { return t.kind == KindData }
func (t *Token) IsManipulator() bool    { return t.kind.IsManipulator() }
func (t *Token) IsInterpretation() bool { return t.kind.IsInterpretation() }
func (t *Token) IsBarline() bool        { return t.kind == KindBarline }
func (t *Token) IsExclusive() bool      { return t.kind == KindExclusive }
func (t *Token) IsTerminator() bool     { return t.kind == KindTerminate }
func (t *Token) IsSplit() bool          { return t.kind == KindSplit }
func (t *Token) IsMerge() bool          { return t.kind == KindMerge }
func (t *Token) IsExchange() bool       { return t.kind == KindExchange }
func (t *Token) IsAdd() bool            { return t.kind == KindAdd }

// DataType returns the exclusive interpretation name without the "**" prefix,
// or "" for tokens that are not exclusive interpretations.
func (t *Token) DataType() string {
	if t.kind != KindExclusive {
		return ""
	}
	return t.text[2:]
}

// NextCount is the number of forward links.
func (t *Token) NextCount() int { return len(t.next) }

// PrevCount is the number of backward links.
func (t *Token) PrevCount() int { return len(t.prev) }

// Next returns the i-th forward link or NoTokenID.
func (t *Token) Next(i int) TokenID {
	if i < 0 || i >= len(t.next) {
		return NoTokenID
	}
	return t.next[i]
}

// Prev returns the i-th backward link or NoTokenID.
func (t *Token) Prev(i int) TokenID {
	if i < 0 || i >= len(t.prev) {
		return NoTokenID
	}
	return t.prev[i]
}

// NextTokens returns a copy of the forward links.
func (t *Token) NextTokens() []TokenID { return append([]TokenID(nil), t.next...) }

// PrevTokens returns a copy of the backward links.
func (t *Token) PrevTokens() []TokenID { return append([]TokenID(nil), t.prev...) }

// NextNonNull returns the nearest non-null data tokens that follow in the
// same spine strand, across all branches.
func (t *Token) NextNonNull() []TokenID { return append([]TokenID(nil), t.nextNonNull...) }

// PrevNonNull returns the nearest non-null data tokens that precede.
func (t *Token) PrevNonNull() []TokenID { return append([]TokenID(nil), t.prevNonNull...) }

func (t *Token) resetLinks() {
	t.next = t.next[:0]
	t.prev = t.prev[:0]
	t.nextNonNull = nil
	t.prevNonNull = nil
	t.strand = -1
}

func appendUnique(dst []TokenID, ids ...TokenID) []TokenID {
outer:
	for _, id := range ids {
		for _, have := range dst {
			if have == id {
				continue outer
			}
		}
		dst = append(dst, id)
	}
	return dst
}
