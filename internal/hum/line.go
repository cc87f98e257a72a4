package hum

import (
	"slices"
	"strings"

	"fortio.org/safecast"

	"humdrum/internal/source"
)

// Line is one line of a Humdrum file: its raw text plus the tokens split
// from it. The two are synchronized only by CreateTokensFromText and
// CreateTextFromTokens.
type Line struct {
	owner  *File
	id     LineID
	index  int
	text   string
	kind   LineKind
	tokens []TokenID
	span   source.Span

	// text still equals the bytes under span
	pristine bool
}

func (l *Line) ID() LineID           { return l.id }
func (l *Line) Index() int           { return l.index }
func (l *Line) Text() string         { return l.text }
func (l *Line) String() string       { return l.text }
func (l *Line) Kind() LineKind       { return l.kind }
func (l *Line) Span() source.Span    { return l.span }
func (l *Line) TokenCount() int      { return len(l.tokens) }
func (l *Line) HasSpines() bool      { return l.kind.HasSpines() }
func (l *Line) IsData() bool         { return l.kind == LineData }
func (l *Line) IsBarline() bool      { return l.kind == LineBarline }
func (l *Line) IsExclusive() bool    { return l.kind == LineExclusive }
func (l *Line) IsTerminator() bool   { return l.kind == LineTerminator }
func (l *Line) IsLocalComment() bool { return l.kind == LineLocalComment }
func (l *Line) IsGlobalComment() bool {
	return l.kind == LineGlobalComment || l.kind == LineReference
}

// IsInterpretation is true for every line whose fields start with '*',
// including exclusive and terminator lines.
func (l *Line) IsInterpretation() bool { return l.kind.IsInterpretation() }

// IsManipulator reports whether any token on the line changes the spine layout.
func (l *Line) IsManipulator() bool {
	if !l.kind.IsInterpretation() {
		return false
	}
	for _, id := range l.tokens {
		if l.owner.Token(id).IsManipulator() {
			return true
		}
	}
	return false
}

// TokenID returns the handle of the field at index, or NoTokenID.
func (l *Line) TokenID(index int) TokenID {
	if index < 0 || index >= len(l.tokens) {
		return NoTokenID
	}
	return l.tokens[index]
}

// Token returns the field at index, or nil.
func (l *Line) Token(index int) *Token {
	return l.owner.Token(l.TokenID(index))
}

// Tokens returns a copy of the line's token handles in field order.
func (l *Line) Tokens() []TokenID {
	return slices.Clone(l.tokens)
}

// SetText replaces the raw text. Tokens are left as they are.
func (l *Line) SetText(text string) {
	l.text = text
	l.pristine = false
}

// CreateTextFromTokens rebuilds the raw text by joining tokens with tabs.
func (l *Line) CreateTextFromTokens() string {
	var sb strings.Builder
	for i, id := range l.tokens {
		if i > 0 {
			sb.WriteByte('\t')
		}
		sb.WriteString(l.owner.Token(id).text)
	}
	l.text = sb.String()
	l.pristine = false
	return l.text
}

// CreateTokensFromText discards the current tokens and splits the raw text
// again. Discarded tokens stay in the arena but are no longer reachable.
func (l *Line) CreateTokensFromText() {
	l.tokens = l.tokens[:0]
	for field, part := range splitFields(l.text) {
		tok := newToken(part.text, l.id)
		tok.LineIndex = l.index
		tok.Field = field
		tok.span = source.Span{File: l.span.File, Start: l.span.Start, End: l.span.Start}
		if l.pristine {
			tok.span.Start += part.offset
			tok.span.End = tok.span.Start + uint32(len(part.text)) //nolint:gosec // line length fits: span came from uint32 offsets
		}
		l.tokens = append(l.tokens, l.owner.allocToken(tok))
	}
	l.reclassify()
}

// InsertToken puts a new token with the given text at field index, shifting
// later fields right. index == TokenCount appends. The line text is stale
// until CreateTextFromTokens is called.
func (l *Line) InsertToken(index int, text string) TokenID {
	index = min(max(index, 0), len(l.tokens))
	tok := newToken(text, l.id)
	tok.LineIndex = l.index
	tok.span = source.Span{File: l.span.File, Start: l.span.Start, End: l.span.Start}
	id := l.owner.allocToken(tok)
	l.tokens = slices.Insert(l.tokens, index, id)
	for i := index; i < len(l.tokens); i++ {
		l.owner.Token(l.tokens[i]).Field = i
	}
	l.reclassify()
	return id
}

// AppendToken adds a token after the last field.
func (l *Line) AppendToken(text string) TokenID {
	return l.InsertToken(len(l.tokens), text)
}

// FieldsOfTrack returns field indexes whose token belongs to track, in order.
// Track numbers are those of the last analysis.
func (l *Line) FieldsOfTrack(track int) []int {
	var out []int
	for i, id := range l.tokens {
		if l.owner.Token(id).Track == track {
			out = append(out, i)
		}
	}
	return out
}

func (l *Line) reclassify() {
	kinds := make([]Kind, len(l.tokens))
	for i, id := range l.tokens {
		kinds[i] = l.owner.Token(id).kind
	}
	l.kind = classifyLine(kinds)
}

type field struct {
	text   string
	offset uint32
}

// splitFields splits a raw line on tabs. Global comments, reference records
// and blank lines are a single spineless field.
func splitFields(text string) []field {
	if text == "" || strings.HasPrefix(text, "!!") {
		return []field{{text: text}}
	}
	parts := strings.Split(text, "\t")
	out := make([]field, len(parts))
	var off int
	for i, p := range parts {
		o, err := safecast.Conv[uint32](off)
		if err != nil {
			o = 0
		}
		out[i] = field{text: p, offset: o}
		off += len(p) + 1
	}
	return out
}

// Reference splits a "!!!key: value" record. ok is false for other lines.
func (l *Line) Reference() (key, value string, ok bool) {
	if l.kind != LineReference {
		return "", "", false
	}
	body := strings.TrimPrefix(l.text, "!!!")
	k, v, found := strings.Cut(body, ":")
	if !found {
		return strings.TrimSpace(body), "", true
	}
	return strings.TrimSpace(k), strings.TrimSpace(v), true
}

// References collects every reference record of the file in line order.
func (f *File) References() []Reference {
	var out []Reference
	for i := range f.lines.data {
		if k, v, ok := f.lines.data[i].Reference(); ok {
			out = append(out, Reference{Line: i, Key: k, Value: v})
		}
	}
	return out
}

// Reference is one bibliographic record.
type Reference struct {
	Line  int
	Key   string
	Value string
}
