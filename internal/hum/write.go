package hum

import (
	"bufio"
	"io"
	"strings"

	"humdrum/internal/source"
)

// SyncText rebuilds the text of every spine line from its tokens.
func (f *File) SyncText() {
	for i := range f.lines.data {
		l := &f.lines.data[i]
		if l.HasSpines() {
			l.CreateTextFromTokens()
		}
	}
}

// WriteTo writes the current line texts. CRLF separators and a missing
// final newline are restored from the source.
func (f *File) WriteTo(w io.Writer) (int64, error) {
	bw := bufio.NewWriter(w)
	eol := "\n"
	if f.src.Flags&source.FileNormalizedCRLF != 0 {
		eol = "\r\n"
	}
	var written int64
	for i := range f.lines.data {
		n, err := bw.WriteString(f.lines.data[i].text)
		written += int64(n)
		if err != nil {
			return written, err
		}
		if i == len(f.lines.data)-1 && f.src.Flags&source.FileNoFinalNewline != 0 {
			break
		}
		n, err = bw.WriteString(eol)
		written += int64(n)
		if err != nil {
			return written, err
		}
	}
	return written, bw.Flush()
}

// String renders the file with WriteTo.
func (f *File) String() string {
	var sb strings.Builder
	_, _ = f.WriteTo(&sb)
	return sb.String()
}

// Clone returns a deep copy sharing only the immutable source. Diagnostics
// are copied; the clone reports to the same external reporter.
func (f *File) Clone() *File {
	c := &File{
		fileSet:     f.fileSet,
		src:         f.src,
		opts:        f.opts,
		lines:       &arena[Line]{data: make([]Line, len(f.lines.data), cap(f.lines.data))},
		tokens:      &arena[Token]{data: make([]Token, len(f.tokens.data), cap(f.tokens.data))},
		trackStarts: append([]TokenID(nil), f.trackStarts...),
		strands:     append([]Strand(nil), f.strands...),
		valid:       f.valid,
		done:        f.done,
	}
	c.bag = f.bag.Clone()
	c.reporter = reporterFor(c.bag, f.opts)
	for _, te := range f.trackEnds {
		c.trackEnds = append(c.trackEnds, append([]TokenID(nil), te...))
	}
	for i, l := range f.lines.data {
		l.owner = c
		l.tokens = append([]TokenID(nil), l.tokens...)
		c.lines.data[i] = l
	}
	for i, t := range f.tokens.data {
		t.next = cloneIDs(t.next)
		t.prev = cloneIDs(t.prev)
		t.nextNonNull = cloneIDs(t.nextNonNull)
		t.prevNonNull = cloneIDs(t.prevNonNull)
		c.tokens.data[i] = t
	}
	return c
}

func cloneIDs(ids []TokenID) []TokenID {
	if ids == nil {
		return nil
	}
	return append([]TokenID(nil), ids...)
}
