package hum

import (
	"errors"
	"fmt"

	"humdrum/internal/diag"
	"humdrum/internal/source"
)

var (
	// ErrRowCount is returned when per-line data does not cover every line.
	ErrRowCount = errors.New("hum: data length does not match line count")
	// ErrTrackNotFound is returned when a target track is missing on a spine line.
	ErrTrackNotFound = errors.New("hum: track not found")
)

// DefaultExclusive labels inserted spines when no exclusive interpretation
// is given.
const DefaultExclusive = "**blank"

// InsertOptions control how a data spine is inserted.
type InsertOptions struct {
	// Null is the caller's null marker; values rendering to it or to ""
	// become ".".
	Null string
	// Exclusive is the exclusive interpretation for the new spine.
	Exclusive string
	// Resync rebuilds each touched line's text from its tokens.
	Resync bool
}

func (o InsertOptions) exclusive() string {
	if o.Exclusive == "" {
		return DefaultExclusive
	}
	return o.Exclusive
}

// InsertSpineAt inserts a spine before field index on every spine line.
// data is indexed by line and must have exactly LineCount entries; values on
// non-data lines are ignored.
func InsertSpineAt[T any](f *File, index int, data []T, opts InsertOptions) error {
	return insertSpine(f, data, opts, func(l *Line) (int, error) {
		return min(max(index, 0), l.TokenCount()), nil
	})
}

// PrependSpine inserts a spine before the first field of every spine line.
func PrependSpine[T any](f *File, data []T, opts InsertOptions) error {
	return InsertSpineAt(f, 0, data, opts)
}

// AppendSpine adds a spine after the last field of every spine line.
func AppendSpine[T any](f *File, data []T, opts InsertOptions) error {
	return insertSpine(f, data, opts, func(l *Line) (int, error) {
		return l.TokenCount(), nil
	})
}

// InsertSpineBeforeTrack inserts a spine left of the first field of track.
// Track numbers come from the last analysis.
func InsertSpineBeforeTrack[T any](f *File, track int, data []T, opts InsertOptions) error {
	return insertSpine(f, data, opts, func(l *Line) (int, error) {
		fields := l.FieldsOfTrack(track)
		if len(fields) == 0 {
			return 0, fmt.Errorf("%w: track %d on %s", ErrTrackNotFound, track, lineRef(l))
		}
		return fields[0], nil
	})
}

// InsertSpineAfterTrack inserts a spine right of the last field of track.
func InsertSpineAfterTrack[T any](f *File, track int, data []T, opts InsertOptions) error {
	return insertSpine(f, data, opts, func(l *Line) (int, error) {
		fields := l.FieldsOfTrack(track)
		if len(fields) == 0 {
			return 0, fmt.Errorf("%w: track %d on %s", ErrTrackNotFound, track, lineRef(l))
		}
		return fields[len(fields)-1] + 1, nil
	})
}

// ConstantData returns value repeated once per line, for inserting a spine
// whose data lines all carry the same literal.
func ConstantData(f *File, value string) []string {
	out := make([]string, f.LineCount())
	for i := range out {
		out[i] = value
	}
	return out
}

// insertSpine resolves every insertion point first so a failure leaves the
// file untouched.
func insertSpine[T any](f *File, data []T, opts InsertOptions, position func(*Line) (int, error)) error {
	if len(data) != f.LineCount() {
		err := fmt.Errorf("%w: %d values for %d lines", ErrRowCount, len(data), f.LineCount())
		return f.mutationError(diag.MutRowCount, source.Span{File: f.src.ID}, err)
	}
	positions := make([]int, f.LineCount())
	for i := range f.lines.data {
		l := &f.lines.data[i]
		if !l.HasSpines() {
			continue
		}
		p, err := position(l)
		if err != nil {
			return f.mutationError(diag.MutTrackNotFound, l.span, err)
		}
		positions[i] = p
	}
	for i := range f.lines.data {
		l := &f.lines.data[i]
		if !l.HasSpines() {
			continue
		}
		l.InsertToken(positions[i], spineText(l, fmt.Sprint(data[i]), opts))
		if opts.Resync {
			l.CreateTextFromTokens()
		}
	}
	return nil
}

// spineText picks the literal for a new field by line class.
func spineText(l *Line, value string, opts InsertOptions) string {
	switch l.kind {
	case LineExclusive:
		return opts.exclusive()
	case LineTerminator:
		return TerminateText
	case LineInterpretation:
		return NullInterpretation
	case LineLocalComment:
		return NullLocalComment
	case LineBarline:
		if tok := l.Token(0); tok != nil {
			return tok.text
		}
		return "="
	}
	if value == "" || value == opts.Null {
		return NullData
	}
	return value
}
