package hum

import (
	"strconv"
	"strings"

	"humdrum/internal/diag"
	"humdrum/internal/source"
	"humdrum/internal/spinepath"
)

// spineState is the set of active spines between two spine lines.
// An empty datatype marks a slot opened by "*+" that still waits for its
// exclusive interpretation.
type spineState struct {
	datatype []string
	info     []string
}

func (s *spineState) width() int { return len(s.info) }

// analyzeSpines assigns spine paths to every token and records where tracks
// start and end.
func (f *File) analyzeSpines() bool {
	f.trackStarts = []TokenID{NoTokenID}
	f.trackEnds = [][]TokenID{nil}

	var (
		state   spineState
		started bool
		prev    *Line
	)
	for i := range f.lines.data {
		l := &f.lines.data[i]
		if !l.HasSpines() {
			continue
		}
		if state.width() == 0 {
			if !f.openSegment(l, &state, started, prev) {
				return false
			}
			started = true
			prev = l
			continue
		}
		if l.TokenCount() != state.width() {
			b := f.errorf(diag.SpnFieldCountMismatch, l.span,
				"%s has %d fields, expected %d active spines", lineRef(l), l.TokenCount(), state.width())
			if prev != nil {
				b.WithNote(prev.span, "previous spine "+lineRef(prev))
			}
			b.Emit()
			return false
		}
		for field, id := range l.tokens {
			f.Token(id).SpineInfo = state.info[field]
		}
		if !l.IsManipulator() {
			if field := state.pendingSlot(); field >= 0 {
				f.reportAddWithoutExclusive(l, field, prev)
				return false
			}
			prev = l
			continue
		}
		if !f.adjustSpines(l, &state, prev) {
			return false
		}
		prev = l
	}

	if state.width() > 0 {
		f.reportMissingTerminator(prev, state.width())
		return false
	}
	return true
}

// openSegment starts tracks on an exclusive line: the first spine line of
// the file, or the first after every spine was terminated.
func (f *File) openSegment(l *Line, state *spineState, started bool, prev *Line) bool {
	if l.kind != LineExclusive {
		msg := "data found before the first exclusive interpretation on " + lineRef(l)
		if started {
			msg = "spine line after all spines were terminated must be exclusive: " + lineRef(l)
		}
		b := f.errorf(diag.SpnDataBeforeExclusive, l.span, "%s", msg)
		if prev != nil {
			b.WithNote(prev.span, "spines terminated on "+lineRef(prev))
		}
		b.Emit()
		return false
	}
	state.datatype = state.datatype[:0]
	state.info = state.info[:0]
	for _, id := range l.tokens {
		tok := f.Token(id)
		track := f.openTrack(id)
		tok.SpineInfo = strconv.Itoa(track)
		state.datatype = append(state.datatype, tok.text)
		state.info = append(state.info, tok.SpineInfo)
	}
	return true
}

func (f *File) openTrack(start TokenID) int {
	f.trackStarts = append(f.trackStarts, start)
	f.trackEnds = append(f.trackEnds, nil)
	return len(f.trackStarts) - 1
}

func (s *spineState) pendingSlot() int {
	for i, dt := range s.datatype {
		if dt == "" {
			return i
		}
	}
	return -1
}

// adjustSpines rewrites the spine state for the line after a manipulator
// line. Fields are consumed left to right; a merge consumes its whole run
// and an exchange consumes its pair.
func (f *File) adjustSpines(l *Line, state *spineState, prev *Line) bool {
	var next spineState
	n := l.TokenCount()
	for i := 0; i < n; i++ {
		id := l.tokens[i]
		tok := f.Token(id)
		if state.datatype[i] == "" && tok.kind != KindExclusive {
			f.reportAddWithoutExclusive(l, i, prev)
			return false
		}
		switch tok.kind {
		case KindSplit:
			next.push(state.datatype[i], "("+state.info[i]+")a")
			next.push(state.datatype[i], "("+state.info[i]+")b")

		case KindMerge:
			run := 1
			for i+run < n && f.Token(l.tokens[i+run]).kind == KindMerge {
				run++
			}
			if run == 1 {
				f.warnf(diag.SpnUnexpectedManipulator, tok.span,
					"merge on field %d has no neighbouring merge and does nothing", i+1).Emit()
			}
			next.push(state.datatype[i], mergedSpineInfo(state.info[i:i+run]))
			i += run - 1

		case KindExchange:
			if i+1 >= n || f.Token(l.tokens[i+1]).kind != KindExchange {
				f.errorf(diag.SpnUnpairedExchange, tok.span,
					"exchange on field %d has no partner on %s", i+1, lineRef(l)).Emit()
				return false
			}
			next.push(state.datatype[i+1], state.info[i+1])
			next.push(state.datatype[i], state.info[i])
			i++

		case KindAdd:
			next.push(state.datatype[i], state.info[i])
			track := f.openTrack(NoTokenID)
			next.push("", strconv.Itoa(track))

		case KindTerminate:
			f.closeTrack(id, state.info[i])

		case KindExclusive:
			if state.datatype[i] != "" {
				f.errorf(diag.SpnExclusiveWithoutSlot, tok.span,
					"exclusive interpretation %q on field %d replaces active %s spine", tok.text, i+1, state.datatype[i]).
					WithNote(l.span, lineRef(l)).
					Emit()
				return false
			}
			track := trackOf(state.info[i])
			if track > 0 && track < len(f.trackStarts) {
				f.trackStarts[track] = id
			}
			next.push(tok.text, state.info[i])

		case KindInterpretation:
			next.push(state.datatype[i], state.info[i])

		default:
			f.errorf(diag.SpnUnexpectedManipulator, tok.span,
				"unexpected %s token %q on manipulator %s", tok.kind, tok.text, lineRef(l)).Emit()
			return false
		}
	}
	*state = next
	return true
}

func (s *spineState) push(datatype, info string) {
	s.datatype = append(s.datatype, datatype)
	s.info = append(s.info, info)
}

func (f *File) closeTrack(id TokenID, info string) {
	track := trackOf(info)
	if track <= 0 || track >= len(f.trackEnds) {
		return
	}
	f.trackEnds[track] = append(f.trackEnds[track], id)
}

// mergedSpineInfo combines the paths of a merge run with spinepath.Merge:
// two halves of one split collapse back to the parent path, anything else
// is space-joined. Paths that do not parse are joined as they are.
func mergedSpineInfo(infos []string) string {
	if len(infos) == 1 {
		return infos[0]
	}
	paths := make([]*spinepath.Path, len(infos))
	for i, info := range infos {
		p, err := spinepath.Parse(info)
		if err != nil {
			return strings.Join(infos, " ")
		}
		paths[i] = p
	}
	return spinepath.Merge(paths...).String()
}

// trackOf returns the first integer found in a spine path, or 0. It is the
// per-token fast path of spinepath.Path.Track.
func trackOf(info string) int {
	start := strings.IndexAny(info, "0123456789")
	if start < 0 {
		return 0
	}
	end := start
	for end < len(info) && info[end] >= '0' && info[end] <= '9' {
		end++
	}
	n, err := strconv.Atoi(info[start:end])
	if err != nil {
		return 0
	}
	return n
}

func (f *File) reportAddWithoutExclusive(l *Line, field int, prev *Line) {
	span := l.span
	if tok := l.Token(field); tok != nil {
		span = tok.span
	}
	b := f.errorf(diag.SpnAddWithoutExclusive, span,
		"field %d of %s should open the added spine with an exclusive interpretation", field+1, lineRef(l))
	if prev != nil {
		b.WithNote(prev.span, "spine added on "+lineRef(prev))
	}
	b.Emit()
}

func (f *File) reportMissingTerminator(last *Line, width int) {
	terms := strings.TrimSuffix(strings.Repeat(TerminateText+"\t", width), "\t")
	at := source.Span{File: f.src.ID}
	if last != nil {
		at = last.span
	}
	// правки применяются к контенту после нормализации CRLF, поэтому "\n"
	end := source.Span{File: at.File, Start: at.End, End: at.End}
	f.errorf(diag.SpnMissingTerminator, at, "%d spine(s) still open at end of file", width).
		WithFix("append a terminator line", diag.FixEdit{Span: end, NewText: "\n" + terms}).
		Emit()
}
