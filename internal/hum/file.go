package hum

import (
	"fmt"

	"humdrum/internal/diag"
	"humdrum/internal/source"
)

// Options tune reading and analysis.
type Options struct {
	// Reporter receives every diagnostic in addition to the File's own bag.
	Reporter diag.Reporter
	// MaxDiagnostics caps the File's bag; zero means unlimited.
	MaxDiagnostics int
	// SkipNonNull disables the non-null data chase.
	SkipNonNull bool
}

// File is a parsed Humdrum file. It owns its lines and tokens.
type File struct {
	fileSet *source.FileSet
	src     *source.File
	opts    Options

	lines  *arena[Line]
	tokens *arena[Token]

	// trackStarts[0] и trackEnds[0] не используются: треки 1-based
	trackStarts []TokenID
	trackEnds   [][]TokenID
	strands     []Strand

	bag      *diag.Bag
	reporter diag.Reporter
	valid    bool
	done     Phase
}

func newFile(fs *source.FileSet, src *source.File, opts Options) *File {
	f := &File{
		fileSet: fs,
		src:     src,
		opts:    opts,
		lines:   newArena[Line](src.LineCount()),
		tokens:  newArena[Token](src.LineCount() * 2),
		bag:     diag.NewBag(opts.MaxDiagnostics),
		valid:   true,
	}
	f.reporter = reporterFor(f.bag, opts)
	return f
}

// reporterFor fans out to the bag and the caller's reporter behind one
// dedup filter, so repeated Analyze calls report each problem once.
func reporterFor(bag *diag.Bag, opts Options) diag.Reporter {
	var r diag.Reporter = diag.BagReporter{Bag: bag}
	if opts.Reporter != nil {
		r = diag.MultiReporter{r, opts.Reporter}
	}
	return diag.NewDedupReporter(r)
}

// FileSet returns the set holding the source this file was read from.
func (f *File) FileSet() *source.FileSet { return f.fileSet }

// Source returns the source file this File was read from.
func (f *File) Source() *source.File { return f.src }

// Path is the source path, or the virtual name for in-memory input.
func (f *File) Path() string { return f.src.Path }

// IsValid reports whether every analysis phase run so far succeeded.
func (f *File) IsValid() bool { return f.valid }

// Options returns the options the File was read with.
func (f *File) Options() Options { return f.opts }

// Diagnostics returns the File's own diagnostic bag.
func (f *File) Diagnostics() *diag.Bag { return f.bag }

// LastPhase returns the last phase that completed successfully.
func (f *File) LastPhase() Phase { return f.done }

// LineCount returns the number of lines.
func (f *File) LineCount() int { return f.lines.len() }

// TokenCount counts allocated tokens, including ones orphaned by edits.
func (f *File) TokenCount() int { return f.tokens.len() }

// Line returns the line at 0-based index, or nil.
func (f *File) Line(index int) *Line {
	if index < 0 || index >= f.lines.len() {
		return nil
	}
	return &f.lines.data[index]
}

// LineByID resolves a line handle.
func (f *File) LineByID(id LineID) *Line {
	return f.lines.get(uint32(id))
}

// Token resolves a token handle; nil for NoTokenID or foreign handles.
func (f *File) Token(id TokenID) *Token {
	return f.tokens.get(uint32(id))
}

// TokenLine returns the line owning the token.
func (f *File) TokenLine(id TokenID) *Line {
	tok := f.Token(id)
	if tok == nil {
		return nil
	}
	return f.LineByID(tok.line)
}

// FieldCount returns the number of tokens on the line at index.
func (f *File) FieldCount(lineIndex int) int {
	l := f.Line(lineIndex)
	if l == nil {
		return 0
	}
	return l.TokenCount()
}

// TokenAt returns the token handle at (line, field).
func (f *File) TokenAt(lineIndex, field int) TokenID {
	l := f.Line(lineIndex)
	if l == nil {
		return NoTokenID
	}
	return l.TokenID(field)
}

// MaxTrack returns the number of tracks opened by exclusive interpretations.
func (f *File) MaxTrack() int {
	if len(f.trackStarts) == 0 {
		return 0
	}
	return len(f.trackStarts) - 1
}

// TrackStart returns the exclusive interpretation that opened track.
func (f *File) TrackStart(track int) TokenID {
	if track < 1 || track >= len(f.trackStarts) {
		return NoTokenID
	}
	return f.trackStarts[track]
}

// TrackEndCount returns how many terminators close track. It is 0 for a
// track that was merged into another track with "*v" and so ends on that
// track's terminator; the file stays valid and a TrkMissingEnd warning is
// reported.
func (f *File) TrackEndCount(track int) int {
	if track < 1 || track >= len(f.trackEnds) {
		return 0
	}
	return len(f.trackEnds[track])
}

// TrackEnd returns the i-th terminator of track.
func (f *File) TrackEnd(track, i int) TokenID {
	if track < 1 || track >= len(f.trackEnds) || i < 0 || i >= len(f.trackEnds[track]) {
		return NoTokenID
	}
	return f.trackEnds[track][i]
}

// DataTypes returns the exclusive interpretation of every track, indexed by
// track-1.
func (f *File) DataTypes() []string {
	out := make([]string, f.MaxTrack())
	for track := 1; track <= f.MaxTrack(); track++ {
		if tok := f.Token(f.trackStarts[track]); tok != nil {
			out[track-1] = tok.text
		}
	}
	return out
}

func (f *File) allocToken(tok Token) TokenID {
	return TokenID(f.tokens.allocate(tok))
}

func (f *File) addLine(text string, span source.Span) *Line {
	id := LineID(f.lines.allocate(Line{text: text, span: span, pristine: true}))
	l := f.lines.get(uint32(id))
	l.owner = f
	l.id = id
	l.index = int(id) - 1
	return l
}

// report emits a diagnostic; errors mark the file invalid.
func (f *File) report(sev diag.Severity, code diag.Code, span source.Span, msg string) *diag.ReportBuilder {
	if sev >= diag.SevError {
		f.valid = false
	}
	return diag.NewReportBuilder(f.reporter, sev, code, span, msg)
}

// mutationError reports a rejected mutation. The file structure is
// untouched, so validity is kept.
func (f *File) mutationError(code diag.Code, span source.Span, err error) error {
	diag.ReportError(f.reporter, code, span, err.Error()).Emit()
	return err
}

func (f *File) errorf(code diag.Code, span source.Span, format string, args ...any) *diag.ReportBuilder {
	return f.report(diag.SevError, code, span, fmt.Sprintf(format, args...))
}

func (f *File) warnf(code diag.Code, span source.Span, format string, args ...any) *diag.ReportBuilder {
	return f.report(diag.SevWarning, code, span, fmt.Sprintf(format, args...))
}

// lineRef renders "line N: <text>" for diagnostic messages and notes.
func lineRef(l *Line) string {
	return fmt.Sprintf("line %d: %q", l.index+1, l.text)
}
