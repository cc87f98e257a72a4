package hum

import (
	"fmt"
	"io"

	"fortio.org/safecast"

	"humdrum/internal/source"
)

// Read parses and analyzes a file already registered in fs. Malformed
// content is reported through diagnostics; check IsValid.
func Read(fs *source.FileSet, id source.FileID, opts Options) (*File, error) {
	f, err := New(fs, id, opts)
	if err != nil {
		return nil, err
	}
	f.Analyze()
	return f, nil
}

// New wraps a registered source without analyzing it. Drive it with
// RunPhase or Analyze.
func New(fs *source.FileSet, id source.FileID, opts Options) (*File, error) {
	src := fs.Get(id)
	if src == nil {
		return nil, fmt.Errorf("hum: unknown file id %d", id)
	}
	return newFile(fs, src, opts), nil
}

// ReadString parses in-memory content under a virtual name.
func ReadString(name, content string, opts Options) *File {
	fs := source.NewFileSet()
	id := fs.AddVirtual(name, []byte(content))
	f := newFile(fs, fs.Get(id), opts)
	f.Analyze()
	return f
}

// ReadFrom reads all of r and parses it under a virtual name.
func ReadFrom(name string, r io.Reader, opts Options) (*File, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("hum: read %s: %w", name, err)
	}
	return ReadString(name, string(data), opts), nil
}

// ReadFile loads path into fs and parses it.
func ReadFile(fs *source.FileSet, path string, load source.LoadOptions, opts Options) (*File, error) {
	id, err := fs.LoadWithOptions(path, load)
	if err != nil {
		return nil, fmt.Errorf("hum: %w", err)
	}
	return Read(fs, id, opts)
}

// tokenize builds lines from the source on first use and splits every line
// into tokens. Earlier tokens are dropped wholesale.
func (f *File) tokenize() bool {
	if f.lines.len() == 0 {
		f.loadLines()
	}
	f.tokens = newArena[Token](f.tokens.len())
	f.trackStarts = nil
	f.trackEnds = nil
	f.strands = nil
	for i := range f.lines.data {
		l := &f.lines.data[i]
		l.tokens = nil
		l.CreateTokensFromText()
	}
	return true
}

func (f *File) loadLines() {
	texts := f.src.Lines()
	f.lines = newArena[Line](len(texts))
	for i, text := range texts {
		start := f.src.LineStart(i)
		n, err := safecast.Conv[uint32](len(text))
		if err != nil {
			n = 0
		}
		f.addLine(text, source.Span{File: f.src.ID, Start: start, End: start + n})
	}
}
