package diagfmt

import (
	"fmt"

	"humdrum/internal/source"
)

// PathMode specifies how file paths are displayed.
type PathMode uint8

const (
	// PathModeAuto keeps short paths and shortens long absolute ones.
	PathModeAuto PathMode = iota
	// PathModeAbsolute always uses absolute paths.
	PathModeAbsolute
	PathModeRelative
	PathModeBasename
)

var pathModeNames = map[PathMode]string{
	PathModeAuto:     "auto",
	PathModeAbsolute: "absolute",
	PathModeRelative: "relative",
	PathModeBasename: "basename",
}

func (m PathMode) String() string {
	if s, ok := pathModeNames[m]; ok {
		return s
	}
	return "auto"
}

// ParsePathMode accepts the names printed by String.
func ParsePathMode(s string) (PathMode, error) {
	for m, name := range pathModeNames {
		if name == s {
			return m, nil
		}
	}
	return PathModeAuto, fmt.Errorf("unknown path mode %q (want auto, absolute, relative or basename)", s)
}

// PrettyOpts configures pretty-printing of diagnostics.
type PrettyOpts struct {
	Color       bool
	Context     int8 // строки контекста до и после
	PathMode    PathMode
	ShowNotes   bool
	ShowFixes   bool
	ShowPreview bool
}

// JSONOpts configures JSON output of diagnostics.
type JSONOpts struct {
	IncludePositions bool // добавить line/col
	PathMode         PathMode
	Max              int // обрезка вывода, не Bag
	IncludeNotes     bool
	IncludeFixes     bool
	IncludePreviews  bool
}

func formatPath(fs *source.FileSet, id source.FileID, mode PathMode) string {
	f := fs.Get(id)
	if f == nil {
		return fmt.Sprintf("<file %d>", id)
	}
	if f.Flags&source.FileVirtual != 0 {
		return f.Path
	}
	baseDir := ""
	if mode == PathModeRelative {
		baseDir = fs.BaseDir()
	}
	return f.FormatPath(mode.String(), baseDir)
}
