package source

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileSetVersioning(t *testing.T) {
	fs := NewFileSet()

	id1 := fs.Add("a.krn", []byte("**kern\n"), 0)
	id2 := fs.Add("a.krn", []byte("**kern\n*-\n"), 0)
	if id1 == id2 {
		t.Fatalf("expected distinct ids, got %d twice", id1)
	}
	latest, ok := fs.GetLatest("a.krn")
	if !ok || latest != id2 {
		t.Fatalf("GetLatest = %d,%v; want %d,true", latest, ok, id2)
	}
	if got := string(fs.Get(id1).Content); got != "**kern\n" {
		t.Errorf("old version content changed: %q", got)
	}
}

func TestAddVirtualNormalizes(t *testing.T) {
	fs := NewFileSet()
	raw := []byte{0xEF, 0xBB, 0xBF}
	raw = append(raw, []byte("**kern\r\n4c\r\n*-\r\n")...)
	id := fs.AddVirtual("stdin", raw)
	f := fs.Get(id)

	if string(f.Content) != "**kern\n4c\n*-\n" {
		t.Fatalf("content = %q", f.Content)
	}
	for _, flag := range []FileFlags{FileVirtual, FileHadBOM, FileNormalizedCRLF} {
		if f.Flags&flag == 0 {
			t.Errorf("flag %d not set (flags=%08b)", flag, f.Flags)
		}
	}
	if f.Flags&FileNoFinalNewline != 0 {
		t.Errorf("unexpected FileNoFinalNewline")
	}
}

func TestLines(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []string
	}{
		{"empty", "", nil},
		{"single terminated", "a\n", []string{"a"}},
		{"no final newline", "a\nb", []string{"a", "b"}},
		{"blank line kept", "a\n\nb\n", []string{"a", "", "b"}},
		{"tabs preserved", "4c\t4d\n", []string{"4c\t4d"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := NewFileSet()
			f := fs.Get(fs.AddVirtual("x", []byte(tt.content)))
			got := f.Lines()
			if len(got) != len(tt.want) {
				t.Fatalf("Lines() = %q, want %q", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("line %d = %q, want %q", i, got[i], tt.want[i])
				}
			}
			if f.LineCount() != len(tt.want) {
				t.Errorf("LineCount() = %d, want %d", f.LineCount(), len(tt.want))
			}
		})
	}
}

func TestResolve(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("r.krn", []byte("**kern\n4c\t4d\n"))

	start, end := fs.Resolve(Span{File: id, Start: 10, End: 12})
	if start != (LineCol{Line: 2, Col: 4}) {
		t.Errorf("start = %+v", start)
	}
	if end != (LineCol{Line: 2, Col: 6}) {
		t.Errorf("end = %+v", end)
	}

	// the newline byte belongs to the line it terminates
	nl, _ := fs.Resolve(Span{File: id, Start: 6, End: 6})
	if nl != (LineCol{Line: 1, Col: 7}) {
		t.Errorf("newline position = %+v", nl)
	}
}

func TestGetLineAndLineStart(t *testing.T) {
	fs := NewFileSet()
	f := fs.Get(fs.AddVirtual("g.krn", []byte("**kern\n4c\n*-")))

	if got := f.GetLine(2); got != "4c" {
		t.Errorf("GetLine(2) = %q", got)
	}
	if got := f.GetLine(3); got != "*-" {
		t.Errorf("GetLine(3) = %q", got)
	}
	if got := f.GetLine(9); got != "" {
		t.Errorf("GetLine(9) = %q", got)
	}
	if got := f.LineStart(2); got != 10 {
		t.Errorf("LineStart(2) = %d", got)
	}
}

func TestLoadWithNFC(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nfc.krn")
	// "e" + combining acute accent
	if err := os.WriteFile(path, []byte("**text\ne\u0301\n*-\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	fs := NewFileSet()
	id, err := fs.LoadWithOptions(path, LoadOptions{NFC: true})
	if err != nil {
		t.Fatalf("LoadWithOptions: %v", err)
	}
	f := fs.Get(id)
	if f.Flags&FileNormalizedNFC == 0 {
		t.Fatalf("expected FileNormalizedNFC flag")
	}
	if f.GetLine(2) != "\u00e9" {
		t.Errorf("line 2 = %q, want composed e-acute", f.GetLine(2))
	}

	plain, err := fs.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if fs.Get(plain).Flags&FileNormalizedNFC != 0 {
		t.Errorf("Load must not normalize by default")
	}
}

func TestFormatPath(t *testing.T) {
	f := &File{Path: "/very/long/absolute/path/to/some/nested/directory/file.krn"}
	if got := f.FormatPath("basename", ""); got != "file.krn" {
		t.Errorf("basename = %q", got)
	}
	if got := f.FormatPath("auto", ""); got != "file.krn" {
		t.Errorf("auto = %q", got)
	}
	short := &File{Path: "a.krn"}
	if got := short.FormatPath("auto", ""); got != "a.krn" {
		t.Errorf("auto short = %q", got)
	}
	if got := f.FormatPath("relative", "/very/long"); got != "absolute/path/to/some/nested/directory/file.krn" {
		t.Errorf("relative = %q", got)
	}
}
