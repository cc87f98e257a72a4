package hum

import (
	"strings"
	"testing"

	"humdrum/internal/diag"
)

func mustRead(t *testing.T, content string) *File {
	t.Helper()
	f := ReadString("test.krn", content, Options{})
	if !f.IsValid() {
		t.Fatalf("expected valid file, got diagnostics:\n%s", dump(f))
	}
	return f
}

func dump(f *File) string {
	return diag.FormatShortDiagnostics(f.Diagnostics().Items(), f.FileSet(), true)
}

func hasCode(f *File, code diag.Code) bool {
	for _, d := range f.Diagnostics().Items() {
		if d.Code == code {
			return true
		}
	}
	return false
}

func texts(f *File, ids []TokenID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = f.Token(id).Text()
	}
	return out
}

func lines(s ...string) string {
	return strings.Join(s, "\n") + "\n"
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
