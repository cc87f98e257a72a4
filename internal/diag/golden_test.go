package diag

import (
	"testing"

	"humdrum/internal/source"
)

func TestFormatShortDiagnostics(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("testdata/sample.krn", []byte("**kern\n4c\t4d\n*-\n"))

	diags := []Diagnostic{
		{
			Severity: SevWarning,
			Code:     LinEmptyLine,
			Message:  "another",
			Primary:  source.Span{File: id, Start: 13, End: 15},
		},
		{
			Severity: SevError,
			Code:     SpnFieldCountMismatch,
			Message:  "expected 1 fields\nfound 2",
			Primary:  source.Span{File: id, Start: 7, End: 12},
			Notes: []Note{
				{Span: source.Span{File: id, Start: 0, End: 6}, Msg: "spines opened here"},
			},
		},
	}

	expected := "note SPN2002 testdata/sample.krn:1:1 spines opened here\n" +
		"error SPN2002 testdata/sample.krn:2:1 expected 1 fields found 2\n" +
		"warning LIN1003 testdata/sample.krn:3:1 another"

	if got := FormatShortDiagnostics(diags, fs, true); got != expected {
		t.Fatalf("unexpected short diagnostics:\nwant:\n%s\n\ngot:\n%s", expected, got)
	}
	if got := FormatShortDiagnostics(nil, fs, true); got != "" {
		t.Fatalf("expected empty output, got %q", got)
	}
}
