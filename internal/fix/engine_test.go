package fix

import (
	"errors"
	"testing"

	"humdrum/internal/diag"
	"humdrum/internal/hum"
	"humdrum/internal/source"
)

func TestApplyAppendsTerminator(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("open.krn", []byte("**kern\t**kern\n4c\t4d\n"))
	f, err := hum.Read(fs, id, hum.Options{})
	if err != nil {
		t.Fatal(err)
	}
	res, err := Apply(fs, f.Diagnostics().Items(), ApplyOptions{Mode: ApplyModeAll})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(res.Applied) != 1 || res.Applied[0].Code != diag.SpnMissingTerminator {
		t.Fatalf("applied = %+v", res.Applied)
	}
	want := "**kern\t**kern\n4c\t4d\n*-\t*-\n"
	if got := string(res.Content[id]); got != want {
		t.Fatalf("content = %q, want %q", got, want)
	}
	fixed := hum.ReadString("fixed.krn", string(res.Content[id]), hum.Options{})
	if !fixed.IsValid() {
		t.Errorf("fixed file still invalid: %v", fixed.Diagnostics().Items())
	}
}

func TestApplySelection(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("x", []byte("abcdef"))
	mk := func(code diag.Code, start, end uint32, text string) diag.Diagnostic {
		sp := source.Span{File: id, Start: start, End: end}
		return diag.NewError(code, sp, "m").WithFix("edit", diag.FixEdit{Span: sp, NewText: text})
	}
	diags := []diag.Diagnostic{
		mk(diag.LinEmptyField, 0, 1, "A"),
		mk(diag.SpnMissingTerminator, 3, 3, "+"),
		mk(diag.LinEmptyField, 0, 2, "Z"), // overlaps the first
	}

	tests := []struct {
		name    string
		opts    ApplyOptions
		want    string
		skipped int
	}{
		{"once", ApplyOptions{Mode: ApplyModeOnce}, "Abcdef", 0},
		{"all", ApplyOptions{Mode: ApplyModeAll}, "Abc+def", 1},
		{"by code", ApplyOptions{Mode: ApplyModeCode, TargetCode: "SPN2006"}, "abc+def", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Apply(fs, diags, tt.opts)
			if err != nil {
				t.Fatal(err)
			}
			if got := string(res.Content[id]); got != tt.want {
				t.Errorf("content = %q, want %q", got, tt.want)
			}
			if len(res.Skipped) != tt.skipped {
				t.Errorf("skipped = %+v", res.Skipped)
			}
		})
	}
}

func TestApplyNothing(t *testing.T) {
	fs := source.NewFileSet()
	_, err := Apply(fs, nil, ApplyOptions{Mode: ApplyModeAll})
	if !errors.Is(err, ErrNoFixes) {
		t.Fatalf("err = %v, want ErrNoFixes", err)
	}
}

func TestSpansConflict(t *testing.T) {
	tests := []struct {
		a, b source.Span
		want bool
	}{
		{source.Span{Start: 1, End: 1}, source.Span{Start: 1, End: 1}, false},
		{source.Span{Start: 2, End: 2}, source.Span{Start: 1, End: 4}, true},
		{source.Span{Start: 1, End: 1}, source.Span{Start: 1, End: 4}, false},
		{source.Span{Start: 0, End: 2}, source.Span{Start: 1, End: 3}, true},
		{source.Span{Start: 0, End: 2}, source.Span{Start: 2, End: 3}, false},
	}
	for _, tt := range tests {
		if got := spansConflict(tt.a, tt.b); got != tt.want {
			t.Errorf("spansConflict(%v, %v) = %v", tt.a, tt.b, got)
		}
	}
}

func TestApplyKeepsCRLF(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("crlf.krn", []byte("**a\r\n4c\r\n"))
	f, err := hum.Read(fs, id, hum.Options{})
	if err != nil {
		t.Fatal(err)
	}
	res, err := Apply(fs, f.Diagnostics().Items(), ApplyOptions{Mode: ApplyModeAll})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	want := "**a\r\n4c\r\n*-\r\n"
	if got := string(res.Content[id]); got != want {
		t.Fatalf("content = %q, want %q", got, want)
	}
}
