package hum

import (
	"strings"
	"testing"

	"humdrum/internal/diag"
)

func TestLinkCardinality(t *testing.T) {
	f := mustRead(t, lines(
		"**a\t**b",
		"*^\t*",
		"1\t2\t3",
		"*\t*x\t*x",
		"4\t5\t6",
		"*v\t*v\t*",
		"=1\t=1",
		"*-\t*-",
	))
	f.Walk(func(l *Line, tok *Token) bool {
		if !l.HasSpines() {
			return true
		}
		switch {
		case tok.IsSplit():
			if tok.NextCount() != 2 {
				t.Errorf("split on line %d has %d links", l.Index()+1, tok.NextCount())
			}
		case tok.IsTerminator():
			if tok.NextCount() != 0 {
				t.Errorf("terminator on line %d links forward", l.Index()+1)
			}
		case tok.IsExclusive():
			if tok.PrevCount() != 0 {
				t.Errorf("exclusive on line %d has predecessors", l.Index()+1)
			}
			fallthrough
		default:
			if tok.NextCount() != 1 {
				t.Errorf("%q on line %d has %d links", tok.Text(), l.Index()+1, tok.NextCount())
			}
		}
		return true
	})

	// exchange swaps (1)b and 2
	row := f.Line(4)
	if row.Token(1).Track != 2 || row.Token(2).SpineInfo != "(1)b" {
		t.Errorf("after exchange: %q %q", row.Token(1).SpineInfo, row.Token(2).SpineInfo)
	}
	// *v *v now merges (1)a and 2: different tracks, plain join
	if got := f.Line(6).Token(0).SpineInfo; got != "(1)a 2" {
		t.Errorf("merged info = %q", got)
	}
}

func TestStitchAlignmentIsReported(t *testing.T) {
	f := ReadString("x.krn", lines("**a", "*^", "1"), Options{})
	if f.IsValid() {
		t.Fatalf("expected invalid")
	}
	before := f.Diagnostics().Len()
	if got := f.stitch(f.Line(1), f.Line(2)); got != stitchMisaligned {
		t.Fatalf("stitch = %d, want misaligned", got)
	}
	items := f.Diagnostics().Items()[before:]
	if len(items) != 1 || items[0].Code != diag.LnkAlignment {
		t.Fatalf("diagnostics = %+v", items)
	}
	msg := items[0].Message
	if !strings.Contains(msg, "line 2") || !strings.Contains(msg, "line 3") || !strings.Contains(msg, `"*^"`) {
		t.Errorf("message should name both lines and their text: %s", msg)
	}
}

func TestStitchLengthMismatchIsFatal(t *testing.T) {
	f := ReadString("x.krn", lines("**a\t**b", "1\t2", "3", "*-"), Options{})
	if got := f.stitch(f.Line(1), f.Line(2)); got != stitchFatal {
		t.Fatalf("stitch = %d, want fatal", got)
	}
	if !hasCode(f, diag.LnkLengthMismatch) {
		t.Errorf("missing %s", diag.LnkLengthMismatch.ID())
	}
}

func TestSpinelessLinesAreNotLinked(t *testing.T) {
	f := mustRead(t, lines(
		"!!!COM: Anonymous",
		"**a",
		"!! between",
		"1",
		"*-",
		"!!!ENC: test",
	))
	for _, i := range []int{0, 2, 5} {
		tok := f.Line(i).Token(0)
		if tok.NextCount()+tok.PrevCount() != 0 || tok.Track != 0 {
			t.Errorf("line %d: spineless token has links or track", i+1)
		}
	}
	if f.Line(1).Token(0).Next(0) != f.Line(3).TokenID(0) {
		t.Errorf("global comment must be skipped when stitching")
	}
	if f.Line(0).Kind() != LineReference || f.Line(2).Kind() != LineGlobalComment {
		t.Errorf("kinds = %s, %s", f.Line(0).Kind(), f.Line(2).Kind())
	}
}
