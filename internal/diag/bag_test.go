package diag

import (
	"testing"

	"humdrum/internal/source"
)

func TestBagLimitAndDropped(t *testing.T) {
	b := NewBag(2)
	for i := 0; i < 5; i++ {
		b.Add(NewError(SpnFieldCountMismatch, source.Span{Start: uint32(i)}, "x"))
	}
	if b.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", b.Len())
	}
	if b.Dropped() != 3 {
		t.Fatalf("Dropped() = %d, want 3", b.Dropped())
	}
	if !b.HasErrors() || !b.HasWarnings() {
		t.Fatalf("expected errors (and thus warnings) to be reported")
	}
}

func TestBagSortAndDedup(t *testing.T) {
	b := NewBag(10)
	b.Add(New(SevWarning, LinEmptyLine, source.Span{Start: 5, End: 5}, "w"))
	b.Add(NewError(LnkAlignment, source.Span{Start: 5, End: 5}, "e"))
	b.Add(NewError(SpnDataBeforeExclusive, source.Span{Start: 0, End: 2}, "first"))
	b.Add(NewError(SpnDataBeforeExclusive, source.Span{Start: 0, End: 2}, "first again"))

	b.Dedup()
	if b.Len() != 3 {
		t.Fatalf("after Dedup Len() = %d, want 3", b.Len())
	}
	b.Sort()
	items := b.Items()
	if items[0].Code != SpnDataBeforeExclusive {
		t.Errorf("items[0] = %s", items[0].Code)
	}
	// same span: errors before warnings
	if items[1].Severity != SevError || items[2].Severity != SevWarning {
		t.Errorf("unexpected order: %v, %v", items[1].Severity, items[2].Severity)
	}
}

func TestReporters(t *testing.T) {
	a, c := NewBag(10), NewBag(10)
	multi := MultiReporter{BagReporter{Bag: a}, NewDedupReporter(BagReporter{Bag: c})}

	for i := 0; i < 2; i++ {
		ReportError(multi, LnkAlignment, source.Span{Start: 1, End: 2}, "cannot stitch").
			WithNote(source.Span{Start: 3, End: 4}, "line 3").
			Emit()
	}
	if a.Len() != 2 {
		t.Errorf("plain bag Len() = %d, want 2", a.Len())
	}
	if c.Len() != 1 {
		t.Errorf("dedup bag Len() = %d, want 1", c.Len())
	}
	if n := len(a.Items()[0].Notes); n != 1 {
		t.Errorf("notes = %d, want 1", n)
	}

	b := ReportWarning(BagReporter{Bag: a}, LinEmptyLine, source.Span{}, "blank")
	b.Emit()
	b.Emit()
	if a.Len() != 3 {
		t.Errorf("Emit must be idempotent, Len() = %d", a.Len())
	}
}

func TestCodeID(t *testing.T) {
	tests := map[Code]string{
		LinEmptyField:          "LIN1002",
		SpnDataBeforeExclusive: "SPN2001",
		LnkAlignment:           "LNK3002",
		IOLoadFileError:        "IO4001",
		TrkMissingEnd:          "TRK5002",
		MutRowCount:            "MUT6001",
		ObsTimings:             "OBS7001",
		UnknownCode:            "E0000",
	}
	for code, want := range tests {
		if got := code.ID(); got != want {
			t.Errorf("%d.ID() = %q, want %q", code, got, want)
		}
	}
	if Code(9999).Title() != UnknownCode.Title() {
		t.Errorf("unknown code must fall back to the unknown title")
	}
}
