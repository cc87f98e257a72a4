package diag

import (
	"testing"

	"humdrum/internal/source"
)

func TestDedupReporter(t *testing.T) {
	bag := NewBag(0)
	r := NewDedupReporter(BagReporter{Bag: bag})
	sp := source.Span{File: 1, Start: 4, End: 9}

	reports := []struct {
		code Code
		span source.Span
		msg  string
	}{
		{SpnFieldCountMismatch, sp, "3 fields"},
		{SpnFieldCountMismatch, sp, "3 fields"},
		{SpnFieldCountMismatch, sp, "4 fields"},
		{LnkAlignment, sp, "3 fields"},
		{SpnFieldCountMismatch, source.Span{File: 2, Start: 4, End: 9}, "3 fields"},
	}
	for _, rep := range reports {
		ReportError(r, rep.code, rep.span, rep.msg).Emit()
	}
	if bag.Len() != 4 {
		t.Errorf("forwarded %d diagnostics, want 4", bag.Len())
	}
	if r.Suppressed() != 1 {
		t.Errorf("Suppressed() = %d, want 1", r.Suppressed())
	}

	var nilReporter *DedupReporter
	nilReporter.Report(LinEmptyLine, SevWarning, sp, "x", nil, nil)
	if nilReporter.Suppressed() != 0 {
		t.Error("nil reporter counted a repeat")
	}
}
