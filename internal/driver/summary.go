package driver

import (
	"time"

	"humdrum/internal/diag"
)

// Summary aggregates a multi-file run.
type Summary struct {
	Files    int
	Valid    int
	Invalid  int
	Failed   int // не загрузились
	Errors   int
	Warnings int
	Elapsed  time.Duration
}

func Summarize(results []Result) Summary {
	var s Summary
	for i := range results {
		r := &results[i]
		s.Files++
		switch {
		case r.File == nil:
			s.Failed++
		case r.File.IsValid():
			s.Valid++
		default:
			s.Invalid++
		}
		if r.Bag != nil {
			s.Errors += r.Bag.CountBySeverity(diag.SevError)
			s.Warnings += r.Bag.CountBySeverity(diag.SevWarning)
		}
		s.Elapsed += r.Elapsed
	}
	return s
}

// OK reports whether every file loaded and analyzed cleanly.
func (s Summary) OK() bool {
	return s.Invalid == 0 && s.Failed == 0
}

// MergeDiagnostics collects all bags in result order.
func MergeDiagnostics(results []Result, max int) *diag.Bag {
	out := diag.NewBag(max)
	for i := range results {
		if results[i].Bag != nil {
			out.Merge(results[i].Bag)
		}
	}
	return out
}
