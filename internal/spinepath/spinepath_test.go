package spinepath

import (
	"slices"
	"testing"
)

func TestParseRoundTrip(t *testing.T) {
	tests := []struct {
		in     string
		track  int
		tracks []int
		depth  int
	}{
		{"1", 1, []int{1}, 0},
		{"(1)a", 1, []int{1}, 1},
		{"((12)a)b", 12, []int{12}, 2},
		{"1 2", 1, []int{1, 2}, 0},
		{"(1)a 2", 1, []int{1, 2}, 1},
		{"(3 1)b", 3, []int{3, 1}, 1},
		{"((1)a)a ((1)a)b (1)b", 1, []int{1}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			p, err := Parse(tt.in)
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			if p.String() != tt.in {
				t.Errorf("String() = %q", p.String())
			}
			if p.Track() != tt.track {
				t.Errorf("Track() = %d, want %d", p.Track(), tt.track)
			}
			if !slices.Equal(p.Tracks(), tt.tracks) {
				t.Errorf("Tracks() = %v, want %v", p.Tracks(), tt.tracks)
			}
			if p.Depth() != tt.depth {
				t.Errorf("Depth() = %d, want %d", p.Depth(), tt.depth)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	for _, in := range []string{"", "a", "(1)", "(1)c", "((1)a", "x1"} {
		if _, err := Parse(in); err == nil {
			t.Errorf("Parse(%q) should fail", in)
		}
	}
}

func TestLineage(t *testing.T) {
	got := MustParse("((1)a)b").Lineage()
	want := []string{"1", "(1)a", "((1)a)b"}
	if !slices.Equal(got, want) {
		t.Errorf("Lineage() = %q, want %q", got, want)
	}
	if got := MustParse("1 2").Lineage(); !slices.Equal(got, []string{"1 2"}) {
		t.Errorf("merged lineage = %q", got)
	}
}

func TestSplitMerge(t *testing.T) {
	root := MustParse("(2)a")
	a, b := root.Split()
	if a.String() != "((2)a)a" || b.String() != "((2)a)b" {
		t.Fatalf("Split() = %s, %s", a, b)
	}
	if got := Merge(a, b).String(); got != "(2)a" {
		t.Errorf("Merge(a, b) = %q", got)
	}
	if got := Merge(b, a).String(); got != "(2)a" {
		t.Errorf("Merge(b, a) = %q", got)
	}
	if got := Merge(a, MustParse("3")).String(); got != "((2)a)a 3" {
		t.Errorf("Merge(a, 3) = %q", got)
	}
	if got := Merge(a, b, MustParse("1")).String(); got != "((2)a)a ((2)a)b 1" {
		t.Errorf("three-way merge = %q", got)
	}
}
