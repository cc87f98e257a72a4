package hum

import "testing"

func TestNonNullAcrossBranches(t *testing.T) {
	f := mustRead(t, lines(
		"**a\t**b",
		"4c\tp",
		".\t.",
		"*^\t*",
		".\t.\tf",
		"4d\t.\t.",
		"*v\t*v\t*",
		".\t.",
		"*-\t*-",
	))
	tests := []struct {
		name       string
		line, col  int
		prev, next []string
	}{
		{"null after 4c", 2, 0, []string{"4c"}, []string{"4d"}},
		{"non-null sees successor", 1, 0, nil, []string{"4d"}},
		{"merged null sees both branches", 7, 0, []string{"4d", "4c"}, nil},
		{"second track", 4, 2, []string{"p"}, nil},
		{"null after f", 5, 2, []string{"f"}, nil},
		{"4d", 5, 0, []string{"4c"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tok := f.Line(tt.line).Token(tt.col)
			if got := texts(f, tok.PrevNonNull()); !equalStrings(got, tt.prev) {
				t.Errorf("PrevNonNull = %q, want %q", got, tt.prev)
			}
			if got := texts(f, tok.NextNonNull()); !equalStrings(got, tt.next) {
				t.Errorf("NextNonNull = %q, want %q", got, tt.next)
			}
		})
	}
}

func TestNonNullNoDuplicates(t *testing.T) {
	f := mustRead(t, lines(
		"**a",
		"4c",
		"*^",
		".\t.",
		"*v\t*v",
		".",
		"*-",
	))
	tok := f.Line(5).Token(0)
	if got := texts(f, tok.PrevNonNull()); !equalStrings(got, []string{"4c"}) {
		t.Errorf("PrevNonNull = %q, want one 4c", got)
	}
}

func TestSkipNonNull(t *testing.T) {
	f := ReadString("s.krn", lines("**a", "4c", ".", "*-"), Options{SkipNonNull: true})
	if !f.IsValid() || f.LastPhase() != PhaseNonNull {
		t.Fatalf("valid=%v last=%s", f.IsValid(), f.LastPhase())
	}
	if len(f.Line(2).Token(0).PrevNonNull()) != 0 {
		t.Errorf("non-null chase should be skipped")
	}
}
