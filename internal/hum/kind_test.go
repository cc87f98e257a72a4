package hum

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		text string
		want Kind
	}{
		{"", KindEmpty},
		{"4c", KindData},
		{".", KindNull},
		{"=1", KindBarline},
		{"==", KindBarline},
		{"!", KindLocalComment},
		{"!!", KindGlobalComment},
		{"!! note", KindGlobalComment},
		{"!!!COM: Bach", KindReference},
		{"**kern", KindExclusive},
		{"*-", KindTerminate},
		{"*^", KindSplit},
		{"*v", KindMerge},
		{"*x", KindExchange},
		{"*+", KindAdd},
		{"*", KindInterpretation},
		{"*M4/4", KindInterpretation},
		{"*vv", KindInterpretation},
		{"..", KindData},
	}
	for _, tt := range tests {
		if got := Classify(tt.text); got != tt.want {
			t.Errorf("Classify(%q) = %s, want %s", tt.text, got, tt.want)
		}
	}
}

func TestKindPredicates(t *testing.T) {
	for _, k := range []Kind{KindExclusive, KindTerminate, KindSplit, KindMerge, KindExchange, KindAdd} {
		if !k.IsManipulator() || !k.IsInterpretation() {
			t.Errorf("%s should be a manipulator interpretation", k)
		}
	}
	if KindInterpretation.IsManipulator() {
		t.Errorf("plain interpretation is not a manipulator")
	}
	if !KindNull.IsData() || KindBarline.IsData() {
		t.Errorf("data predicate wrong")
	}
	if !KindReference.IsSpineless() || KindLocalComment.IsSpineless() {
		t.Errorf("spineless predicate wrong")
	}
}

func TestClassifyLine(t *testing.T) {
	tests := []struct {
		name   string
		fields []string
		want   LineKind
	}{
		{"blank", []string{""}, LineEmpty},
		{"global", []string{"!! hi"}, LineGlobalComment},
		{"reference", []string{"!!!OTL: x"}, LineReference},
		{"exclusive", []string{"**kern", "**dynam"}, LineExclusive},
		{"mixed exclusive", []string{"**kern", "*"}, LineInterpretation},
		{"terminator", []string{"*-", "*-"}, LineTerminator},
		{"partial terminator", []string{"*-", "*"}, LineInterpretation},
		{"interpretation", []string{"*", "*^"}, LineInterpretation},
		{"local comment", []string{"!", "! x"}, LineLocalComment},
		{"barline", []string{"=1", "=1"}, LineBarline},
		{"data", []string{"4c", "."}, LineData},
		{"tabs only", []string{"", ""}, LineData},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kinds := make([]Kind, len(tt.fields))
			for i, f := range tt.fields {
				kinds[i] = Classify(f)
			}
			if got := classifyLine(kinds); got != tt.want {
				t.Errorf("classifyLine(%q) = %s, want %s", tt.fields, got, tt.want)
			}
		})
	}
}

func TestTokenHelpers(t *testing.T) {
	f := ReadString("t.krn", "**kern\t**dynam\n.\tp\n*-\t*-\n", Options{})
	if !f.IsValid() {
		t.Fatalf("file should be valid")
	}
	ex := f.Line(0).Token(1)
	if ex.DataType() != "dynam" {
		t.Errorf("DataType = %q", ex.DataType())
	}
	null := f.Line(1).Token(0)
	if !null.IsNull() || !null.IsNullData() || null.IsNonNullData() {
		t.Errorf("null predicates wrong for %q", null.Text())
	}
	tok := f.Line(1).Token(1)
	tok.SetText("*")
	if tok.Kind() != KindInterpretation {
		t.Errorf("SetText did not reclassify: %s", tok.Kind())
	}
	if f.Line(1).Text() != ".\tp" {
		t.Errorf("SetText must not touch line text, got %q", f.Line(1).Text())
	}
}

func TestReferences(t *testing.T) {
	f := ReadString("r.krn", "!!!COM: Bach, Johann Sebastian\n!!!OTL:Chorale\n!!!flag\n**kern\n*-\n", Options{})
	refs := f.References()
	want := []Reference{
		{Line: 0, Key: "COM", Value: "Bach, Johann Sebastian"},
		{Line: 1, Key: "OTL", Value: "Chorale"},
		{Line: 2, Key: "flag", Value: ""},
	}
	if len(refs) != len(want) {
		t.Fatalf("References() = %+v", refs)
	}
	for i := range want {
		if refs[i] != want[i] {
			t.Errorf("ref %d = %+v, want %+v", i, refs[i], want[i])
		}
	}
	if _, _, ok := f.Line(3).Reference(); ok {
		t.Errorf("exclusive line is not a reference")
	}
}
