package fuzztests

import (
	"bytes"
	"testing"
	"time"

	"humdrum/internal/hum"
	"humdrum/internal/source"
	"humdrum/internal/testkit"
)

// analyzeTimeout guards against a stitch or non-null loop that never ends.
const analyzeTimeout = 5 * time.Second

func analyze(input []byte) *hum.File {
	fs := source.NewFileSet()
	id := fs.AddVirtual("fuzz.krn", input)
	f, err := hum.Read(fs, id, hum.Options{MaxDiagnostics: 128})
	if err != nil {
		return nil
	}
	return f
}

func FuzzAnalyze(f *testing.F) {
	addSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clip(input)
		done := make(chan *hum.File, 1)
		go func() { done <- analyze(input) }()

		var file *hum.File
		select {
		case file = <-done:
		case <-time.After(analyzeTimeout):
			t.Fatalf("analysis did not finish in %s (input %d bytes)", analyzeTimeout, len(input))
		}
		if file == nil {
			return
		}
		if file.IsValid() && file.Diagnostics().HasErrors() {
			t.Fatalf("valid file carries errors: %v", file.Diagnostics().Items())
		}
		if file.IsValid() {
			if err := testkit.CheckAll(file); err != nil {
				t.Fatalf("invariants:\n%v", err)
			}
		}
	})
}

// FuzzRoundTrip checks that an analyzed file writes back to text that
// loads into the same normalized content.
func FuzzRoundTrip(f *testing.F) {
	addSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		file := analyze(clip(input))
		// второй BOM после снятия первого снова снимется при загрузке
		if file == nil || bytes.HasPrefix(file.Source().Content, []byte{0xEF, 0xBB, 0xBF}) {
			return
		}
		var buf bytes.Buffer
		if _, err := file.WriteTo(&buf); err != nil {
			t.Fatal(err)
		}
		fs := source.NewFileSet()
		again := fs.Get(fs.AddVirtual("again.krn", buf.Bytes()))
		if want := file.Source().Content; !bytes.Equal(again.Content, want) {
			t.Fatalf("round trip:\n got %q\nwant %q", again.Content, want)
		}
	})
}
