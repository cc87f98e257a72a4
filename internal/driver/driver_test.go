package driver

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"humdrum/internal/diag"
	"humdrum/internal/hum"
	"humdrum/internal/observ"
	"humdrum/internal/source"
	"humdrum/internal/testkit"
	"humdrum/internal/trace"
)

const (
	validScore   = "**kern\t**kern\n4c\t4e\n*^\t*\n4d\t4e\t4f\n*v\t*v\t*\n*-\t*-\n"
	invalidScore = "**kern\n4c\t4d\n*-\n"
)

func writeScores(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, body := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestCollectFiles(t *testing.T) {
	dir := writeScores(t, map[string]string{
		"b.krn":         validScore,
		"a.krn":         validScore,
		"notes.txt":     "x",
		"sub/c.hmd":     validScore,
		"sub/d.KRN":     validScore,
		"sub/deep/e.sg": "x",
	})
	explicit := filepath.Join(dir, "notes.txt")

	got, err := CollectFiles([]string{dir, explicit, filepath.Join(dir, "a.krn")}, nil)
	if err != nil {
		t.Fatal(err)
	}
	var rel []string
	for _, p := range got {
		r, _ := filepath.Rel(dir, p)
		rel = append(rel, filepath.ToSlash(r))
	}
	want := []string{"a.krn", "b.krn", "sub/c.hmd", "sub/d.KRN", "notes.txt"}
	if strings.Join(rel, ",") != strings.Join(want, ",") {
		t.Errorf("CollectFiles = %v, want %v", rel, want)
	}
}

func TestAnalyzeFiles(t *testing.T) {
	dir := writeScores(t, map[string]string{
		"good.krn": validScore,
		"bad.krn":  invalidScore,
	})
	paths := []string{
		filepath.Join(dir, "good.krn"),
		filepath.Join(dir, "bad.krn"),
		filepath.Join(dir, "missing.krn"),
	}

	var (
		mu     sync.Mutex
		events []Event
	)
	sink := SinkFunc(func(ev Event) {
		mu.Lock()
		defer mu.Unlock()
		events = append(events, ev)
	})
	timer := observ.NewTimer()

	fs, results, err := AnalyzeFiles(context.Background(), paths, Options{Jobs: 2, Progress: sink, Timer: timer})
	if err != nil {
		t.Fatalf("AnalyzeFiles: %v", err)
	}
	if fs.Len() == 0 || len(results) != 3 {
		t.Fatalf("results = %d, files = %d", len(results), fs.Len())
	}

	if !results[0].Valid() || results[0].File.MaxTrack() != 2 {
		t.Errorf("good.krn: valid=%v", results[0].Valid())
	}
	if err := testkit.CheckAll(results[0].File); err != nil {
		t.Errorf("good.krn invariants:\n%v", err)
	}
	if len(results[0].Timing.Phases) != len(hum.Phases()) {
		t.Errorf("good.krn timing phases = %d", len(results[0].Timing.Phases))
	}
	if results[1].Valid() || !results[1].Bag.HasErrors() {
		t.Errorf("bad.krn must be invalid with errors")
	}
	if results[2].File != nil || results[2].Bag.Items()[0].Code != diag.IOLoadFileError {
		t.Errorf("missing.krn must carry an IO diagnostic")
	}

	s := Summarize(results)
	if s.Files != 3 || s.Valid != 1 || s.Invalid != 1 || s.Failed != 1 || s.OK() {
		t.Errorf("summary = %+v", s)
	}
	if merged := MergeDiagnostics(results, 0); merged.Len() != results[1].Bag.Len()+1 {
		t.Errorf("merged = %d", merged.Len())
	}

	final := map[string]Status{}
	for _, ev := range events {
		if ev.File != "" {
			final[ev.File] = ev.Status
		}
	}
	if final[paths[0]] != StatusDone || final[paths[1]] != StatusInvalid || final[paths[2]] != StatusError {
		t.Errorf("final statuses = %v", final)
	}
	if len(timer.Phases()) == 0 {
		t.Errorf("shared timer recorded nothing")
	}
}

func TestAnalyzeTracesPhases(t *testing.T) {
	dir := writeScores(t, map[string]string{"a.krn": validScore})
	var buf bytes.Buffer
	tr := trace.NewStreamTracer(&buf, trace.LevelPhase, trace.FormatText)
	ctx := trace.WithTracer(context.Background(), tr)

	res, err := Analyze(ctx, source.NewFileSet(), filepath.Join(dir, "a.krn"), Options{})
	if err != nil {
		t.Fatal(err)
	}
	if err := tr.Close(); err != nil {
		t.Fatal(err)
	}
	if !res.Valid() {
		t.Fatalf("diagnostics: %v", res.Bag.Items())
	}
	out := buf.String()
	for _, p := range hum.Phases() {
		if !strings.Contains(out, "→ phase:"+p.String()) {
			t.Errorf("no span for %s in\n%s", p, out)
		}
	}
}

func TestAnalyzeStopsAtFailedPhase(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("stdin", []byte("4c\n*-\n"))
	res, err := AnalyzeSource(context.Background(), fs, id, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if res.Valid() || res.File.LastPhase() != hum.PhaseIndex {
		t.Errorf("last phase = %s", res.File.LastPhase())
	}
	last := res.Timing.Phases[len(res.Timing.Phases)-1]
	if last.Name != "spines" || last.Note != "failed" {
		t.Errorf("last timing = %+v", last)
	}
}

func TestAnalyzeCanceled(t *testing.T) {
	dir := writeScores(t, map[string]string{"a.krn": validScore})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err := AnalyzeFiles(ctx, []string{filepath.Join(dir, "a.krn")}, Options{})
	if err == nil {
		t.Errorf("expected cancellation error")
	}
}
