package logs

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"humdrum/internal/trace"
)

func TestTextLogger(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(Options{Level: slog.LevelInfo, Writer: &buf})
	if err != nil {
		t.Fatal(err)
	}
	log.Debug("hidden")
	log.Info("analyzed", "file", "a.krn", "lines", 12)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("debug record leaked: %s", out)
	}
	if !strings.Contains(out, "msg=analyzed") || !strings.Contains(out, "file=a.krn") {
		t.Errorf("output = %q", out)
	}
}

func TestJSONLoggerTagsSpan(t *testing.T) {
	var buf bytes.Buffer
	tr := trace.NewRingTracer(8, trace.LevelPhase)
	log, err := New(Options{Level: slog.LevelInfo, Format: "json", Writer: &buf})
	if err != nil {
		t.Fatal(err)
	}
	ctx := trace.WithTracer(context.Background(), tr)
	ctx, span := trace.Start(ctx, trace.ScopeFile, "file:a.krn")
	log.InfoContext(ctx, "spines done")
	span.End("")

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("not json: %v: %s", err, buf.String())
	}
	if rec["msg"] != "spines done" {
		t.Errorf("msg = %v", rec["msg"])
	}
	if id, ok := rec["span"].(float64); !ok || uint64(id) != span.ID() {
		t.Errorf("span attr = %v, want %d", rec["span"], span.ID())
	}
}

func TestTraceBridge(t *testing.T) {
	tr := trace.NewRingTracer(8, trace.LevelPhase)
	log, err := New(Options{Level: slog.LevelInfo, Writer: &bytes.Buffer{}, Tracer: tr})
	if err != nil {
		t.Fatal(err)
	}
	log.WithGroup("check").With("jobs", 4).Warn("slow file", "path", "big.krn")

	events := tr.Snapshot()
	if len(events) != 1 {
		t.Fatalf("events = %+v", events)
	}
	ev := events[0]
	if ev.Name != "log" || ev.Detail != "slow file" {
		t.Errorf("event = %+v", ev)
	}
	if ev.Extra["check.jobs"] != "4" || ev.Extra["check.path"] != "big.krn" || ev.Extra["level"] != "WARN" {
		t.Errorf("extra = %v", ev.Extra)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
		ok   bool
	}{
		{"debug", slog.LevelDebug, true},
		{"INFO", slog.LevelInfo, true},
		{"warning", slog.LevelWarn, true},
		{"error", slog.LevelError, true},
		{"loud", slog.LevelWarn, false},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err == nil) != tt.ok || got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, %v", tt.in, got, err)
		}
	}
	if _, err := New(Options{Format: "xml"}); err == nil {
		t.Errorf("xml format must fail")
	}
}

func TestJournalKey(t *testing.T) {
	if got := toJournalKey("check.path-name"); got != "CHECK_PATH_NAME" {
		t.Errorf("toJournalKey = %q", got)
	}
}
