package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestLevelShouldEmit(t *testing.T) {
	tests := []struct {
		level Level
		scope Scope
		want  bool
	}{
		{LevelOff, ScopeDriver, false},
		{LevelError, ScopePhase, true},
		{LevelError, ScopeLine, false},
		{LevelPhase, ScopeFile, true},
		{LevelPhase, ScopeLine, false},
		{LevelDetail, ScopeLine, true},
		{LevelDebug, Scope(9), true},
	}
	for _, tt := range tests {
		if got := tt.level.ShouldEmit(tt.scope); got != tt.want {
			t.Errorf("%s.ShouldEmit(%s) = %v, want %v", tt.level, tt.scope, got, tt.want)
		}
	}
}

func TestParseLevelAndFormat(t *testing.T) {
	if l, err := ParseLevel("DETAIL"); err != nil || l != LevelDetail {
		t.Errorf("ParseLevel(DETAIL) = %v, %v", l, err)
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Errorf("ParseLevel(loud) must fail")
	}
	if f, err := ParseFormat("chrome"); err != nil || f != FormatChrome {
		t.Errorf("ParseFormat(chrome) = %v, %v", f, err)
	}
	paths := []struct {
		path string
		want Format
	}{
		{"-", FormatText},
		{"run.ndjson", FormatNDJSON},
		{"run.json", FormatChrome},
		{"run.log", FormatText},
	}
	for _, p := range paths {
		if got := DetectFormat(p.path); got != p.want {
			t.Errorf("DetectFormat(%q) = %s, want %s", p.path, got, p.want)
		}
	}
}

func TestStreamText(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelPhase, FormatText)
	ctx := WithTracer(context.Background(), tr)

	ctx, file := Start(ctx, ScopeFile, "file:a.krn")
	_, phase := Start(ctx, ScopePhase, "phase:spines")
	Point(tr, ScopeLine, "line", "skipped at phase level", phase.ID())
	phase.WithExtra("lines", "12").End("")
	file.End("ok")
	if err := tr.Close(); err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	for _, want := range []string{"→ file:a.krn", "  → phase:spines", "← phase:spines {lines=12}", "← file:a.krn (ok)"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in\n%s", want, out)
		}
	}
	if strings.Contains(out, "skipped") {
		t.Errorf("line scope leaked at phase level:\n%s", out)
	}
}

func TestStreamChromeIsValidJSON(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelDebug, FormatChrome)
	s := Begin(tr, ScopeDriver, "analyze", 0)
	Point(tr, ScopeLine, "line 3", "", s.ID())
	s.End("")
	if err := tr.Close(); err != nil {
		t.Fatal(err)
	}

	var doc struct {
		TraceEvents []struct {
			Name string `json:"name"`
			Ph   string `json:"ph"`
		} `json:"traceEvents"`
	}
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("invalid chrome json: %v\n%s", err, buf.String())
	}
	var phases []string
	for _, ev := range doc.TraceEvents {
		phases = append(phases, ev.Ph)
	}
	if strings.Join(phases, "") != "BiE" {
		t.Errorf("phases = %v", phases)
	}
}

func TestRingWraps(t *testing.T) {
	r := NewRingTracer(3, LevelDebug)
	for i := range 5 {
		r.Emit(&Event{Kind: KindPoint, Scope: ScopeLine, Name: string(rune('a' + i))})
	}
	snap := r.Snapshot()
	if len(snap) != 3 || r.Len() != 3 {
		t.Fatalf("len = %d", len(snap))
	}
	var names string
	for _, ev := range snap {
		names += ev.Name
	}
	if names != "cde" {
		t.Errorf("snapshot order = %q, want cde", names)
	}
	for i := 1; i < len(snap); i++ {
		if snap[i].Seq <= snap[i-1].Seq {
			t.Errorf("seq not increasing: %d then %d", snap[i-1].Seq, snap[i].Seq)
		}
	}

	var buf bytes.Buffer
	if err := r.Dump(&buf, FormatNDJSON); err != nil {
		t.Fatal(err)
	}
	if n := strings.Count(buf.String(), "\n"); n != 3 {
		t.Errorf("ndjson lines = %d", n)
	}
}

func TestNewModes(t *testing.T) {
	tr, err := New(Config{Level: LevelOff})
	if err != nil || tr.Enabled() {
		t.Fatalf("off tracer: %v %v", tr, err)
	}

	tr, err = New(Config{Level: LevelError, Mode: ModeStream})
	if err != nil {
		t.Fatal(err)
	}
	if RingOf(tr) == nil {
		t.Errorf("error level must record into a ring")
	}

	var buf bytes.Buffer
	tr, err = New(Config{Level: LevelPhase, Mode: ModeBoth, Output: &buf})
	if err != nil {
		t.Fatal(err)
	}
	Begin(tr, ScopePhase, "phase:links", 0).End("")
	if err := tr.Close(); err != nil {
		t.Fatal(err)
	}
	if RingOf(tr).Len() != 2 {
		t.Errorf("ring len = %d", RingOf(tr).Len())
	}
	if !strings.Contains(buf.String(), "phase:links") {
		t.Errorf("stream output = %q", buf.String())
	}

	if _, err := New(Config{Level: LevelPhase, Mode: StorageMode(42)}); err == nil {
		t.Errorf("unknown mode must fail")
	}
}

func TestDisabledSpanIsSafe(t *testing.T) {
	ctx, s := Start(context.Background(), ScopePhase, "phase:index")
	if s.ID() != 0 || CurrentSpan(ctx).SpanID != 0 {
		t.Errorf("nop span got an id")
	}
	if d := s.End(""); d != 0 {
		t.Errorf("nop span duration = %v", d)
	}
	var nilSpan *Span
	nilSpan.WithExtra("k", "v").End("")
}

func TestHeartbeat(t *testing.T) {
	r := NewRingTracer(16, LevelPhase)
	h := StartHeartbeat(r, time.Millisecond)
	deadline := time.Now().Add(2 * time.Second)
	for r.Len() == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	h.Stop()
	h.Stop()
	if r.Len() == 0 {
		t.Fatalf("no heartbeat recorded")
	}
	if ev := r.Snapshot()[0]; ev.Kind != KindHeartbeat || !strings.HasPrefix(ev.Detail, "#") {
		t.Errorf("event = %+v", ev)
	}
	if StartHeartbeat(Nop, time.Millisecond) != nil {
		t.Errorf("heartbeat on disabled tracer")
	}
}
