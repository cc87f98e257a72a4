package trace

import (
	"io"
	"sync"
	"time"
)

// RingTracer keeps the last capacity events in memory, so a failed run
// can dump what happened right before it.
type RingTracer struct {
	mu     sync.RWMutex
	events []Event
	head   int
	full   bool
	level  Level
	start  time.Time
}

func NewRingTracer(capacity int, level Level) *RingTracer {
	if capacity <= 0 {
		capacity = DefaultRingSize
	}
	return &RingTracer{
		events: make([]Event, capacity),
		level:  level,
		start:  time.Now(),
	}
}

func (t *RingTracer) Emit(ev *Event) {
	if ev.Kind != KindHeartbeat && !t.level.ShouldEmit(ev.Scope) {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	stored := *ev
	stored.Seq = NextSeq()
	t.events[t.head] = stored
	t.head++
	if t.head == len(t.events) {
		t.head = 0
		t.full = true
	}
}

// Len is the number of stored events.
func (t *RingTracer) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.full {
		return len(t.events)
	}
	return t.head
}

// Snapshot returns stored events oldest first.
func (t *RingTracer) Snapshot() []Event {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if !t.full {
		return append([]Event(nil), t.events[:t.head]...)
	}
	out := make([]Event, 0, len(t.events))
	out = append(out, t.events[t.head:]...)
	return append(out, t.events[:t.head]...)
}

// Dump writes the snapshot to w.
func (t *RingTracer) Dump(w io.Writer, format Format) error {
	events := t.Snapshot()
	if format == FormatAuto {
		format = FormatText
	}
	if format == FormatChrome {
		if _, err := io.WriteString(w, `{"traceEvents":[`+"\n"); err != nil {
			return err
		}
	}
	for i := range events {
		if format == FormatChrome && i > 0 {
			if _, err := io.WriteString(w, ",\n"); err != nil {
				return err
			}
		}
		if _, err := w.Write(FormatEvent(&events[i], format, t.start)); err != nil {
			return err
		}
	}
	if format == FormatChrome {
		_, err := io.WriteString(w, "\n]}\n")
		return err
	}
	return nil
}

func (t *RingTracer) Flush() error  { return nil }
func (t *RingTracer) Close() error  { return nil }
func (t *RingTracer) Level() Level  { return t.level }
func (t *RingTracer) Enabled() bool { return t.level > LevelOff }
