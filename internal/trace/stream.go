package trace

import (
	"bufio"
	"io"
	"sync"
	"time"
)

// StreamTracer writes every accepted event to w as it arrives.
type StreamTracer struct {
	mu     sync.Mutex
	out    io.Writer
	buf    *bufio.Writer
	level  Level
	format Format
	start  time.Time
	count  int
	closed bool
}

func NewStreamTracer(w io.Writer, level Level, format Format) *StreamTracer {
	if format == FormatAuto {
		format = FormatText
	}
	t := &StreamTracer{
		out:    w,
		buf:    bufio.NewWriter(w),
		level:  level,
		format: format,
		start:  time.Now(),
	}
	if format == FormatChrome {
		_, _ = t.buf.WriteString(`{"traceEvents":[` + "\n")
	}
	return t
}

func (t *StreamTracer) Emit(ev *Event) {
	if ev.Kind != KindHeartbeat && !t.level.ShouldEmit(ev.Scope) {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return
	}
	ev.Seq = NextSeq()
	if t.format == FormatChrome && t.count > 0 {
		_, _ = t.buf.WriteString(",\n")
	}
	t.count++
	// ошибки записи трейса не должны ронять анализ
	_, _ = t.buf.Write(FormatEvent(ev, t.format, t.start))
	if ev.Kind == KindHeartbeat || ev.Scope == ScopeDriver {
		_ = t.buf.Flush()
	}
}

func (t *StreamTracer) Flush() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.buf.Flush()
}

// Close terminates the chrome array, flushes and closes w when it is
// an io.Closer other than os.Stderr/os.Stdout.
func (t *StreamTracer) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return nil
	}
	t.closed = true
	if t.format == FormatChrome {
		_, _ = t.buf.WriteString("\n]}\n")
	}
	if err := t.buf.Flush(); err != nil {
		return err
	}
	if c, ok := t.out.(io.Closer); ok && !isStdStream(t.out) {
		return c.Close()
	}
	return nil
}

func (t *StreamTracer) Level() Level  { return t.level }
func (t *StreamTracer) Enabled() bool { return t.level > LevelOff }
