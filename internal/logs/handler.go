package logs

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"humdrum/internal/trace"
)

// Handler tags records with the innermost trace span of ctx.
type Handler struct {
	slog.Handler
}

func (h *Handler) Handle(ctx context.Context, record slog.Record) error {
	if sc := trace.CurrentSpan(ctx); sc.SpanID != 0 {
		record.AddAttrs(slog.Uint64("span", sc.SpanID))
	}
	return h.Handler.Handle(ctx, record)
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &Handler{Handler: h.Handler.WithAttrs(attrs)}
}

func (h *Handler) WithGroup(name string) slog.Handler {
	return &Handler{Handler: h.Handler.WithGroup(name)}
}

// traceHandler turns log records into trace points, so a trace file
// shows log lines between the phase spans.
type traceHandler struct {
	tracer trace.Tracer
	attrs  []slog.Attr
	group  string
}

func (h *traceHandler) Enabled(context.Context, slog.Level) bool {
	return h.tracer.Level().ShouldEmit(trace.ScopeFile)
}

func (h *traceHandler) Handle(ctx context.Context, r slog.Record) error {
	extra := make(map[string]string, len(h.attrs)+r.NumAttrs()+1)
	extra["level"] = r.Level.String()
	for _, a := range h.attrs {
		extra[a.Key] = a.Value.String()
	}
	r.Attrs(func(a slog.Attr) bool {
		key := a.Key
		if h.group != "" {
			key = h.group + "." + key
		}
		extra[key] = a.Value.String()
		return true
	})
	at := r.Time
	if at.IsZero() {
		at = time.Now()
	}
	h.tracer.Emit(&trace.Event{
		Time:     at,
		Kind:     trace.KindPoint,
		Scope:    trace.ScopeFile,
		ParentID: trace.CurrentSpan(ctx).SpanID,
		Name:     "log",
		Detail:   r.Message,
		Extra:    extra,
	})
	return nil
}

func (h *traceHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	cp := *h
	cp.attrs = append(append([]slog.Attr(nil), h.attrs...), prefixed(h.group, attrs)...)
	return &cp
}

func (h *traceHandler) WithGroup(name string) slog.Handler {
	cp := *h
	if cp.group == "" {
		cp.group = name
	} else {
		cp.group = strings.Join([]string{cp.group, name}, ".")
	}
	return &cp
}

func prefixed(group string, attrs []slog.Attr) []slog.Attr {
	if group == "" {
		return attrs
	}
	out := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		out[i] = slog.Attr{Key: group + "." + a.Key, Value: a.Value}
	}
	return out
}
