// Package logs builds the process logger: a slog fan-out to stderr, the
// systemd journal and the active tracer.
package logs

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"strings"
	"time"

	slogmulti "github.com/samber/slog-multi"
	slogjournal "github.com/systemd/slog-journal"

	"humdrum/internal/trace"
)

type Options struct {
	Level   slog.Leveler
	Format  string    // text | json
	Writer  io.Writer // nil = os.Stderr
	Journal bool
	Tracer  trace.Tracer
}

// New returns a logger writing to every configured sink. A journal that
// cannot be opened is reported on the terminal handler and skipped.
func New(opts Options) (*slog.Logger, error) {
	if opts.Level == nil {
		opts.Level = slog.LevelWarn
	}
	w := opts.Writer
	if w == nil {
		w = os.Stderr
	}
	hopts := &slog.HandlerOptions{Level: opts.Level}

	var terminal slog.Handler
	switch strings.ToLower(opts.Format) {
	case "", "text":
		terminal = slog.NewTextHandler(w, hopts)
	case "json":
		terminal = slog.NewJSONHandler(w, hopts)
	default:
		return nil, fmt.Errorf("invalid log format %q (expected text|json)", opts.Format)
	}

	var handlers []slog.Handler
	// под systemd stderr и так уходит в журнал
	if !opts.Journal || !underSystemdService() {
		handlers = append(handlers, terminal)
	}

	if opts.Journal {
		journal, err := slogjournal.NewHandler(&slogjournal.Options{
			Level:        opts.Level,
			ReplaceGroup: toJournalKey,
			ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
				a.Key = toJournalKey(a.Key)
				return a
			},
		})
		if err != nil {
			rec := slog.NewRecord(time.Now(), slog.LevelWarn, "systemd journal unavailable", 0)
			rec.Add("error", err)
			_ = terminal.Handle(context.Background(), rec)
			if len(handlers) == 0 {
				handlers = append(handlers, terminal)
			}
		} else {
			handlers = append(handlers, journal)
		}
	}

	if opts.Tracer != nil && opts.Tracer.Enabled() {
		handlers = append(handlers, &traceHandler{tracer: opts.Tracer})
	}

	return slog.New(&Handler{Handler: slogmulti.Fanout(handlers...)}), nil
}

// ParseLevel accepts debug, info, warn(ing) and error.
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if strings.EqualFold(s, "warning") {
		s = "warn"
	}
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelWarn, fmt.Errorf("invalid log level %q (expected debug|info|warn|error)", s)
	}
	return l, nil
}

// Discard drops everything; tests and library callers use it.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func toJournalKey(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' {
			return r
		}
		return '_'
	}, strings.ToUpper(s))
}

func underSystemdService() bool {
	content, err := os.ReadFile("/proc/self/cgroup")
	if err != nil {
		return false
	}
	parts := strings.Split(strings.TrimSpace(string(content)), ":")
	if len(parts) < 3 {
		return false
	}
	return strings.HasSuffix(path.Dir(parts[2]), ".service")
}
