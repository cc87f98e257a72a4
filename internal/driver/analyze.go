package driver

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"humdrum/internal/diag"
	"humdrum/internal/hum"
	"humdrum/internal/observ"
	"humdrum/internal/source"
	"humdrum/internal/trace"
)

// Options configure Analyze and AnalyzeFiles.
type Options struct {
	MaxDiagnostics int
	SkipNonNull    bool
	Load           source.LoadOptions
	Jobs           int // <= 0 means GOMAXPROCS
	Extensions     []string

	Timer    *observ.Timer // shared; phases are named "path:phase"
	Progress ProgressSink
	Logger   *slog.Logger
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.New(slog.DiscardHandler)
}

// Result is the outcome for one input file.
type Result struct {
	Path    string
	FileID  source.FileID
	File    *hum.File // nil when the file could not be loaded
	Bag     *diag.Bag
	Elapsed time.Duration
	Timing  observ.Report
}

// Valid reports whether the file loaded and every phase succeeded.
func (r *Result) Valid() bool {
	return r.File != nil && r.File.IsValid()
}

// Analyze loads path into fs and runs the analysis chain on it.
func Analyze(ctx context.Context, fs *source.FileSet, path string, opts Options) (*Result, error) {
	id, err := fs.LoadWithOptions(path, opts.Load)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	res := analyzeLoaded(ctx, fs, id, path, opts)
	return &res, ctx.Err()
}

// AnalyzeSource runs the chain on a file already registered in fs,
// e.g. stdin added with AddVirtual.
func AnalyzeSource(ctx context.Context, fs *source.FileSet, id source.FileID, opts Options) (*Result, error) {
	src := fs.Get(id)
	if src == nil {
		return nil, fmt.Errorf("unknown file id %d", id)
	}
	res := analyzeLoaded(ctx, fs, id, src.Path, opts)
	return &res, ctx.Err()
}

// analyzeLoaded drives the phases one by one, so each gets its own trace
// span, timer entry and progress event.
func analyzeLoaded(ctx context.Context, fs *source.FileSet, id source.FileID, path string, opts Options) Result {
	started := time.Now()
	ctx, fileSpan := trace.Start(ctx, trace.ScopeFile, "file:"+path)
	log := opts.logger().With("file", path)

	f, err := hum.New(fs, id, hum.Options{
		MaxDiagnostics: opts.MaxDiagnostics,
		SkipNonNull:    opts.SkipNonNull,
	})
	if err != nil {
		fileSpan.End(err.Error())
		return ioFailure(path, err, opts)
	}

	timer := observ.NewTimer()
	for _, phase := range hum.Phases() {
		if ctx.Err() != nil {
			break
		}
		emit(opts.Progress, Event{File: path, Phase: phase, Status: StatusWorking})
		_, span := trace.Start(ctx, trace.ScopePhase, "phase:"+phase.String())
		idx := timer.Begin(phase.String())
		var shared int
		if opts.Timer != nil {
			shared = opts.Timer.Begin(path + ":" + phase.String())
		}

		ok := f.RunPhase(phase)

		note := ""
		if !ok {
			note = "failed"
		}
		timer.End(idx, note)
		if opts.Timer != nil {
			opts.Timer.End(shared, note)
		}
		span.WithExtra("lines", strconv.Itoa(f.LineCount())).
			WithExtra("tokens", strconv.Itoa(f.TokenCount())).
			End(note)
		if !ok {
			log.DebugContext(ctx, "analysis stopped", "phase", phase.String())
			break
		}
	}

	bag := f.Diagnostics()
	status := StatusDone
	if !f.IsValid() {
		status = StatusInvalid
	}
	elapsed := time.Since(started)
	fileSpan.WithExtra("valid", strconv.FormatBool(f.IsValid())).End("")
	emit(opts.Progress, Event{File: path, Phase: f.LastPhase(), Status: status, Elapsed: elapsed})
	log.InfoContext(ctx, "analyzed",
		"valid", f.IsValid(),
		"lines", f.LineCount(),
		"tracks", f.MaxTrack(),
		"errors", bag.CountBySeverity(diag.SevError),
		"elapsed", elapsed)

	return Result{
		Path:    path,
		FileID:  id,
		File:    f,
		Bag:     bag,
		Elapsed: elapsed,
		Timing:  timer.Report(),
	}
}

// ioFailure builds a result carrying an IO diagnostic instead of a file.
func ioFailure(path string, err error, opts Options) Result {
	bag := diag.NewBag(opts.MaxDiagnostics)
	bag.Add(diag.NewError(diag.IOLoadFileError, source.Span{}, "failed to load file: "+err.Error()))
	emit(opts.Progress, Event{File: path, Status: StatusError, Err: err})
	opts.logger().Warn("load failed", "file", path, "error", err)
	return Result{Path: path, Bag: bag}
}
