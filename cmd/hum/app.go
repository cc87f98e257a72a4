package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"humdrum/internal/config"
	"humdrum/internal/diagfmt"
	"humdrum/internal/driver"
	"humdrum/internal/logs"
	"humdrum/internal/observ"
	"humdrum/internal/prof"
	"humdrum/internal/source"
	"humdrum/internal/trace"
)

// appState is built once per invocation in PersistentPreRunE.
type appState struct {
	cfg      config.Config
	log      *slog.Logger
	tracer   trace.Tracer
	cleanup  func(failed bool)
	color    bool
	pathMode diagfmt.PathMode
	timer    *observ.Timer
	timings  bool
	profile  *prof.Session
	closed   bool
}

var app = &appState{
	cfg:    config.Default(),
	log:    logs.Discard(),
	tracer: trace.Nop,
}

func setupApp(cmd *cobra.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	app.cfg = cfg

	colorMode, err := readUIMode(cfg.Output.Color)
	if err != nil {
		return fmt.Errorf("--color: %w", err)
	}
	app.color = shouldUseTUI(colorMode)
	if app.pathMode, err = diagfmt.ParsePathMode(cfg.Output.PathMode); err != nil {
		return err
	}
	if app.timings, err = cmd.Flags().GetBool("timings"); err != nil {
		return err
	}
	app.timer = observ.NewTimer()
	if app.profile, err = startProfiling(cmd); err != nil {
		return err
	}

	tracer, cleanup, err := setupTracing(cmd)
	if err != nil {
		return err
	}
	app.tracer, app.cleanup = tracer, cleanup

	log, err := setupLogging(cmd, cfg, tracer)
	if err != nil {
		return err
	}
	app.log = log
	if cfg.Path != "" {
		log.Debug("config loaded", "path", cfg.Path)
	}
	return nil
}

// close flushes tracing and prints timings. Safe to call twice.
func (a *appState) close(cmd *cobra.Command, failed bool) {
	if a.closed {
		return
	}
	a.closed = true
	if a.timings && a.timer != nil && len(a.timer.Phases()) > 0 {
		fmt.Fprint(cmd.ErrOrStderr(), a.timer.Summary())
	}
	if err := a.profile.Stop(); err != nil {
		a.log.Error("profiling", "err", err)
	}
	if a.cleanup != nil {
		a.cleanup(failed)
	}
}

func startProfiling(cmd *cobra.Command) (*prof.Session, error) {
	var opts prof.Options
	for _, f := range []struct {
		flag string
		dst  *string
	}{
		{"cpu-profile", &opts.CPU},
		{"mem-profile", &opts.Mem},
		{"runtime-trace", &opts.Trace},
	} {
		v, err := cmd.Flags().GetString(f.flag)
		if err != nil {
			return nil, err
		}
		*f.dst = v
	}
	if !opts.Enabled() {
		return nil, nil
	}
	return prof.Start(opts)
}

func (a *appState) driverOptions() driver.Options {
	return driver.Options{
		MaxDiagnostics: a.cfg.Analysis.MaxDiagnostics,
		SkipNonNull:    !a.cfg.Analysis.NonNull,
		Load:           a.loadOptions(),
		Jobs:           a.cfg.Check.Jobs,
		Extensions:     a.cfg.Check.Extensions,
		Timer:          a.timer,
		Logger:         a.log,
	}
}

func (a *appState) loadOptions() source.LoadOptions {
	return source.LoadOptions{NFC: a.cfg.Analysis.NormalizeNFC}
}

// newFileSet renders relative paths against the working directory.
func newFileSet() *source.FileSet {
	wd, err := os.Getwd()
	if err != nil {
		return source.NewFileSet()
	}
	return source.NewFileSetWithBase(wd)
}
