package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"humdrum/internal/trace"
)

// setupTracing reads the trace flags, attaches the tracer to the command
// context and returns a cleanup that dumps the ring buffer when the run
// failed.
func setupTracing(cmd *cobra.Command) (trace.Tracer, func(failed bool), error) {
	flags := cmd.Flags()
	output, err := flags.GetString("trace")
	if err != nil {
		return nil, nil, err
	}
	levelStr, err := flags.GetString("trace-level")
	if err != nil {
		return nil, nil, err
	}
	modeStr, err := flags.GetString("trace-mode")
	if err != nil {
		return nil, nil, err
	}
	ringSize, err := flags.GetInt("trace-ring-size")
	if err != nil {
		return nil, nil, err
	}
	heartbeatEvery, err := flags.GetDuration("trace-heartbeat")
	if err != nil {
		return nil, nil, err
	}

	level, err := trace.ParseLevel(levelStr)
	if err != nil {
		return nil, nil, err
	}
	// --trace без уровня означает phase
	if level == trace.LevelOff && output != "" {
		level = trace.LevelPhase
	}
	if level == trace.LevelOff {
		cmd.SetContext(trace.WithTracer(cmd.Context(), trace.Nop))
		return trace.Nop, func(bool) {}, nil
	}
	mode, err := trace.ParseMode(modeStr)
	if err != nil {
		return nil, nil, err
	}

	tracer, err := trace.New(trace.Config{
		Level:      level,
		Mode:       mode,
		OutputPath: output,
		RingSize:   ringSize,
		Heartbeat:  heartbeatEvery,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create tracer: %w", err)
	}

	ctx := trace.WithTracer(cmd.Context(), tracer)
	ctx, run := trace.Start(ctx, trace.ScopeDriver, "hum "+cmd.Name())
	cmd.SetContext(ctx)
	heartbeat := trace.StartHeartbeat(tracer, heartbeatEvery)

	cleanup := func(failed bool) {
		heartbeat.Stop()
		detail := "ok"
		if failed {
			detail = "failed"
		}
		run.End(detail)
		if ring := trace.RingOf(tracer); ring != nil && failed {
			fmt.Fprintf(os.Stderr, "trace: last %d events\n", ring.Len())
			if err := ring.Dump(os.Stderr, trace.FormatText); err != nil {
				fmt.Fprintf(os.Stderr, "trace: dump error: %v\n", err)
			}
		}
		if err := tracer.Flush(); err != nil {
			fmt.Fprintf(os.Stderr, "trace: flush error: %v\n", err)
		}
		if err := tracer.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "trace: close error: %v\n", err)
		}
	}
	return tracer, cleanup, nil
}
