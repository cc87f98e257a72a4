package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"humdrum/internal/config"
	"humdrum/internal/logs"
	"humdrum/internal/trace"
)

func setupLogging(cmd *cobra.Command, cfg config.Config, tracer trace.Tracer) (*slog.Logger, error) {
	level, err := logs.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	journal, err := cmd.Flags().GetBool("log-journal")
	if err != nil {
		return nil, err
	}
	return logs.New(logs.Options{
		Level:   level,
		Format:  cfg.Log.Format,
		Writer:  cmd.ErrOrStderr(),
		Journal: journal,
		Tracer:  tracer,
	})
}
