package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"humdrum/internal/config"
)

// loadConfig reads humdrum.toml and lets explicitly set flags win.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	flags := cmd.Flags()
	path, err := flags.GetString("config")
	if err != nil {
		return config.Config{}, err
	}
	var cfg config.Config
	if path != "" {
		cfg, err = config.Load(path)
	} else {
		cfg, err = config.Discover(".")
	}
	if err != nil {
		return config.Config{}, err
	}

	overrides := []struct {
		flag string
		dst  *string
	}{
		{"color", &cfg.Output.Color},
		{"path-mode", &cfg.Output.PathMode},
		{"log-level", &cfg.Log.Level},
		{"log-format", &cfg.Log.Format},
		{"format", &cfg.Output.Format},
		{"null", &cfg.Analysis.NullMarker},
		{"exinterp", &cfg.Analysis.Exclusive},
		{"catalog", &cfg.Check.Catalog},
	}
	for _, o := range overrides {
		if f := flags.Lookup(o.flag); f != nil && f.Changed {
			*o.dst = f.Value.String()
		}
	}
	if flags.Changed("max-diagnostics") {
		if cfg.Analysis.MaxDiagnostics, err = flags.GetInt("max-diagnostics"); err != nil {
			return config.Config{}, err
		}
	}
	if flags.Changed("nfc") {
		if cfg.Analysis.NormalizeNFC, err = flags.GetBool("nfc"); err != nil {
			return config.Config{}, err
		}
	}
	if f := flags.Lookup("jobs"); f != nil && f.Changed {
		jobs, err := flags.GetInt("jobs")
		if err != nil {
			return config.Config{}, err
		}
		cfg.Check.Jobs = config.Jobs(jobs)
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("invalid options: %w", err)
	}
	return cfg, nil
}
