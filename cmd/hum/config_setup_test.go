package main

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/spf13/cobra"
)

func newConfigCmd(t *testing.T) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "test"}
	f := cmd.Flags()
	f.String("config", "", "")
	f.String("color", "auto", "")
	f.String("path-mode", "auto", "")
	f.String("log-level", "", "")
	f.String("log-format", "", "")
	f.Int("max-diagnostics", 100, "")
	f.Bool("nfc", false, "")
	f.Int("jobs", 0, "")

	path := filepath.Join(t.TempDir(), "humdrum.toml")
	if err := os.WriteFile(path, []byte("[check]\njobs = 2\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := f.Set("config", path); err != nil {
		t.Fatal(err)
	}
	return cmd
}

func TestJobsFlagOverride(t *testing.T) {
	tests := []struct {
		name    string
		jobs    string
		want    int
		wantErr bool
	}{
		{"unset keeps config", "", 2, false},
		{"zero means gomaxprocs", "0", runtime.GOMAXPROCS(0), false},
		{"explicit", "5", 5, false},
		{"negative rejected", "-3", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := newConfigCmd(t)
			if tt.jobs != "" {
				if err := cmd.Flags().Set("jobs", tt.jobs); err != nil {
					t.Fatal(err)
				}
			}
			cfg, err := loadConfig(cmd)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("loadConfig accepted --jobs %s", tt.jobs)
				}
				return
			}
			if err != nil {
				t.Fatalf("loadConfig: %v", err)
			}
			if cfg.Check.Jobs != tt.want {
				t.Errorf("jobs = %d, want %d", cfg.Check.Jobs, tt.want)
			}
		})
	}
}
