package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"humdrum/internal/version"
)

var rootCmd = &cobra.Command{
	Use:           "hum",
	Short:         "Humdrum spine structure parser and analyzer",
	Long:          `hum reads Humdrum (**kern and friends) files, builds the spine graph and reports structural problems`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setupApp(cmd)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		app.close(cmd, false)
	},
}

// exitError carries a process exit code without printing anything more.
type exitError struct{ code int }

func (e exitError) Error() string { return fmt.Sprintf("exit status %d", e.code) }

func main() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(tokensCmd)
	rootCmd.AddCommand(spinesCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(insertCmd)
	rootCmd.AddCommand(catCmd)
	rootCmd.AddCommand(fixCmd)
	rootCmd.AddCommand(snapshotCmd)
	rootCmd.AddCommand(versionCmd)

	// Глобальные флаги
	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "path to humdrum.toml (default: search upward from the working directory)")
	pf.String("color", "auto", "colorize output (auto|on|off)")
	pf.Bool("timings", false, "print phase timings to stderr")
	pf.Int("max-diagnostics", 100, "maximum number of diagnostics kept per file")
	pf.String("path-mode", "auto", "how file paths are shown (auto|absolute|relative|basename)")
	pf.Bool("nfc", false, "normalize input to Unicode NFC")

	pf.String("trace", "", "trace output file (- for stderr, .ndjson or .json pick the format)")
	pf.String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	pf.String("trace-mode", "stream", "trace storage (stream|ring|both)")
	pf.Int("trace-ring-size", 4096, "events kept in the trace ring buffer")
	pf.Duration("trace-heartbeat", 0, "emit a heartbeat event at this interval (0 = off)")

	pf.String("cpu-profile", "", "write a CPU profile to this file")
	pf.String("mem-profile", "", "write a heap profile to this file on exit")
	pf.String("runtime-trace", "", "write a Go runtime trace to this file")

	pf.String("log-level", "", "log level (debug|info|warn|error)")
	pf.String("log-format", "", "log format (text|json)")
	pf.Bool("log-journal", false, "also send logs to the systemd journal")

	err := rootCmd.ExecuteContext(context.Background())
	if err != nil {
		app.close(rootCmd, true)
		var ee exitError
		if !errors.As(err, &ee) {
			fmt.Fprintln(os.Stderr, "hum:", err)
			os.Exit(2)
		}
		os.Exit(ee.code)
	}
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
