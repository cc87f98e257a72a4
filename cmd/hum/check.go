package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"humdrum/internal/catalog"
	"humdrum/internal/driver"
	"humdrum/internal/source"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] <path>...",
	Short: "Analyze files and directories in parallel",
	Long: `Check walks the given directories for Humdrum files, analyzes them in
parallel and prints the diagnostics followed by a summary. With a catalog
the run is recorded in SQLite; --incremental skips files whose content was
already checked clean.`,
	Args: cobra.ArbitraryArgs,
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().String("format", "pretty", "diagnostic format (pretty|json|short)")
	checkCmd.Flags().Int("jobs", 0, "max parallel files (0 = GOMAXPROCS)")
	checkCmd.Flags().String("ui", "auto", "progress view (auto|on|off)")
	checkCmd.Flags().String("catalog", "", "record the run in this SQLite catalog")
	checkCmd.Flags().Bool("incremental", false, "skip files the catalog already knows as valid")
	checkCmd.Flags().Bool("last", false, "print the last recorded run from the catalog and exit")
}

func runCheck(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	flags := cmd.Flags()
	incremental, err := flags.GetBool("incremental")
	if err != nil {
		return err
	}
	last, err := flags.GetBool("last")
	if err != nil {
		return err
	}
	uiFlag, err := flags.GetString("ui")
	if err != nil {
		return err
	}
	uiMode, err := readUIMode(uiFlag)
	if err != nil {
		return fmt.Errorf("--ui: %w", err)
	}

	var cat *catalog.Catalog
	if path := app.cfg.Check.Catalog; path != "" {
		if cat, err = catalog.Open(ctx, path); err != nil {
			return err
		}
		defer cat.Close()
		app.log.Debug("catalog opened", "path", path, "driver", catalog.DriverType())
	} else if incremental || last {
		return errors.New("--incremental and --last need a catalog (--catalog or [check] catalog)")
	}
	if last {
		return printLastRun(ctx, cmd.OutOrStdout(), cat)
	}

	if len(args) == 0 {
		args = []string{"."}
	}
	files, err := driver.CollectFiles(args, app.cfg.Check.Extensions)
	if err != nil {
		return err
	}
	if incremental {
		if files, err = skipKnownValid(ctx, cat, files); err != nil {
			return err
		}
	}
	if len(files) == 0 {
		fmt.Fprintln(cmd.ErrOrStderr(), "no files to check")
		return nil
	}

	started := time.Now()
	opts := app.driverOptions()
	var (
		fs      *source.FileSet
		results []driver.Result
	)
	if shouldUseTUI(uiMode) && len(files) > 1 {
		fs, results, err = runCheckWithUI(ctx, "hum check", files, opts)
	} else {
		fs, results, err = driver.AnalyzeFiles(ctx, files, opts)
	}
	if err != nil {
		return err
	}

	bag := driver.MergeDiagnostics(results, 0)
	out := cmd.OutOrStdout()
	if err := printDiagnostics(out, bag, fs, app.cfg.Output.Format, false); err != nil {
		return err
	}
	sum := driver.Summarize(results)
	if app.cfg.Output.Format != "json" {
		printSummary(cmd.ErrOrStderr(), sum, time.Since(started))
	}

	if cat != nil {
		run, err := cat.Record(ctx, fs, started, results)
		if err != nil {
			return err
		}
		app.log.Info("run recorded", "run", run.ID, "files", run.Files)
	}
	return failWhen(!sum.OK())
}

// skipKnownValid drops files whose normalized content matches a clean
// catalog entry.
func skipKnownValid(ctx context.Context, cat *catalog.Catalog, files []string) ([]string, error) {
	scratch := source.NewFileSet()
	kept := files[:0:0]
	for _, path := range files {
		id, err := scratch.LoadWithOptions(path, app.loadOptions())
		if err != nil {
			// ошибку загрузки покажет сам анализ
			kept = append(kept, path)
			continue
		}
		ok, err := cat.KnownValid(ctx, path, catalog.Digest(scratch.Get(id).Content))
		if err != nil {
			return nil, err
		}
		if ok {
			app.log.Debug("unchanged, skipped", "file", path)
			continue
		}
		kept = append(kept, path)
	}
	return kept, nil
}

func printSummary(w io.Writer, s driver.Summary, wall time.Duration) {
	status, c := "ok", color.New(color.FgGreen, color.Bold)
	if !s.OK() {
		status, c = "FAILED", color.New(color.FgRed, color.Bold)
	}
	if app.color {
		c.EnableColor()
		status = c.Sprint(status)
	}
	fmt.Fprintf(w, "%s: %d file(s), %d valid, %d invalid, %d failed; %d error(s), %d warning(s) in %s\n",
		status, s.Files, s.Valid, s.Invalid, s.Failed, s.Errors, s.Warnings, wall.Round(time.Millisecond))
}

func printLastRun(ctx context.Context, w io.Writer, cat *catalog.Catalog) error {
	run, err := cat.LastRun(ctx)
	if errors.Is(err, catalog.ErrNoRuns) {
		fmt.Fprintln(w, "no runs recorded")
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "run %s at %s: %d file(s), %d valid, %d invalid, %d failed\n",
		run.ID, run.Started.Local().Format(time.DateTime), run.Files, run.Valid, run.Invalid, run.Failed)

	records, err := cat.Results(ctx, run.ID)
	if err != nil {
		return err
	}
	for _, r := range records {
		state := "valid"
		if !r.Valid {
			state = "invalid@" + r.LastPhase
		}
		fmt.Fprintf(w, "  %-40s %-16s %3d error(s) %3d warning(s)\n", r.Path, state, r.Errors, r.Warnings)
	}

	counts, err := cat.DiagnosticCounts(ctx, run.ID)
	if err != nil {
		return err
	}
	for _, code := range slices.Sorted(maps.Keys(counts)) {
		fmt.Fprintf(w, "  %s x%d\n", code, counts[code])
	}
	return nil
}
