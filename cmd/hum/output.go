package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"humdrum/internal/diag"
	"humdrum/internal/diagfmt"
	"humdrum/internal/driver"
	"humdrum/internal/source"
)

// printDiagnostics renders bag in the configured output format.
func printDiagnostics(w io.Writer, bag *diag.Bag, fs *source.FileSet, format string, fixes bool) error {
	if bag.Len() == 0 && format != "json" {
		return nil
	}
	switch format {
	case "json":
		return diagfmt.JSON(w, bag, fs, diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         app.pathMode,
			IncludeNotes:     true,
			IncludeFixes:     fixes,
		})
	case "short":
		_, err := io.WriteString(w, diag.FormatShortDiagnostics(bag.Items(), fs, true))
		return err
	}
	diagfmt.Pretty(w, bag, fs, diagfmt.PrettyOpts{
		Color:       app.color,
		Context:     1,
		PathMode:    app.pathMode,
		ShowNotes:   true,
		ShowFixes:   fixes,
		ShowPreview: fixes,
	})
	return nil
}

// analyzeInput reads one path ("-" is stdin) and runs the full chain.
func analyzeInput(ctx context.Context, path string) (*source.FileSet, *driver.Result, error) {
	fs := newFileSet()
	opts := app.driverOptions()
	if path != "-" {
		res, err := driver.Analyze(ctx, fs, path, opts)
		return fs, res, err
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return nil, nil, fmt.Errorf("read stdin: %w", err)
	}
	id := fs.AddVirtual("<stdin>", data)
	res, err := driver.AnalyzeSource(ctx, fs, id, opts)
	return fs, res, err
}

// failWhen turns "has errors" into exit status 1.
func failWhen(bad bool) error {
	if bad {
		return exitError{code: 1}
	}
	return nil
}
