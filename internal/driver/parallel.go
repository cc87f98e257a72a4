package driver

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"humdrum/internal/source"
	"humdrum/internal/trace"
)

// DefaultExtensions are picked up when a directory is passed and
// Options.Extensions is empty.
var DefaultExtensions = []string{".krn", ".hmd"}

// CollectFiles expands directories into their Humdrum files (recursively,
// sorted) and keeps explicit file arguments as given, in order.
func CollectFiles(paths, extensions []string) ([]string, error) {
	if len(extensions) == 0 {
		extensions = DefaultExtensions
	}
	var out []string
	seen := make(map[string]bool)
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil || !info.IsDir() {
			// несуществующий файл превратится в IO-диагностику
			add(p)
			continue
		}
		var found []string
		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && hasExtension(path, extensions) {
				found = append(found, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", p, err)
		}
		slices.Sort(found)
		for _, f := range found {
			add(f)
		}
	}
	return out, nil
}

func hasExtension(path string, extensions []string) bool {
	ext := filepath.Ext(path)
	for _, e := range extensions {
		if strings.EqualFold(e, ext) {
			return true
		}
	}
	return false
}

// AnalyzeFiles loads every path into one FileSet, then analyzes them in
// parallel. Results keep the order of paths. Load failures become IO
// diagnostics on the result, not errors; the returned error is only
// context cancellation.
func AnalyzeFiles(ctx context.Context, paths []string, opts Options) (*source.FileSet, []Result, error) {
	fileSet := source.NewFileSet()
	results := make([]Result, len(paths))
	if len(paths) == 0 {
		return fileSet, results, nil
	}

	ctx, run := trace.Start(ctx, trace.ScopeDriver, "analyze")
	defer run.End("")
	started := time.Now()

	// FileSet не потокобезопасен: всё грузим заранее, дальше только чтение
	ids := make([]source.FileID, len(paths))
	loadErrs := make([]error, len(paths))
	for i, p := range paths {
		emit(opts.Progress, Event{File: p, Status: StatusQueued})
		ids[i], loadErrs[i] = fileSet.LoadWithOptions(p, opts.Load)
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(paths)))

	for i, p := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if loadErrs[i] != nil {
				results[i] = ioFailure(p, loadErrs[i], opts)
				return nil
			}
			// индексы уникальны, мьютекс не нужен
			results[i] = analyzeLoaded(gctx, fileSet, ids[i], p, opts)
			return nil
		})
	}
	err := g.Wait()
	run.WithExtra("files", fmt.Sprint(len(paths)))
	emit(opts.Progress, Event{Status: StatusDone, Elapsed: time.Since(started)})
	return fileSet, results, err
}
