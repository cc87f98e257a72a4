package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"humdrum/internal/driver"
	"humdrum/internal/source"
	"humdrum/internal/ui"
)

type checkOutcome struct {
	fs      *source.FileSet
	results []driver.Result
	err     error
}

// runCheckWithUI analyzes files while a progress view renders events.
func runCheckWithUI(ctx context.Context, title string, files []string, opts driver.Options) (*source.FileSet, []driver.Result, error) {
	events := make(chan driver.Event, 256)
	outcomeCh := make(chan checkOutcome, 1)

	go func() {
		opts.Progress = driver.ChannelSink{Ch: events}
		fs, results, err := driver.AnalyzeFiles(ctx, files, opts)
		outcomeCh <- checkOutcome{fs: fs, results: results, err: err}
		close(events)
	}()

	program := tea.NewProgram(ui.NewProgressModel(title, files, events), tea.WithOutput(os.Stderr))
	_, uiErr := program.Run()
	// вид мог выйти раньше (ctrl+c): дочитываем события, иначе воркеры встанут
	go func() {
		for range events {
		}
	}()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.fs, outcome.results, uiErr
	}
	return outcome.fs, outcome.results, outcome.err
}
