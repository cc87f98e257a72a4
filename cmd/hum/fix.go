package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"humdrum/internal/fix"
)

var fixCmd = &cobra.Command{
	Use:   "fix [flags] <file.krn|->",
	Short: "Apply the fixes suggested by diagnostics",
	Long: `Fix analyzes a file and applies the edits attached to its diagnostics,
such as appending a missing terminator line. The result goes to stdout
unless --write is given.`,
	Args: cobra.ExactArgs(1),
	RunE: runFix,
}

func init() {
	fixCmd.Flags().Bool("all", false, "apply every fix, not only the first")
	fixCmd.Flags().String("code", "", "apply only fixes of this diagnostic code (e.g. SPN2006)")
	fixCmd.Flags().BoolP("write", "w", false, "rewrite the file in place")
}

func runFix(cmd *cobra.Command, args []string) error {
	all, err := cmd.Flags().GetBool("all")
	if err != nil {
		return err
	}
	code, err := cmd.Flags().GetString("code")
	if err != nil {
		return err
	}
	write, err := cmd.Flags().GetBool("write")
	if err != nil {
		return err
	}
	if write && args[0] == "-" {
		return errors.New("--write needs a file, not stdin")
	}

	fs, res, err := analyzeInput(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	opts := fix.ApplyOptions{Mode: fix.ApplyModeOnce}
	switch {
	case code != "":
		opts = fix.ApplyOptions{Mode: fix.ApplyModeCode, TargetCode: code}
	case all:
		opts.Mode = fix.ApplyModeAll
	}

	applied, err := fix.Apply(fs, res.Bag.Items(), opts)
	if errors.Is(err, fix.ErrNoFixes) {
		fmt.Fprintln(cmd.ErrOrStderr(), "no applicable fixes")
		return failWhen(res.Bag.HasErrors())
	}
	if err != nil {
		return err
	}
	for _, s := range applied.Skipped {
		app.log.Warn("fix skipped", "code", s.Code.ID(), "title", s.Title, "reason", s.Reason)
	}
	for _, a := range applied.Applied {
		fmt.Fprintf(cmd.ErrOrStderr(), "fixed %s: %s\n", a.Code.ID(), a.Title)
	}

	content := applied.Content[res.FileID]
	if !write {
		_, err = cmd.OutOrStdout().Write(content)
		return err
	}
	mode := os.FileMode(0o644)
	if info, err := os.Stat(res.Path); err == nil {
		mode = info.Mode()
	}
	if err := os.WriteFile(res.Path, content, mode); err != nil {
		return fmt.Errorf("write %s: %w", res.Path, err)
	}
	return nil
}
