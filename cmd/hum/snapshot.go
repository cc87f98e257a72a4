package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"humdrum/internal/hum"
	"humdrum/internal/snapshot"
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot [flags] <file.krn|->",
	Short: "Save or verify a compressed snapshot of the analyzed graph",
	Long: `Snapshot stores the text, tokens, links and tracks of an analyzed file
as xz-compressed msgpack. With --load the snapshot is re-analyzed and the
graph compared with the stored one.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSnapshot,
}

func init() {
	snapshotCmd.Flags().StringP("output", "o", "", "write the snapshot to this file")
	snapshotCmd.Flags().String("load", "", "read a snapshot and verify it")
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	output, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}
	load, err := cmd.Flags().GetString("load")
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if load != "" {
		snap, err := snapshot.ReadFile(load)
		if err != nil {
			return err
		}
		if _, err := snap.Restore(hum.Options{MaxDiagnostics: app.cfg.Analysis.MaxDiagnostics}); err != nil {
			return err
		}
		fmt.Fprintf(out, "%s: %s ok (%d lines, %d tokens, %d tracks, digest %s)\n",
			load, snap.Path, len(snap.Lines), len(snap.Tokens), len(snap.Tracks), snap.Digest)
		return nil
	}

	if len(args) != 1 || output == "" {
		return errors.New("usage: hum snapshot <file> -o <out> | hum snapshot --load <snap>")
	}
	fs, res, err := analyzeInput(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	if res.File == nil {
		_ = printDiagnostics(cmd.ErrOrStderr(), res.Bag, fs, "pretty", false)
		return failWhen(true)
	}
	snap := snapshot.Capture(res.File)
	if err := snapshot.WriteFile(output, snap); err != nil {
		return err
	}
	app.log.Info("snapshot written", "file", res.Path, "out", output, "digest", snap.Digest.String())
	return nil
}
