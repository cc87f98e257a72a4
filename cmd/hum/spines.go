package main

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"humdrum/internal/diagfmt"
	"humdrum/internal/hum"
	"humdrum/internal/spinepath"
)

var spinesCmd = &cobra.Command{
	Use:   "spines [flags] <file.krn|->",
	Short: "Show tracks, strands and spine ancestry",
	Args:  cobra.ExactArgs(1),
	RunE:  runSpines,
}

func init() {
	spinesCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	spinesCmd.Flags().Bool("strands", false, "list strands (split-free runs of a spine)")
	spinesCmd.Flags().Bool("ancestry", false, "list every spine path with its split lineage")
}

func runSpines(cmd *cobra.Command, args []string) error {
	strands, err := cmd.Flags().GetBool("strands")
	if err != nil {
		return err
	}
	ancestry, err := cmd.Flags().GetBool("ancestry")
	if err != nil {
		return err
	}
	fs, res, err := analyzeInput(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	if res.File == nil || res.File.LastPhase() < hum.PhaseTracks {
		_ = printDiagnostics(cmd.ErrOrStderr(), res.Bag, fs, "pretty", false)
		return failWhen(true)
	}

	out := cmd.OutOrStdout()
	if app.cfg.Output.Format == "json" {
		err = diagfmt.FormatSpinesJSON(out, res.File, strands)
	} else {
		err = diagfmt.FormatSpinesPretty(out, res.File, strands)
	}
	if err != nil {
		return err
	}
	if ancestry {
		if err := writeAncestry(out, res.File); err != nil {
			return err
		}
	}
	if err := printDiagnostics(cmd.ErrOrStderr(), res.Bag, fs, "pretty", false); err != nil {
		return err
	}
	return failWhen(!res.Valid())
}

// writeAncestry prints each distinct spine path once, in first-seen order.
func writeAncestry(w io.Writer, f *hum.File) error {
	var seen []string
	f.Walk(func(_ *hum.Line, tok *hum.Token) bool {
		if tok.SpineInfo != "" && !slices.Contains(seen, tok.SpineInfo) {
			seen = append(seen, tok.SpineInfo)
		}
		return true
	})
	for _, info := range seen {
		p, err := spinepath.Parse(info)
		if err != nil {
			return err
		}
		kind := "split"
		switch {
		case p.IsMerged():
			kind = "merged"
		case p.Depth() == 0:
			kind = "root"
		}
		if _, err := fmt.Fprintf(w, "  %-20s %-6s depth %d  %s\n",
			info, kind, p.Depth(), strings.Join(p.Lineage(), " <- ")); err != nil {
			return err
		}
	}
	return nil
}
