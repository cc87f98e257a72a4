package main

import (
	"github.com/spf13/cobra"

	"humdrum/internal/diagfmt"
)

var tokensCmd = &cobra.Command{
	Use:   "tokens [flags] <file.krn|->",
	Short: "Dump every token with its address and links",
	Args:  cobra.ExactArgs(1),
	RunE:  runTokens,
}

func init() {
	tokensCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	tokensCmd.Flags().Bool("grid", false, "print the file as an aligned grid of spine paths instead")
}

func runTokens(cmd *cobra.Command, args []string) error {
	grid, err := cmd.Flags().GetBool("grid")
	if err != nil {
		return err
	}
	fs, res, err := analyzeInput(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	if res.File == nil {
		_ = printDiagnostics(cmd.ErrOrStderr(), res.Bag, fs, "pretty", false)
		return failWhen(true)
	}

	out := cmd.OutOrStdout()
	switch {
	case grid:
		err = diagfmt.FormatSpineGrid(out, res.File)
	case app.cfg.Output.Format == "json":
		err = diagfmt.FormatTokensJSON(out, res.File)
	default:
		err = diagfmt.FormatTokensPretty(out, res.File)
	}
	if err != nil {
		return err
	}
	// структура могла не собраться, сообщаем об этом в stderr
	if err := printDiagnostics(cmd.ErrOrStderr(), res.Bag, fs, "pretty", false); err != nil {
		return err
	}
	return failWhen(!res.Valid())
}
