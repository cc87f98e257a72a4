package main

import (
	"github.com/spf13/cobra"
)

var catCmd = &cobra.Command{
	Use:   "cat <file.krn|->",
	Short: "Print a file rebuilt from its tokens",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fs, res, err := analyzeInput(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if res.File == nil {
			_ = printDiagnostics(cmd.ErrOrStderr(), res.Bag, fs, "pretty", false)
			return failWhen(true)
		}
		res.File.SyncText()
		if _, err := res.File.WriteTo(cmd.OutOrStdout()); err != nil {
			return err
		}
		return printDiagnostics(cmd.ErrOrStderr(), res.Bag, fs, "pretty", false)
	},
}
