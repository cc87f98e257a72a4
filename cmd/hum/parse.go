package main

import (
	"github.com/spf13/cobra"

	"humdrum/internal/driver"
)

var parseCmd = &cobra.Command{
	Use:   "parse [flags] <file.krn|->...",
	Short: "Analyze Humdrum files and report structural diagnostics",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runParse,
}

func init() {
	parseCmd.Flags().String("format", "pretty", "diagnostic format (pretty|json|short)")
	parseCmd.Flags().Bool("fixes", false, "show suggested fixes with a preview")
	parseCmd.Flags().Bool("warnings-as-errors", false, "exit with status 1 on warnings too")
}

func runParse(cmd *cobra.Command, args []string) error {
	fixes, err := cmd.Flags().GetBool("fixes")
	if err != nil {
		return err
	}
	strict, err := cmd.Flags().GetBool("warnings-as-errors")
	if err != nil {
		return err
	}
	format := app.cfg.Output.Format
	out := cmd.OutOrStdout()

	if len(args) == 1 {
		fs, res, err := analyzeInput(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if err := printDiagnostics(out, res.Bag, fs, format, fixes); err != nil {
			return err
		}
		return failWhen(res.Bag.HasErrors() || strict && res.Bag.HasWarnings())
	}

	opts := app.driverOptions()
	fs, results, err := driver.AnalyzeFiles(cmd.Context(), args, opts)
	if err != nil {
		return err
	}
	bag := driver.MergeDiagnostics(results, 0)
	if err := printDiagnostics(out, bag, fs, format, fixes); err != nil {
		return err
	}
	return failWhen(bag.HasErrors() || strict && bag.HasWarnings())
}
