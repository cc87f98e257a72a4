package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"humdrum/internal/catalog"
	"humdrum/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		info := version.Get()
		out := cmd.OutOrStdout()
		if app.cfg.Output.Format == "json" {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(struct {
				version.Info
				SQLite string `json:"sqlite_driver"`
			}{info, catalog.DriverType()})
		}
		fmt.Fprint(out, info.String())
		fmt.Fprintf(out, "sqlite: %s\n", catalog.DriverType())
		return nil
	},
}

func init() {
	versionCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}
