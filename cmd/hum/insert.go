package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"humdrum/internal/hum"
)

var insertCmd = &cobra.Command{
	Use:   "insert [flags] <file.krn|->",
	Short: "Insert a data spine and print the edited file",
	Long: `Insert adds one spine to every spine line. Data lines take the given
value (or one line of --values-file per file line); other lines get the
matching null, the exclusive interpretation or a terminator.`,
	Args: cobra.ExactArgs(1),
	RunE: runInsert,
}

func init() {
	f := insertCmd.Flags()
	f.Int("before-track", 0, "insert left of this track")
	f.Int("after-track", 0, "insert right of this track")
	f.Int("at", -1, "insert before this field index")
	f.Bool("prepend", false, "insert as the first spine")
	f.Bool("append", false, "insert as the last spine")
	f.String("value", ".", "value for every data line")
	f.String("values-file", "", "file with one value per line of the input")
	f.String("null", ".", "values equal to this marker become null tokens")
	f.String("exinterp", hum.DefaultExclusive, "exclusive interpretation of the new spine")
}

func runInsert(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	before, err := flags.GetInt("before-track")
	if err != nil {
		return err
	}
	after, err := flags.GetInt("after-track")
	if err != nil {
		return err
	}
	at, err := flags.GetInt("at")
	if err != nil {
		return err
	}
	prepend, err := flags.GetBool("prepend")
	if err != nil {
		return err
	}
	appendSpine, err := flags.GetBool("append")
	if err != nil {
		return err
	}
	value, err := flags.GetString("value")
	if err != nil {
		return err
	}
	valuesFile, err := flags.GetString("values-file")
	if err != nil {
		return err
	}

	chosen := 0
	for _, set := range []bool{before > 0, after > 0, at >= 0, prepend, appendSpine} {
		if set {
			chosen++
		}
	}
	if chosen != 1 {
		return errors.New("choose exactly one of --before-track, --after-track, --at, --prepend, --append")
	}

	fs, res, err := analyzeInput(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	if res.File == nil || res.File.LastPhase() < hum.PhaseTracks {
		_ = printDiagnostics(cmd.ErrOrStderr(), res.Bag, fs, "pretty", false)
		return failWhen(true)
	}
	f := res.File

	data := hum.ConstantData(f, value)
	if valuesFile != "" {
		if data, err = readValues(valuesFile); err != nil {
			return err
		}
	}
	opts := hum.InsertOptions{
		Null:      app.cfg.Analysis.NullMarker,
		Exclusive: app.cfg.Analysis.Exclusive,
		Resync:    true,
	}

	switch {
	case before > 0:
		err = hum.InsertSpineBeforeTrack(f, before, data, opts)
	case after > 0:
		err = hum.InsertSpineAfterTrack(f, after, data, opts)
	case at >= 0:
		err = hum.InsertSpineAt(f, at, data, opts)
	case prepend:
		err = hum.PrependSpine(f, data, opts)
	default:
		err = hum.AppendSpine(f, data, opts)
	}
	if err != nil {
		_ = printDiagnostics(cmd.ErrOrStderr(), f.Diagnostics(), fs, "pretty", false)
		return err
	}
	app.log.Debug("spine inserted", "file", f.Path(), "lines", f.LineCount())

	f.SyncText()
	_, err = f.WriteTo(cmd.OutOrStdout())
	return err
}

// readValues reads one value per line; a short file is an error reported
// by the insertion itself.
func readValues(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("values file: %w", err)
	}
	defer file.Close()
	var out []string
	sc := bufio.NewScanner(file)
	for sc.Scan() {
		out = append(out, strings.TrimRight(sc.Text(), "\r"))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("values file %s: %w", path, err)
	}
	return out, nil
}
