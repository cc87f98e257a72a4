package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"

	"humdrum/internal/hum"
)

// TrackOutput summarizes one track.
type TrackOutput struct {
	Track     int    `json:"track"`
	DataType  string `json:"datatype"`
	StartLine int    `json:"start_line"`
	EndLines  []int  `json:"end_lines,omitempty"`
}

// StrandOutput is one strand with its line range.
type StrandOutput struct {
	Index     int `json:"index"`
	Track     int `json:"track"`
	StartLine int `json:"start_line"`
	EndLine   int `json:"end_line"`
}

// SpinesOutput is the root of the spines report.
type SpinesOutput struct {
	Path    string         `json:"path"`
	Valid   bool           `json:"valid"`
	Tracks  []TrackOutput  `json:"tracks"`
	Strands []StrandOutput `json:"strands,omitempty"`
}

// BuildSpinesOutput collects tracks and, when asked, strands.
func BuildSpinesOutput(f *hum.File, withStrands bool) SpinesOutput {
	out := SpinesOutput{Path: f.Path(), Valid: f.IsValid()}
	lineOf := func(id hum.TokenID) int {
		if tok := f.Token(id); tok != nil {
			return tok.LineIndex + 1
		}
		return 0
	}
	for track := 1; track <= f.MaxTrack(); track++ {
		t := TrackOutput{Track: track, StartLine: lineOf(f.TrackStart(track))}
		if tok := f.Token(f.TrackStart(track)); tok != nil {
			t.DataType = tok.Text()
		}
		for i := range f.TrackEndCount(track) {
			t.EndLines = append(t.EndLines, lineOf(f.TrackEnd(track, i)))
		}
		out.Tracks = append(out.Tracks, t)
	}
	if withStrands {
		for i, s := range f.Strands() {
			out.Strands = append(out.Strands, StrandOutput{
				Index: i, Track: s.Track, StartLine: lineOf(s.Start), EndLine: lineOf(s.End),
			})
		}
	}
	return out
}

// FormatSpinesPretty prints the track table and optional strands.
func FormatSpinesPretty(w io.Writer, f *hum.File, withStrands bool) error {
	out := BuildSpinesOutput(f, withStrands)
	if _, err := fmt.Fprintf(w, "%s: %d track(s), valid=%v\n", out.Path, len(out.Tracks), out.Valid); err != nil {
		return err
	}
	for _, t := range out.Tracks {
		if _, err := fmt.Fprintf(w, "  track %-3d %-14s lines %d..%v\n", t.Track, t.DataType, t.StartLine, t.EndLines); err != nil {
			return err
		}
	}
	for _, s := range out.Strands {
		if _, err := fmt.Fprintf(w, "  strand %-3d track %-3d lines %d..%d\n", s.Index, s.Track, s.StartLine, s.EndLine); err != nil {
			return err
		}
	}
	return nil
}

// FormatSpinesJSON writes BuildSpinesOutput as indented JSON.
func FormatSpinesJSON(w io.Writer, f *hum.File, withStrands bool) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(BuildSpinesOutput(f, withStrands))
}
