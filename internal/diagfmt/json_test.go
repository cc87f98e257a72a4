package diagfmt

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"humdrum/internal/hum"
)

func TestJSONOutput(t *testing.T) {
	bag, fs := sampleBag(t)
	var buf bytes.Buffer
	err := JSON(&buf, bag, fs, JSONOpts{
		IncludePositions: true,
		PathMode:         PathModeBasename,
		IncludeNotes:     true,
		IncludeFixes:     true,
		IncludePreviews:  true,
	})
	if err != nil {
		t.Fatal(err)
	}
	var out DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, buf.String())
	}
	if out.Count != 1 || len(out.Diagnostics) != 1 {
		t.Fatalf("count = %d", out.Count)
	}
	d := out.Diagnostics[0]
	if d.Code != "SPN2002" || d.Severity != "ERROR" || d.Location.File != "chorale.krn" {
		t.Errorf("diagnostic = %+v", d)
	}
	if d.Location.StartLine != 2 || d.Location.StartCol != 1 {
		t.Errorf("location = %+v", d.Location)
	}
	if len(d.Notes) != 1 || len(d.Fixes) != 1 {
		t.Fatalf("notes=%d fixes=%d", len(d.Notes), len(d.Fixes))
	}
	edit := d.Fixes[0].Edits[0]
	if edit.OldText != "\t4d" || len(edit.AfterLines) != 1 || edit.AfterLines[0] != "4c" {
		t.Errorf("edit = %+v", edit)
	}
}

func TestJSONMax(t *testing.T) {
	bag, fs := sampleBag(t)
	bag.Add(bag.Items()[0])
	out := BuildDiagnosticsOutput(bag, fs, JSONOpts{Max: 1})
	if out.Count != 1 || out.Dropped != 1 {
		t.Errorf("count=%d dropped=%d", out.Count, out.Dropped)
	}
	if out.Diagnostics[0].Notes != nil || out.Diagnostics[0].Fixes != nil {
		t.Errorf("notes and fixes must be omitted by default")
	}
}

func TestTokensAndSpines(t *testing.T) {
	f := hum.ReadString("s.krn", "**kern\n*^\n4c\t.\n*v\t*v\n*-\n", hum.Options{})
	if !f.IsValid() {
		t.Fatal("fixture must be valid")
	}

	rows := BuildTokensOutput(f)
	if len(rows) != 7 {
		t.Fatalf("rows = %d", len(rows))
	}
	split := rows[1]
	if split.Kind != "split" || len(split.Next) != 2 || split.Next[0] != 3 {
		t.Errorf("split row = %+v", split)
	}
	null := rows[3]
	if null.Spine != "(1)b" || null.Subtrack != 2 || len(null.PrevNonNull) != 0 {
		t.Errorf("null row = %+v", null)
	}

	var buf bytes.Buffer
	if err := FormatTokensPretty(&buf, f); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "1.2") {
		t.Errorf("pretty tokens should show track.subtrack:\n%s", buf.String())
	}

	buf.Reset()
	if err := FormatSpineGrid(&buf, f); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "(1)a  (1)b") {
		t.Errorf("grid:\n%s", buf.String())
	}

	sp := BuildSpinesOutput(f, true)
	if len(sp.Tracks) != 1 || sp.Tracks[0].DataType != "**kern" || sp.Tracks[0].EndLines[0] != 5 {
		t.Errorf("tracks = %+v", sp.Tracks)
	}
	if len(sp.Strands) != 2 {
		t.Errorf("strands = %+v", sp.Strands)
	}
}
