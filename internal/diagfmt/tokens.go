package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"

	"humdrum/internal/hum"
)

// TokenOutput is one token in the tokens dump.
type TokenOutput struct {
	Line          int    `json:"line"`
	Field         int    `json:"field"`
	Kind          string `json:"kind"`
	Text          string `json:"text"`
	Track         int    `json:"track,omitempty"`
	Subtrack      int    `json:"subtrack,omitempty"`
	SubtrackCount int    `json:"subtrack_count,omitempty"`
	Spine         string `json:"spine,omitempty"`
	Next          []int  `json:"next,omitempty"`
	Prev          []int  `json:"prev,omitempty"`
	NextNonNull   []int  `json:"next_non_null,omitempty"`
	PrevNonNull   []int  `json:"prev_non_null,omitempty"`
}

// BuildTokensOutput flattens a file into rows, one per token. Links are
// rendered as 1-based line numbers.
func BuildTokensOutput(f *hum.File) []TokenOutput {
	var out []TokenOutput
	lineOf := func(ids []hum.TokenID) []int {
		if len(ids) == 0 {
			return nil
		}
		res := make([]int, len(ids))
		for i, id := range ids {
			res[i] = f.Token(id).LineIndex + 1
		}
		return res
	}
	f.Walk(func(_ *hum.Line, tok *hum.Token) bool {
		out = append(out, TokenOutput{
			Line:          tok.LineIndex + 1,
			Field:         tok.Field + 1,
			Kind:          tok.Kind().String(),
			Text:          tok.Text(),
			Track:         tok.Track,
			Subtrack:      tok.Subtrack,
			SubtrackCount: tok.SubtrackCount,
			Spine:         tok.SpineInfo,
			Next:          lineOf(tok.NextTokens()),
			Prev:          lineOf(tok.PrevTokens()),
			NextNonNull:   lineOf(tok.NextNonNull()),
			PrevNonNull:   lineOf(tok.PrevNonNull()),
		})
		return true
	})
	return out
}

// FormatTokensPretty выводит токены в человекочитаемом формате
func FormatTokensPretty(w io.Writer, f *hum.File) error {
	rows := BuildTokensOutput(f)
	textWidth := 4
	for _, r := range rows {
		textWidth = max(textWidth, runewidth.StringWidth(r.Text))
	}
	textWidth = min(textWidth, 32)
	for _, r := range rows {
		track := "-"
		if r.Track > 0 {
			track = fmt.Sprint(r.Track)
			if r.Subtrack > 0 {
				track += fmt.Sprintf(".%d", r.Subtrack)
			}
		}
		text := runewidth.FillRight(runewidth.Truncate(r.Text, textWidth, "…"), textWidth)
		if _, err := fmt.Fprintf(w, "%4d:%-2d %-15s %s %-6s %s\n", r.Line, r.Field, r.Kind, text, track, r.Spine); err != nil {
			return err
		}
	}
	return nil
}

// FormatTokensJSON выводит токены в JSON формате
func FormatTokensJSON(w io.Writer, f *hum.File) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(BuildTokensOutput(f))
}

// FormatSpineGrid prints every spine line with the spine path of each field
// in place of its text, columns padded to a common width.
func FormatSpineGrid(w io.Writer, f *hum.File) error {
	var widths []int
	for i := range f.LineCount() {
		l := f.Line(i)
		if !l.HasSpines() {
			continue
		}
		for j := range l.TokenCount() {
			cw := runewidth.StringWidth(l.Token(j).SpineInfo)
			if j >= len(widths) {
				widths = append(widths, cw)
			} else {
				widths[j] = max(widths[j], cw)
			}
		}
	}
	for i := range f.LineCount() {
		l := f.Line(i)
		var sb strings.Builder
		if !l.HasSpines() {
			sb.WriteString(l.Text())
		} else {
			for j := range l.TokenCount() {
				if j > 0 {
					sb.WriteString("  ")
				}
				sb.WriteString(runewidth.FillRight(l.Token(j).SpineInfo, widths[j]))
			}
		}
		if _, err := fmt.Fprintf(w, "%4d  %s\n", i+1, strings.TrimRight(sb.String(), " ")); err != nil {
			return err
		}
	}
	return nil
}
