package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"humdrum/internal/diag"
	"humdrum/internal/source"
)

type palette struct {
	err, warn, info, code, path, note, gutter, caret *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		info:   color.New(color.FgCyan, color.Bold),
		code:   color.New(color.FgMagenta),
		path:   color.New(color.Bold),
		note:   color.New(color.FgBlue, color.Bold),
		gutter: color.New(color.FgBlue),
		caret:  color.New(color.FgGreen, color.Bold),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.code, p.path, p.note, p.gutter, p.caret} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	}
	return p.info
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Ожидается, что bag уже отсортирован.
//
//	<path>:<line>:<col>: <SEV> <CODE>: <Message>
//	   N | <line text>
//	     | ^^^^
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	p := newPalette(opts.Color)
	for _, d := range bag.Items() {
		prettyOne(w, &d, fs, opts, p)
	}
	if n := bag.Dropped(); n > 0 {
		fmt.Fprintf(w, "... %d more diagnostic(s) not shown\n", n)
	}
}

func prettyOne(w io.Writer, d *diag.Diagnostic, fs *source.FileSet, opts PrettyOpts, p palette) {
	start, _ := fs.Resolve(d.Primary)
	fmt.Fprintf(w, "%s: %s %s: %s\n",
		p.path.Sprintf("%s:%d:%d", formatPath(fs, d.Primary.File, opts.PathMode), start.Line, start.Col),
		p.severity(d.Severity).Sprint(d.Severity.String()),
		p.code.Sprint(d.Code.ID()),
		d.Message)
	writeContext(w, fs, d.Primary, int(opts.Context), p)

	if opts.ShowNotes {
		for _, n := range d.Notes {
			ns, _ := fs.Resolve(n.Span)
			fmt.Fprintf(w, "  %s %s:%d:%d: %s\n", p.note.Sprint("note:"),
				formatPath(fs, n.Span.File, opts.PathMode), ns.Line, ns.Col, n.Msg)
		}
	}
	if opts.ShowFixes {
		for _, fix := range d.Fixes {
			fmt.Fprintf(w, "  %s %s\n", p.note.Sprint("fix:"), fix.Title)
			if !opts.ShowPreview {
				continue
			}
			for _, edit := range fix.Edits {
				preview, err := buildFixEditPreview(fs, edit)
				if err != nil {
					continue
				}
				for _, l := range preview.before {
					fmt.Fprintf(w, "    - %s\n", l)
				}
				for _, l := range preview.after {
					fmt.Fprintf(w, "    + %s\n", l)
				}
			}
		}
	}
}

func writeContext(w io.Writer, fs *source.FileSet, span source.Span, context int, p palette) {
	f := fs.Get(span.File)
	if f == nil || len(f.Content) == 0 {
		return
	}
	start, end := fs.Resolve(span)
	first := int(start.Line) - context
	last := int(start.Line) + context
	first = max(first, 1)
	last = min(last, f.LineCount())
	width := len(fmt.Sprint(last))

	for n := first; n <= last; n++ {
		text := f.GetLine(uint32(n)) //nolint:gosec // n is bounded by LineCount
		fmt.Fprintf(w, "%s %s\n", p.gutter.Sprintf("%*d |", width, n), text)
		if n != int(start.Line) {
			continue
		}
		col := int(start.Col) - 1
		stop := len(text)
		if end.Line == start.Line {
			stop = int(end.Col) - 1
		}
		fmt.Fprintf(w, "%s %s\n", p.gutter.Sprintf("%*s |", width, ""), p.caret.Sprint(underline(text, col, stop)))
	}
}

// underline returns padding that mirrors text[:col] (tabs kept, wide runes
// doubled) followed by carets under text[col:stop].
func underline(text string, col, stop int) string {
	col = min(max(col, 0), len(text))
	stop = min(max(stop, col), len(text))
	var sb strings.Builder
	for _, r := range text[:col] {
		if r == '\t' {
			sb.WriteByte('\t')
			continue
		}
		sb.WriteString(strings.Repeat(" ", runewidth.RuneWidth(r)))
	}
	sb.WriteString(strings.Repeat("^", max(runewidth.StringWidth(text[col:stop]), 1)))
	return sb.String()
}
