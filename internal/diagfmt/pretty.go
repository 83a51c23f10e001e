package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"raven/internal/diag"
	"raven/internal/source"
)

type palette struct {
	err, warn, info, code, note, gutter, caret *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		info:   color.New(color.FgBlue, color.Bold),
		code:   color.New(color.Bold),
		note:   color.New(color.FgCyan),
		gutter: color.New(color.FgBlue),
		caret:  color.New(color.FgRed, color.Bold),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.code, p.note, p.gutter, p.caret} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(s diag.Severity) *color.Color {
	switch s {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
// затем контекст строки с подчёркиванием ^~~~ по Span, затем Notes с аналогичным форматом.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	pal := newPalette(opts.Color)
	for _, d := range bag.Items() {
		if hasLocation(fs, d.Primary) {
			fmt.Fprintf(w, "%s: ", location(fs, d.Primary, opts.PathMode))
		}
		fmt.Fprintf(w, "%s %s: %s\n",
			pal.severity(d.Severity).Sprint(d.Severity.String()),
			pal.code.Sprint(d.Code.ID()),
			d.Message)
		if hasLocation(fs, d.Primary) {
			writeSnippet(w, fs, d.Primary, opts, pal)
		}

		if opts.ShowNotes {
			for _, n := range d.Notes {
				if hasLocation(fs, n.Span) {
					fmt.Fprintf(w, "%s %s: %s\n", pal.note.Sprint("note:"), location(fs, n.Span, opts.PathMode), n.Msg)
				} else {
					fmt.Fprintf(w, "%s %s\n", pal.note.Sprint("note:"), n.Msg)
				}
			}
		}

		if opts.ShowFixes {
			for i, fix := range d.Fixes {
				fmt.Fprintf(w, "%s %s\n", pal.note.Sprintf("fix #%d:", i+1), fix.Title)
				for _, edit := range fix.Edits {
					writeEdit(w, fs, edit, opts)
				}
			}
		}
	}
}

func location(fs *source.FileSet, sp source.Span, mode PathMode) string {
	f := fs.Get(sp.File)
	start := f.LineCol(sp.Start)
	return fmt.Sprintf("%s:%d:%d", formatPath(fs, f, mode), start.Line, start.Col)
}

// writeSnippet печатает строку с ошибкой, Context строк вокруг и подчёркивание.
func writeSnippet(w io.Writer, fs *source.FileSet, sp source.Span, opts PrettyOpts, pal palette) {
	f := fs.Get(sp.File)
	start, end := fs.Resolve(sp)
	ctx := uint32(max(opts.Context, 0))
	first := start.Line - min(ctx, start.Line-1)
	last := start.Line + ctx
	gutterWidth := len(fmt.Sprint(last))

	for ln := first; ln <= last; ln++ {
		if ln > uint32(len(f.LineIdx))+1 {
			break
		}
		text := clip(expandTabs(f.GetLine(ln)), opts.Width)
		fmt.Fprintf(w, "%s %s\n", pal.gutter.Sprintf("%*d |", gutterWidth, ln), text)
		if ln != start.Line {
			continue
		}
		raw := f.GetLine(ln)
		col := int(start.Col) - 1
		col = min(col, len(raw))
		pad := runewidth.StringWidth(expandTabs(raw[:col]))
		width := 1
		if end.Line == start.Line && end.Col > start.Col {
			endCol := min(int(end.Col)-1, len(raw))
			width = max(runewidth.StringWidth(expandTabs(raw[col:endCol])), 1)
		} else if end.Line > start.Line {
			width = max(runewidth.StringWidth(expandTabs(raw[col:])), 1)
		}
		marker := "^" + strings.Repeat("~", width-1)
		fmt.Fprintf(w, "%s %s%s\n", pal.gutter.Sprintf("%*s |", gutterWidth, ""), strings.Repeat(" ", pad), pal.caret.Sprint(marker))
	}
}

func writeEdit(w io.Writer, fs *source.FileSet, edit diag.FixEdit, opts PrettyOpts) {
	if !hasLocation(fs, edit.Span) {
		fmt.Fprintf(w, "    edit apply=%q\n", edit.NewText)
		return
	}
	f := fs.Get(edit.Span.File)
	start, end := fs.Resolve(edit.Span)
	fmt.Fprintf(w, "    edit %s:%d:%d-%d:%d apply=%q\n",
		formatPath(fs, f, opts.PathMode), start.Line, start.Col, end.Line, end.Col, edit.NewText)
	if !opts.ShowPreview {
		return
	}
	preview, err := buildFixEditPreview(fs, edit)
	if err != nil {
		return
	}
	fmt.Fprintln(w, "    preview:")
	for _, l := range preview.before {
		fmt.Fprintf(w, "      - %s\n", l)
	}
	for _, l := range preview.after {
		fmt.Fprintf(w, "      + %s\n", l)
	}
}

func expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", "    ")
}

// clip обрезает строку по ширине терминала, 0 означает без ограничения.
func clip(s string, width uint8) string {
	if width == 0 || runewidth.StringWidth(s) <= int(width) {
		return s
	}
	return runewidth.Truncate(s, int(width), "…")
}
