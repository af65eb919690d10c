package diagfmt

import (
	"fmt"
	"go/token"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"idlint/internal/diag"
	"idlint/internal/source"
)

type palette struct {
	err, warn, info *color.Color
	code, path      *color.Color
	gutter, caret   *color.Color
	note            *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		info:   color.New(color.FgCyan, color.Bold),
		code:   color.New(color.Bold),
		path:   color.New(color.FgWhite, color.Bold),
		gutter: color.New(color.FgBlue),
		caret:  color.New(color.FgGreen, color.Bold),
		note:   color.New(color.FgCyan),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.code, p.path, p.gutter, p.caret, p.note} {
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
	default:
		return p.info
	}
}

// Pretty renders diagnostics with the offending source line and a caret
// underline:
//
//	plugins/reg.go:12:14: ERROR PLG1002: reserved word "plugin" not allowed as plugin id
//	   12 |     Describe("plugin", "1.0.0")
//	      |              ^~~~~~~~
func Pretty(w io.Writer, bag *diag.Bag, fset *token.FileSet, opts PrettyOpts) {
	if bag == nil {
		return
	}
	pal := newPalette(opts.Color)
	cache := sourceCache{}
	tab := opts.TabWidth
	if tab <= 0 {
		tab = 4
	}
	for i, d := range bag.Items() {
		if i > 0 {
			fmt.Fprintln(w)
		}
		loc, ok := source.Resolve(fset, d.Primary)
		if ok {
			fmt.Fprintf(w, "%s: ", pal.path.Sprintf("%s:%d:%d", source.FormatPath(loc.Path, opts.PathMode.String(), opts.BaseDir), loc.Start.Line, loc.Start.Col))
		}
		fmt.Fprintf(w, "%s %s: %s\n", pal.severity(d.Severity).Sprint(d.Severity.String()), pal.code.Sprint(d.Code.ID()), d.Message)
		if ok {
			writeExcerpt(w, cache, loc, pal, tab)
		}
		if !opts.ShowNotes {
			continue
		}
		for _, note := range d.Notes {
			nloc, nok := source.Resolve(fset, note.Span)
			if !nok {
				fmt.Fprintf(w, "  %s %s\n", pal.note.Sprint("note:"), note.Msg)
				continue
			}
			fmt.Fprintf(w, "  %s %s: %s\n", pal.note.Sprint("note:"),
				source.FormatPath(nloc.Path, opts.PathMode.String(), opts.BaseDir)+fmt.Sprintf(":%d:%d", nloc.Start.Line, nloc.Start.Col),
				note.Msg)
		}
	}
	if dropped := bag.Dropped(); dropped > 0 {
		fmt.Fprintf(w, "\n... %d more diagnostic(s) not shown (limit reached)\n", dropped)
	}
}

func writeExcerpt(w io.Writer, cache sourceCache, loc source.Location, pal palette, tab int) {
	text, lineStart, ok := cache.line(loc.Path, int(loc.StartOffset))
	if !ok {
		return
	}
	col := int(loc.StartOffset) - lineStart
	if col > len(text) {
		col = len(text)
	}
	end := len(text)
	if loc.End.Line == loc.Start.Line {
		end = min(int(loc.EndOffset)-lineStart, len(text))
	}
	if end < col {
		end = col
	}

	expand := func(s string) string { return strings.ReplaceAll(s, "\t", strings.Repeat(" ", tab)) }
	pad := runewidth.StringWidth(expand(text[:col]))
	width := max(runewidth.StringWidth(expand(text[col:end])), 1)

	lineNo := fmt.Sprintf("%d", loc.Start.Line)
	gutter := strings.Repeat(" ", len(lineNo))
	fmt.Fprintf(w, " %s %s %s\n", pal.gutter.Sprint(lineNo), pal.gutter.Sprint("|"), expand(text))
	fmt.Fprintf(w, " %s %s %s%s\n", gutter, pal.gutter.Sprint("|"), strings.Repeat(" ", pad),
		pal.caret.Sprint("^"+strings.Repeat("~", width-1)))
}
