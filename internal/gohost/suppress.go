package gohost

import (
	"go/ast"
	"go/token"

	"idlint/internal/annot"
	"idlint/internal/diag"
	"idlint/internal/source"
)

type lineKey struct {
	file string
	line int
}

// ignore is one //idlint:ignore directive; no codes means everything.
// A trailing directive follows code on its line and covers only that line.
type ignore struct {
	codes    map[string]struct{}
	trailing bool
}

func (ig ignore) matches(code diag.Code) bool {
	if len(ig.codes) == 0 {
		return true
	}
	_, ok := ig.codes[code.ID()]
	return ok
}

// Suppressor drops diagnostics silenced by //idlint:ignore on the same line
// or by a standalone directive on the line above.
type Suppressor struct {
	fset  *token.FileSet
	lines map[lineKey]ignore
	next  diag.Reporter
	count int
}

func NewSuppressor(fset *token.FileSet, files []*ast.File, next diag.Reporter) *Suppressor {
	s := &Suppressor{fset: fset, lines: make(map[lineKey]ignore), next: next}
	for _, f := range files {
		var cols map[int]int
		for _, cg := range f.Comments {
			for _, c := range cg.List {
				codes, ok := annot.ParseIgnore(c.Text)
				if !ok {
					continue
				}
				if cols == nil {
					cols = codeColumns(fset, f)
				}
				pos := fset.Position(c.Pos())
				first, ok := cols[pos.Line]
				ig := ignore{trailing: ok && first <= pos.Column}
				if len(codes) > 0 {
					ig.codes = make(map[string]struct{}, len(codes))
					for _, code := range codes {
						ig.codes[code] = struct{}{}
					}
				}
				s.lines[lineKey{pos.Filename, pos.Line}] = ig
			}
		}
	}
	return s
}

// codeColumns maps each line to the leftmost column where a syntax node
// starts or ends on it.
func codeColumns(fset *token.FileSet, f *ast.File) map[int]int {
	cols := make(map[int]int)
	mark := func(p token.Pos) {
		if !p.IsValid() {
			return
		}
		pos := fset.Position(p)
		if c, ok := cols[pos.Line]; !ok || pos.Column < c {
			cols[pos.Line] = pos.Column
		}
	}
	ast.Inspect(f, func(n ast.Node) bool {
		switch n.(type) {
		case nil:
			return false
		case *ast.CommentGroup, *ast.Comment:
			return false
		}
		mark(n.Pos())
		mark(n.End())
		return true
	})
	return cols
}

// Suppressed returns how many diagnostics were dropped.
func (s *Suppressor) Suppressed() int { return s.count }

func (s *Suppressor) Report(code diag.Code, sev diag.Severity, primary source.Span, msg string, notes []diag.Note) {
	if len(s.lines) > 0 && primary.IsValid() {
		pos := s.fset.Position(primary.Start)
		ig, ok := s.lines[lineKey{pos.Filename, pos.Line}]
		if !ok || !ig.matches(code) {
			ig, ok = s.lines[lineKey{pos.Filename, pos.Line - 1}]
			ok = ok && !ig.trailing
		}
		if ok && ig.matches(code) {
			s.count++
			return
		}
	}
	if s.next != nil {
		s.next.Report(code, sev, primary, msg, notes)
	}
}
