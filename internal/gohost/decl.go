package gohost

import (
	"go/ast"
	"go/token"
	"strings"

	"idlint/internal/host"
	"idlint/internal/source"
)

// Decl is a top-level function or var spec.
type Decl struct {
	node  ast.Node
	name  string
	roots []ast.Node
}

var _ host.Declaration = (*Decl)(nil)

func (d *Decl) Span() source.Span { return source.SpanOf(d.node) }
func (d *Decl) Name() string      { return d.name }
func (d *Decl) Node() ast.Node    { return d.node }

// Declarations returns the declarations of file that may contain calls.
func Declarations(file *ast.File) []*Decl {
	var out []*Decl
	for _, decl := range file.Decls {
		switch d := decl.(type) {
		case *ast.FuncDecl:
			if d.Body == nil {
				continue
			}
			out = append(out, &Decl{node: d, name: funcName(d), roots: []ast.Node{d.Body}})
		case *ast.GenDecl:
			if d.Tok != token.VAR {
				continue
			}
			for _, spec := range d.Specs {
				vs, ok := spec.(*ast.ValueSpec)
				if !ok || len(vs.Values) == 0 {
					continue
				}
				names := make([]string, 0, len(vs.Names))
				for _, n := range vs.Names {
					names = append(names, n.Name)
				}
				roots := make([]ast.Node, 0, len(vs.Values))
				for _, v := range vs.Values {
					roots = append(roots, v)
				}
				out = append(out, &Decl{node: vs, name: strings.Join(names, ", "), roots: roots})
			}
		}
	}
	return out
}

// Declarations returns every declaration of the package in file order.
func (h *Host) Declarations() []*Decl {
	var out []*Decl
	for _, f := range h.pkg.Files {
		out = append(out, Declarations(f)...)
	}
	return out
}

func funcName(d *ast.FuncDecl) string {
	if d.Recv == nil || len(d.Recv.List) == 0 {
		return d.Name.Name
	}
	return recvTypeName(d.Recv.List[0].Type) + "." + d.Name.Name
}

func recvTypeName(e ast.Expr) string {
	switch t := e.(type) {
	case *ast.StarExpr:
		return recvTypeName(t.X)
	case *ast.IndexExpr:
		return recvTypeName(t.X)
	case *ast.IndexListExpr:
		return recvTypeName(t.X)
	case *ast.Ident:
		return t.Name
	case *ast.ParenExpr:
		return recvTypeName(t.X)
	}
	return "?"
}
