// Package gohost implements the checker's host interfaces over go/ast and
// go/types: declarations, call resolution, argument binding and constants.
package gohost

import (
	"go/ast"
	"go/token"
	"go/types"

	"idlint/internal/host"
)

// Package is a type-checked package as seen by the host.
type Package struct {
	Fset  *token.FileSet
	Files []*ast.File
	Types *types.Package
	Info  *types.Info
	// Directives resolves parameter tags, including those of imported
	// functions. Nil means the package's own directives only.
	Directives DirectiveLookup
}

// Host answers the checker's questions about one package. Build it once per
// package; it is read-only afterwards.
type Host struct {
	pkg        *Package
	directives DirectiveLookup
	consts     map[*types.Const]ast.Expr
	byName     map[string][]*types.Func
	named      []*types.Named
}

var _ host.Host = (*Host)(nil)

func New(p *Package) *Host {
	h := &Host{
		pkg:        p,
		directives: p.Directives,
		consts:     make(map[*types.Const]ast.Expr),
		byName:     make(map[string][]*types.Func),
	}
	if h.directives == nil {
		h.directives = IndexDirectives(p.Files, p.Info)
	}
	h.indexConsts()
	h.indexFuncs()
	return h
}

func (h *Host) Fset() *token.FileSet { return h.pkg.Fset }

// indexConsts records the syntactic initializer of every const in the package.
func (h *Host) indexConsts() {
	for _, f := range h.pkg.Files {
		ast.Inspect(f, func(n ast.Node) bool {
			gd, ok := n.(*ast.GenDecl)
			if !ok {
				return true
			}
			if gd.Tok != token.CONST {
				return false
			}
			for _, spec := range gd.Specs {
				vs, ok := spec.(*ast.ValueSpec)
				if !ok || len(vs.Values) != len(vs.Names) {
					// implicit repetition of the previous spec
					continue
				}
				for i, name := range vs.Names {
					if c, ok := h.pkg.Info.Defs[name].(*types.Const); ok {
						h.consts[c] = vs.Values[i]
					}
				}
			}
			return false
		})
	}
}

// indexFuncs lists package functions and methods by name for call sites the
// type checker could not resolve.
func (h *Host) indexFuncs() {
	if h.pkg.Types == nil {
		return
	}
	scope := h.pkg.Types.Scope()
	for _, name := range scope.Names() {
		switch obj := scope.Lookup(name).(type) {
		case *types.Func:
			h.byName[obj.Name()] = append(h.byName[obj.Name()], obj)
		case *types.TypeName:
			named, ok := obj.Type().(*types.Named)
			if !ok {
				continue
			}
			h.named = append(h.named, named)
			for m := range named.Methods() {
				h.byName[m.Name()] = append(h.byName[m.Name()], m)
			}
			if it, ok := named.Underlying().(*types.Interface); ok {
				for m := range it.ExplicitMethods() {
					h.byName[m.Name()] = append(h.byName[m.Name()], m)
				}
			}
		}
	}
}
