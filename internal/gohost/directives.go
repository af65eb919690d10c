package gohost

import (
	"go/ast"
	"go/types"
	"maps"

	"idlint/internal/annot"
)

// ParamDirectives maps a parameter name to the annotations attached to it.
type ParamDirectives map[string][]annot.Annotation

// DirectiveLookup returns the parameter directives of a function, or nil.
type DirectiveLookup interface {
	Directives(fn *types.Func) ParamDirectives
}

// DirectiveIndex holds the //idlint:resolve directives of a set of packages,
// keyed by the generic origin of each function. Read-only after building.
type DirectiveIndex map[*types.Func]ParamDirectives

func (ix DirectiveIndex) Directives(fn *types.Func) ParamDirectives {
	if ix == nil || fn == nil {
		return nil
	}
	return ix[fn.Origin()]
}

// Merge copies every entry of other into ix.
func (ix DirectiveIndex) Merge(other DirectiveIndex) {
	maps.Copy(ix, other)
}

// IndexDirectives collects the directives written on function and method
// declarations and on interface methods of the given files.
func IndexDirectives(files []*ast.File, info *types.Info) DirectiveIndex {
	ix := make(DirectiveIndex)
	for _, f := range files {
		for _, decl := range f.Decls {
			switch d := decl.(type) {
			case *ast.FuncDecl:
				ix.add(info, d.Name, d.Doc)
			case *ast.GenDecl:
				for _, spec := range d.Specs {
					ts, ok := spec.(*ast.TypeSpec)
					if !ok {
						continue
					}
					it, ok := ts.Type.(*ast.InterfaceType)
					if !ok || it.Methods == nil {
						continue
					}
					for _, m := range it.Methods.List {
						for _, name := range m.Names {
							ix.add(info, name, m.Doc)
						}
					}
				}
			}
		}
	}
	return ix
}

func (ix DirectiveIndex) add(info *types.Info, name *ast.Ident, doc *ast.CommentGroup) {
	if doc == nil || info == nil {
		return
	}
	fn, ok := info.Defs[name].(*types.Func)
	if !ok {
		return
	}
	var params ParamDirectives
	for _, c := range doc.List {
		target, a, ok := annot.ParseDirective(c.Text)
		if !ok {
			continue
		}
		if params == nil {
			params = make(ParamDirectives)
		}
		params[target] = append(params[target], a)
	}
	if params != nil {
		ix[fn.Origin()] = params
	}
}
