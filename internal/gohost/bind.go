package gohost

import (
	"go/ast"
	"go/types"

	"idlint/internal/annot"
	"idlint/internal/host"
	"idlint/internal/source"
)

// Param is a function parameter or struct field of a call candidate.
type Param struct {
	obj         *types.Var
	variadic    bool
	annotations []annot.Annotation
}

var _ host.Parameter = (*Param)(nil)

func (p *Param) Name() string   { return p.obj.Name() }
func (p *Param) Variadic() bool { return p.variadic }
func (p *Param) Span() source.Span {
	return source.At(p.obj.Pos(), len(p.obj.Name()))
}

func (p *Param) FindAnnotation(q string) (annot.Annotation, bool) {
	for _, a := range p.annotations {
		if a.Name == q {
			return a, true
		}
	}
	return annot.Annotation{}, false
}

func (h *Host) ValueParametersWithArguments(call host.ResolvedCall) []host.ParamArg {
	c, ok := call.(*Call)
	if !ok {
		return nil
	}
	switch site := c.site.(type) {
	case *ast.CallExpr:
		if c.fn != nil {
			return h.bindCall(c, site)
		}
	case *ast.CompositeLit:
		if c.strct != nil {
			return bindStruct(c.strct, site)
		}
	}
	return nil
}

func (h *Host) bindCall(c *Call, call *ast.CallExpr) []host.ParamArg {
	sig, ok := c.fn.Type().(*types.Signature)
	if !ok {
		return nil
	}
	args := call.Args
	if c.recvIn && len(args) > 0 {
		args = args[1:]
	}
	// f(g()) with a multi-value g: arguments have no syntax of their own
	if len(args) == 1 && sig.Params().Len() > 1 {
		if tv, ok := h.pkg.Info.Types[args[0]]; ok {
			if _, tuple := tv.Type.(*types.Tuple); tuple {
				return nil
			}
		}
	}

	directives := h.directives.Directives(c.fn)
	params := sig.Params()
	out := make([]host.ParamArg, 0, len(args))
	for i := range params.Len() {
		v := params.At(i)
		variadic := sig.Variadic() && i == params.Len()-1
		p := &Param{obj: v, variadic: variadic, annotations: directives[v.Name()]}
		switch {
		case variadic && call.Ellipsis.IsValid():
			if i < len(args) {
				out = append(out, spread(p, args[i])...)
			}
		case variadic:
			if i >= len(args) {
				out = append(out, host.ParamArg{Param: p})
			}
			for _, a := range args[min(i, len(args)):] {
				out = append(out, host.ParamArg{Param: p, Arg: Expr{X: a}})
			}
		case i < len(args):
			out = append(out, host.ParamArg{Param: p, Arg: Expr{X: args[i]}})
		default:
			out = append(out, host.ParamArg{Param: p})
		}
	}
	return out
}

// spread binds f(xs...) when xs is a composite literal; any other spread
// argument has no per-element syntax.
func spread(p *Param, arg ast.Expr) []host.ParamArg {
	lit, ok := ast.Unparen(arg).(*ast.CompositeLit)
	if !ok {
		return []host.ParamArg{{Param: p}}
	}
	out := make([]host.ParamArg, 0, len(lit.Elts))
	for _, el := range lit.Elts {
		if kv, ok := el.(*ast.KeyValueExpr); ok {
			el = kv.Value
		}
		out = append(out, host.ParamArg{Param: p, Arg: Expr{X: el}})
	}
	return out
}

func bindStruct(st *types.Struct, lit *ast.CompositeLit) []host.ParamArg {
	byName := make(map[string]int, st.NumFields())
	for i := range st.NumFields() {
		byName[st.Field(i).Name()] = i
	}
	out := make([]host.ParamArg, 0, len(lit.Elts))
	for pos, el := range lit.Elts {
		idx, val := pos, el
		if kv, ok := el.(*ast.KeyValueExpr); ok {
			key, ok := kv.Key.(*ast.Ident)
			if !ok {
				continue
			}
			if idx, ok = byName[key.Name]; !ok {
				continue
			}
			val = kv.Value
		}
		if idx >= st.NumFields() {
			continue
		}
		a, ok := annot.FromStructTag(st.Tag(idx))
		if !ok {
			continue
		}
		p := &Param{obj: st.Field(idx), annotations: []annot.Annotation{a}}
		out = append(out, host.ParamArg{Param: p, Arg: Expr{X: val}})
	}
	return out
}
