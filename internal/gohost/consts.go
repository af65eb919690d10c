package gohost

import (
	"go/ast"
	"go/constant"
	"go/token"
	"go/types"
	"strconv"

	"idlint/internal/host"
	"idlint/internal/source"
)

// Const is a named constant referenced by an argument.
type Const struct {
	obj  *types.Const
	init ast.Expr
}

var _ host.Symbol = (*Const)(nil)

func (c *Const) Name() string { return c.obj.Name() }
func (c *Const) Span() source.Span {
	return source.At(c.obj.Pos(), len(c.obj.Name()))
}

func (c *Const) Initializer() (host.Expr, bool) {
	if c.init == nil {
		return nil, false
	}
	return Expr{X: c.init}, true
}

func syntax(e host.Expr) ast.Expr {
	x, ok := e.(Expr)
	if !ok || x.X == nil {
		return nil
	}
	return ast.Unparen(x.X)
}

func (h *Host) StringLiteral(e host.Expr) (string, bool) {
	lit, ok := syntax(e).(*ast.BasicLit)
	if !ok || lit.Kind != token.STRING {
		return "", false
	}
	s, err := strconv.Unquote(lit.Value)
	if err != nil {
		return "", false
	}
	return s, true
}

func (h *Host) ConstantReference(e host.Expr) (host.Symbol, bool) {
	var id *ast.Ident
	switch x := syntax(e).(type) {
	case *ast.Ident:
		id = x
	case *ast.SelectorExpr:
		id = x.Sel
	default:
		return nil, false
	}
	c, ok := h.pkg.Info.Uses[id].(*types.Const)
	if !ok || !stringish(c.Type()) {
		return nil, false
	}
	return &Const{obj: c, init: h.consts[c]}, true
}

func stringish(t types.Type) bool {
	b, ok := t.Underlying().(*types.Basic)
	if !ok {
		return false
	}
	return b.Info()&types.IsString != 0 || b.Kind() == types.Invalid
}

func (h *Host) ResolveStringConstantValues(e host.Expr) []string {
	x := syntax(e)
	if x == nil {
		return nil
	}
	tv, ok := h.pkg.Info.Types[x]
	if !ok || tv.Value == nil || tv.Value.Kind() != constant.String {
		return nil
	}
	return []string{constant.StringVal(tv.Value)}
}
