// Package testkit provides an in-memory host for exercising the checker
// without loading Go packages.
package testkit

import (
	"go/token"

	"idlint/internal/annot"
	"idlint/internal/host"
	"idlint/internal/source"
)

// Spans are handed out from a counter so every node gets a distinct range.
type Positions struct{ next token.Pos }

func (p *Positions) Span(n int) source.Span {
	if p.next == 0 {
		p.next = 1
	}
	sp := source.At(p.next, n)
	p.next += token.Pos(n + 1)
	return sp
}

// Expr is an argument expression: a literal, a constant reference or an
// opaque expression the folder may know values for.
type Expr struct {
	Sp     source.Span
	Lit    *string
	Ref    *Symbol
	Folded []string
}

func (e *Expr) Span() source.Span { return e.Sp }

// Symbol is a named constant with an optional initializer.
type Symbol struct {
	Sp   source.Span
	ID   string
	Init *Expr
}

func (s *Symbol) Span() source.Span { return s.Sp }
func (s *Symbol) Name() string      { return s.ID }
func (s *Symbol) Initializer() (host.Expr, bool) {
	if s.Init == nil {
		return nil, false
	}
	return s.Init, true
}

// Param is a formal parameter carrying annotations.
type Param struct {
	Sp          source.Span
	ID          string
	IsVariadic  bool
	Annotations []annot.Annotation
}

func (p *Param) Span() source.Span { return p.Sp }
func (p *Param) Name() string      { return p.ID }
func (p *Param) Variadic() bool    { return p.IsVariadic }
func (p *Param) FindAnnotation(q string) (annot.Annotation, bool) {
	for _, a := range p.Annotations {
		if a.Name == q {
			return a, true
		}
	}
	return annot.Annotation{}, false
}

// Call is one resolved candidate of a call site.
type Call struct {
	SiteExpr *Expr
	Name     string
	Pairs    []host.ParamArg
}

func (c *Call) Site() host.Expr { return c.SiteExpr }
func (c *Call) Callee() string  { return c.Name }

// Decl is a declaration holding resolved call candidates.
type Decl struct {
	Sp    source.Span
	ID    string
	Calls []*Call
}

func (d *Decl) Span() source.Span { return d.Sp }
func (d *Decl) Name() string      { return d.ID }

// Host implements host.Host over the fake nodes above.
type Host struct{}

var _ host.Host = Host{}

func (Host) ResolveAllCalls(decl host.Declaration) []host.ResolvedCall {
	d, ok := decl.(*Decl)
	if !ok {
		return nil
	}
	out := make([]host.ResolvedCall, 0, len(d.Calls))
	for _, c := range d.Calls {
		out = append(out, c)
	}
	return out
}

func (Host) ValueParametersWithArguments(call host.ResolvedCall) []host.ParamArg {
	c, ok := call.(*Call)
	if !ok {
		return nil
	}
	return c.Pairs
}

func (Host) ResolveStringConstantValues(e host.Expr) []string {
	x, ok := e.(*Expr)
	if !ok {
		return nil
	}
	return x.Folded
}

func (Host) StringLiteral(e host.Expr) (string, bool) {
	x, ok := e.(*Expr)
	if !ok || x.Lit == nil {
		return "", false
	}
	return *x.Lit, true
}

func (Host) ConstantReference(e host.Expr) (host.Symbol, bool) {
	x, ok := e.(*Expr)
	if !ok || x.Ref == nil {
		return nil, false
	}
	return x.Ref, true
}

// Builder creates fake nodes with distinct spans.
type Builder struct {
	pos Positions
}

func (b *Builder) Lit(s string) *Expr {
	return &Expr{Sp: b.pos.Span(len(s) + 2), Lit: &s}
}

func (b *Builder) Opaque(folded ...string) *Expr {
	return &Expr{Sp: b.pos.Span(4), Folded: folded}
}

func (b *Builder) Ref(sym *Symbol) *Expr {
	return &Expr{Sp: b.pos.Span(len(sym.ID)), Ref: sym}
}

func (b *Builder) Const(name string, init *Expr) *Symbol {
	return &Symbol{Sp: b.pos.Span(len(name)), ID: name, Init: init}
}

// Tagged returns a parameter annotated with the given kind name.
func (b *Builder) Tagged(name, kind string) *Param {
	return &Param{
		Sp: b.pos.Span(len(name)),
		ID: name,
		Annotations: []annot.Annotation{{
			Name: annot.ResolveContext,
			Args: []annot.Arg{{Value: annot.ParseValue(kind)}},
		}},
	}
}

func (b *Builder) Plain(name string) *Param {
	return &Param{Sp: b.pos.Span(len(name)), ID: name}
}

func (b *Builder) Call(callee string, pairs ...host.ParamArg) *Call {
	return &Call{SiteExpr: b.Opaque(), Name: callee, Pairs: pairs}
}

// SameSite returns another candidate for the call site of c.
func (b *Builder) SameSite(c *Call, callee string, pairs ...host.ParamArg) *Call {
	return &Call{SiteExpr: c.SiteExpr, Name: callee, Pairs: pairs}
}

func (b *Builder) Decl(name string, calls ...*Call) *Decl {
	return &Decl{Sp: b.pos.Span(len(name)), ID: name, Calls: calls}
}

// Bind pairs a parameter with an argument; arg may be nil.
func Bind(p *Param, arg *Expr) host.ParamArg {
	if arg == nil {
		return host.ParamArg{Param: p}
	}
	return host.ParamArg{Param: p, Arg: arg}
}
