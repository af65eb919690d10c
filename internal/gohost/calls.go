package gohost

import (
	"go/ast"
	"go/types"
	"reflect"

	"golang.org/x/tools/go/types/typeutil"

	"idlint/internal/annot"
	"idlint/internal/host"
	"idlint/internal/source"
)

// Expr wraps a syntax expression.
type Expr struct {
	X ast.Expr
}

func (e Expr) Span() source.Span { return source.SpanOf(e.X) }

// Call is one candidate resolution of a call expression or struct literal.
type Call struct {
	site   ast.Expr
	fn     *types.Func   // function candidate
	strct  *types.Struct // struct literal candidate
	recvIn bool          // method expression: receiver is the first argument
	name   string
}

var _ host.ResolvedCall = (*Call)(nil)

func (c *Call) Site() host.Expr { return Expr{X: c.site} }
func (c *Call) Callee() string  { return c.name }

// Func returns the candidate function, nil for struct literals.
func (c *Call) Func() *types.Func { return c.fn }

func (h *Host) ResolveAllCalls(decl host.Declaration) []host.ResolvedCall {
	d, ok := decl.(*Decl)
	if !ok {
		return nil
	}
	var out []host.ResolvedCall
	for _, root := range d.roots {
		ast.Inspect(root, func(n ast.Node) bool {
			switch x := n.(type) {
			case *ast.CallExpr:
				for _, c := range h.callCandidates(x) {
					out = append(out, c)
				}
			case *ast.CompositeLit:
				if c := h.structCandidate(x); c != nil {
					out = append(out, c)
				}
			}
			return true
		})
	}
	return out
}

func (h *Host) callCandidates(call *ast.CallExpr) []*Call {
	info := h.pkg.Info
	if tv, ok := info.Types[call.Fun]; ok && tv.IsType() {
		return nil // conversion
	}
	switch obj := typeutil.Callee(info, call).(type) {
	case *types.Func:
		recvIn := false
		if sel, ok := ast.Unparen(call.Fun).(*ast.SelectorExpr); ok {
			if s, ok := info.Selections[sel]; ok && s.Kind() == types.MethodExpr {
				recvIn = true
			}
		}
		out := []*Call{{site: call, fn: obj, recvIn: recvIn, name: obj.FullName()}}
		if !recvIn {
			out = append(out, h.implementations(call, obj)...)
		}
		return out
	case nil:
		return h.unresolvedCandidates(call)
	default:
		// builtins, func-typed variables
		return nil
	}
}

// implementations returns the package-local concrete methods a call through
// an interface method may dispatch to.
func (h *Host) implementations(call *ast.CallExpr, m *types.Func) []*Call {
	sig, ok := m.Type().(*types.Signature)
	if !ok || sig.Recv() == nil {
		return nil
	}
	iface, ok := sig.Recv().Type().Underlying().(*types.Interface)
	if !ok {
		return nil
	}
	var out []*Call
	for _, named := range h.named {
		if types.IsInterface(named) || named.TypeParams().Len() > 0 {
			continue
		}
		ptr := types.NewPointer(named)
		if !types.Implements(named, iface) && !types.Implements(ptr, iface) {
			continue
		}
		obj, _, _ := types.LookupFieldOrMethod(ptr, true, h.pkg.Types, m.Name())
		if impl, ok := obj.(*types.Func); ok && impl != m {
			out = append(out, &Call{site: call, fn: impl, name: impl.FullName()})
		}
	}
	return out
}

// unresolvedCandidates handles call sites left unresolved by type errors:
// every package function or method with the callee's name and a compatible
// arity is a candidate.
func (h *Host) unresolvedCandidates(call *ast.CallExpr) []*Call {
	var name string
	switch fun := ast.Unparen(call.Fun).(type) {
	case *ast.Ident:
		if h.pkg.Info.Uses[fun] != nil {
			return nil
		}
		name = fun.Name
	case *ast.SelectorExpr:
		if h.pkg.Info.Uses[fun.Sel] != nil {
			return nil
		}
		name = fun.Sel.Name
	default:
		return nil
	}
	var out []*Call
	for _, fn := range h.byName[name] {
		sig, ok := fn.Type().(*types.Signature)
		if !ok || !arityAccepts(sig, len(call.Args)) {
			continue
		}
		out = append(out, &Call{site: call, fn: fn, name: fn.FullName()})
	}
	return out
}

func arityAccepts(sig *types.Signature, n int) bool {
	params := sig.Params().Len()
	if sig.Variadic() {
		return n >= params-1
	}
	return n == params
}

// structCandidate returns a candidate for literals of structs with tagged fields.
func (h *Host) structCandidate(lit *ast.CompositeLit) *Call {
	tv, ok := h.pkg.Info.Types[lit]
	if !ok || tv.Type == nil {
		return nil
	}
	t := tv.Type
	if p, ok := t.Underlying().(*types.Pointer); ok {
		t = p.Elem()
	}
	st, ok := t.Underlying().(*types.Struct)
	if !ok || !hasTaggedField(st) {
		return nil
	}
	return &Call{site: lit, strct: st, name: types.TypeString(t, types.RelativeTo(h.pkg.Types))}
}

func hasTaggedField(st *types.Struct) bool {
	for i := range st.NumFields() {
		if _, ok := reflect.StructTag(st.Tag(i)).Lookup(annot.StructTagKey); ok {
			return true
		}
	}
	return false
}
