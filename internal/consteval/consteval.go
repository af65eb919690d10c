// Package consteval recovers the literal string values an argument expression
// can take. Anything it cannot reduce yields an empty set.
package consteval

import (
	"idlint/internal/host"
	"idlint/internal/source"
)

// Evaluator evaluates single expressions against a host constant folder.
// It keeps no state between calls and is safe for concurrent use.
type Evaluator struct {
	folder host.ConstantFolder
}

func New(folder host.ConstantFolder) *Evaluator {
	return &Evaluator{folder: folder}
}

// Evaluate returns the distinct string values of e in discovery order.
func (ev *Evaluator) Evaluate(e host.Expr) []string {
	if ev == nil || ev.folder == nil || e == nil {
		return nil
	}
	return dedup(ev.eval(e, nil))
}

func (ev *Evaluator) eval(e host.Expr, visiting map[source.Span]struct{}) []string {
	if s, ok := ev.folder.StringLiteral(e); ok {
		return []string{s}
	}
	if sym, ok := ev.folder.ConstantReference(e); ok {
		key := sym.Span()
		if _, seen := visiting[key]; seen {
			// цикл в цепочке констант
			return nil
		}
		init, ok := sym.Initializer()
		if !ok || init == nil {
			return ev.folder.ResolveStringConstantValues(e)
		}
		if visiting == nil {
			visiting = make(map[source.Span]struct{}, 4)
		}
		visiting[key] = struct{}{}
		vals := ev.eval(init, visiting)
		delete(visiting, key)
		return vals
	}
	return ev.folder.ResolveStringConstantValues(e)
}

func dedup(vals []string) []string {
	if len(vals) < 2 {
		return vals
	}
	seen := make(map[string]struct{}, len(vals))
	out := vals[:0:0]
	for _, v := range vals {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
