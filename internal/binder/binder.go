// Package binder enumerates the (parameter, argument) bindings of every call
// candidate inside a declaration.
package binder

import "idlint/internal/host"

// CallBinding is one candidate resolution of a call site together with its
// explicitly bound arguments. Several bindings may share a call site.
type CallBinding struct {
	Call host.ResolvedCall
	Args []host.ParamArg
}

// Bind returns a binding per resolved call candidate in decl, in the order the
// resolver reports them. Parameters left to their default value (no argument)
// are omitted. Variadic parameters appear once per argument.
func Bind(r host.Resolver, decl host.Declaration) []CallBinding {
	if r == nil || decl == nil {
		return nil
	}
	calls := r.ResolveAllCalls(decl)
	if len(calls) == 0 {
		return nil
	}
	out := make([]CallBinding, 0, len(calls))
	for _, call := range calls {
		pairs := r.ValueParametersWithArguments(call)
		args := make([]host.ParamArg, 0, len(pairs))
		for _, pa := range pairs {
			if pa.Param == nil || pa.Arg == nil {
				continue
			}
			args = append(args, pa)
		}
		out = append(out, CallBinding{Call: call, Args: args})
	}
	return out
}
