// Package host describes what the checker needs from the static-analysis
// pipeline that embeds it: declarations, resolved calls with their bound
// arguments, constant folding and declaration metadata.
package host

import (
	"idlint/internal/annot"
	"idlint/internal/source"
)

// Node is any source element with a position.
type Node interface {
	Span() source.Span
}

// Expr is an argument expression.
type Expr interface {
	Node
}

// Declaration is a unit of code whose body may contain calls.
type Declaration interface {
	Node
	Name() string
}

// Parameter is a formal value parameter or struct field of a callee.
type Parameter interface {
	annot.Element
	Name() string
	Variadic() bool
	Span() source.Span
}

// ResolvedCall is one candidate resolution of a call site.
type ResolvedCall interface {
	Site() Expr
	Callee() string
}

// ParamArg pairs a formal parameter with the argument bound to it.
// Arg is nil when the parameter has no explicit argument.
type ParamArg struct {
	Param Parameter
	Arg   Expr
}

// Resolver reports every call resolution inside a declaration. Ambiguous or
// erroneous call sites yield one ResolvedCall per plausible candidate.
type Resolver interface {
	ResolveAllCalls(decl Declaration) []ResolvedCall
	ValueParametersWithArguments(call ResolvedCall) []ParamArg
}

// Symbol is a named constant.
type Symbol interface {
	Node
	Name() string
	Initializer() (Expr, bool)
}

// ConstantFolder exposes the host's knowledge about constant expressions.
type ConstantFolder interface {
	// ResolveStringConstantValues returns nil when the value is unknown.
	ResolveStringConstantValues(e Expr) []string
	StringLiteral(e Expr) (string, bool)
	ConstantReference(e Expr) (Symbol, bool)
}

// Host bundles the capabilities of a host pipeline.
type Host interface {
	Resolver
	ConstantFolder
}
