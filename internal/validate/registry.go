// Package validate holds the per-tag validation rules and the registry that
// maps semantic tags to them.
package validate

import (
	"idlint/internal/diag"
	"idlint/internal/semantic"
	"idlint/internal/source"
)

// Func validates one constant value. It is pure and total: it returns a
// diagnostic anchored at anchor, or false when the value is fine.
type Func func(anchor source.Span, value string) (diag.Diagnostic, bool)

// Options configure a Registry. The zero value gives the default rules.
type Options struct {
	// ForbiddenPluginIDs replaces DefaultForbidden for plugin ids when non-nil.
	ForbiddenPluginIDs []string
	// ForbiddenPluginNames replaces DefaultForbidden for plugin names when non-nil.
	ForbiddenPluginNames []string
	// Disabled tags get no validator.
	Disabled []semantic.Tag
	// Severity overrides the default error severity per tag.
	Severity map[semantic.Tag]diag.Severity
}

// Registry maps tags to validators. It is immutable once built.
type Registry struct {
	funcs [semantic.NumTags]Func
}

// Default is the registry with default options.
var Default = NewRegistry(Options{})

func NewRegistry(opts Options) *Registry {
	ids, names := opts.ForbiddenPluginIDs, opts.ForbiddenPluginNames
	if ids == nil {
		ids = DefaultForbidden
	}
	if names == nil {
		names = DefaultForbidden
	}

	r := &Registry{}
	r.funcs[semantic.PluginID] = checkPluginID(newWordSet(ids))
	r.funcs[semantic.PluginName] = checkPluginName(newWordSet(names))
	r.funcs[semantic.PluginVersion] = checkPluginVersion
	r.funcs[semantic.CommandName] = checkCommandName
	r.funcs[semantic.PermissionNamespace] = permNamespaceRule.check
	r.funcs[semantic.PermissionName] = permNameRule.check
	r.funcs[semantic.PermissionID] = checkPermissionID
	// RestrictedNoArgConstructor is not a string rule

	for _, t := range opts.Disabled {
		if t.Valid() {
			r.funcs[t] = nil
		}
	}
	for t, sev := range opts.Severity {
		if !t.Valid() || r.funcs[t] == nil {
			continue
		}
		r.funcs[t] = withSeverity(r.funcs[t], sev)
	}
	return r
}

func withSeverity(f Func, sev diag.Severity) Func {
	return func(anchor source.Span, value string) (diag.Diagnostic, bool) {
		d, ok := f(anchor, value)
		if ok {
			d = d.WithSeverity(sev)
		}
		return d, ok
	}
}

// ValidatorFor returns the validator for tag; false means the tag is not
// checked.
func (r *Registry) ValidatorFor(tag semantic.Tag) (Func, bool) {
	if r == nil || !tag.Valid() {
		return nil, false
	}
	f := r.funcs[tag]
	return f, f != nil
}
