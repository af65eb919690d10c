package annot

import "idlint/internal/semantic"

// ResolveTag returns the semantic tag attached to e. Missing or malformed
// metadata (no argument, non-enum argument, unknown name) yields false.
func ResolveTag(e Element) (semantic.Tag, bool) {
	if e == nil {
		return 0, false
	}
	a, ok := e.FindAnnotation(ResolveContext)
	if !ok {
		return 0, false
	}
	v, ok := a.First()
	if !ok || v.Kind != ValueEnum {
		return 0, false
	}
	return semantic.Parse(v.SimpleName())
}
