package annot

import (
	"reflect"
	"strings"
)

const (
	directivePrefix = "//idlint:"
	// StructTagKey is the struct tag key carrying a field's semantic tag.
	StructTagKey = "idlint"
	// IgnoreDirective suppresses diagnostics on a line.
	IgnoreDirective = "idlint:ignore"
)

// IsDirective reports whether a raw comment is an idlint directive.
func IsDirective(text string) bool {
	return strings.HasPrefix(text, directivePrefix)
}

// ParseDirective parses a raw comment of the form
//
//	//idlint:resolve <target> <value> [name=value ...]
//
// and returns the target (a parameter name) with the annotation it carries.
func ParseDirective(text string) (string, Annotation, bool) {
	if !IsDirective(text) {
		return "", Annotation{}, false
	}
	fields := strings.Fields(strings.TrimPrefix(text, "//"))
	if len(fields) < 2 || fields[0] != ResolveContext {
		return "", Annotation{}, false
	}
	a := Annotation{Name: ResolveContext}
	for _, raw := range fields[2:] {
		a.Args = append(a.Args, parseArg(raw))
	}
	return fields[1], a, true
}

// ParseIgnore parses //idlint:ignore [CODE ...]. An empty code list means
// every diagnostic on the line is suppressed.
func ParseIgnore(text string) ([]string, bool) {
	if !IsDirective(text) {
		return nil, false
	}
	fields := strings.Fields(strings.TrimPrefix(text, "//"))
	if len(fields) == 0 || fields[0] != IgnoreDirective {
		return nil, false
	}
	var codes []string
	for _, f := range fields[1:] {
		for _, c := range strings.Split(f, ",") {
			if c = strings.TrimSpace(c); c != "" {
				codes = append(codes, c)
			}
		}
	}
	return codes, true
}

// FromStructTag reads the idlint key of a struct field tag as a
// ResolveContext annotation: `idlint:"PluginId"`.
func FromStructTag(tag string) (Annotation, bool) {
	v, ok := reflect.StructTag(tag).Lookup(StructTagKey)
	if !ok {
		return Annotation{}, false
	}
	a := Annotation{Name: ResolveContext}
	for _, raw := range strings.Split(v, ",") {
		a.Args = append(a.Args, parseArg(raw))
	}
	return a, true
}
