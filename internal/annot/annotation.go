// Package annot models declaration metadata (directive comments and struct
// tags) and resolves the semantic tag attached to an element.
package annot

import (
	"regexp"
	"strconv"
	"strings"
)

// ResolveContext is the qualified name of the annotation carrying a semantic tag.
const ResolveContext = "idlint:resolve"

// ValueKind classifies an annotation argument.
type ValueKind uint8

const (
	ValueOther ValueKind = iota
	// ValueEnum is a reference to an enum constant, e.g. PluginId or Kind.PluginId.
	ValueEnum
	ValueString
	ValueNumber
)

func (k ValueKind) String() string {
	switch k {
	case ValueEnum:
		return "enum"
	case ValueString:
		return "string"
	case ValueNumber:
		return "number"
	default:
		return "other"
	}
}

// Value is one argument value of an annotation.
type Value struct {
	Kind ValueKind
	Text string // enum reference as written, or the unquoted string
}

// SimpleName returns the last segment of an enum reference.
func (v Value) SimpleName() string {
	if i := strings.LastIndexByte(v.Text, '.'); i >= 0 {
		return v.Text[i+1:]
	}
	return v.Text
}

// Arg is a possibly named annotation argument.
type Arg struct {
	Name  string
	Value Value
}

// Annotation is one metadata instance attached to an element.
type Annotation struct {
	Name string
	Args []Arg
}

// ValueArguments returns the arguments in source order.
func (a Annotation) ValueArguments() []Arg {
	return a.Args
}

// First returns the first argument value.
func (a Annotation) First() (Value, bool) {
	if len(a.Args) == 0 {
		return Value{}, false
	}
	return a.Args[0].Value, true
}

// String renders the annotation the way it is written in a directive.
func (a Annotation) String() string {
	var b strings.Builder
	b.WriteString(a.Name)
	for _, arg := range a.Args {
		b.WriteByte(' ')
		if arg.Name != "" {
			b.WriteString(arg.Name)
			b.WriteByte('=')
		}
		if arg.Value.Kind == ValueString {
			b.WriteString(strconv.Quote(arg.Value.Text))
			continue
		}
		b.WriteString(arg.Value.Text)
	}
	return b.String()
}

// Element is anything metadata can be attached to.
type Element interface {
	FindAnnotation(qualifiedName string) (Annotation, bool)
}

var (
	enumRefPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)*$`)
	numberPattern  = regexp.MustCompile(`^[+-]?[0-9][0-9_.xXa-fA-F]*$`)
)

// ParseValue classifies a raw argument token.
func ParseValue(raw string) Value {
	raw = strings.TrimSpace(raw)
	switch {
	case raw == "":
		return Value{Kind: ValueOther}
	case raw[0] == '"' || raw[0] == '`':
		if s, err := strconv.Unquote(raw); err == nil {
			return Value{Kind: ValueString, Text: s}
		}
		return Value{Kind: ValueOther, Text: raw}
	case numberPattern.MatchString(raw):
		return Value{Kind: ValueNumber, Text: raw}
	case enumRefPattern.MatchString(raw):
		return Value{Kind: ValueEnum, Text: raw}
	default:
		return Value{Kind: ValueOther, Text: raw}
	}
}

// parseArg splits an optional name= prefix off a raw argument.
func parseArg(raw string) Arg {
	if i := strings.IndexByte(raw, '='); i > 0 && !strings.ContainsAny(raw[:i], "\"`") {
		return Arg{Name: raw[:i], Value: ParseValue(raw[i+1:])}
	}
	return Arg{Value: ParseValue(raw)}
}
