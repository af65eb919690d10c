package annot

import (
	"testing"

	"idlint/internal/semantic"
)

type element map[string]Annotation

func (e element) FindAnnotation(q string) (Annotation, bool) {
	a, ok := e[q]
	return a, ok
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		raw  string
		kind ValueKind
		text string
	}{
		{"PluginId", ValueEnum, "PluginId"},
		{"Kind.PLUGIN_ID", ValueEnum, "Kind.PLUGIN_ID"},
		{`"PluginId"`, ValueString, "PluginId"},
		{"`raw`", ValueString, "raw"},
		{"42", ValueNumber, "42"},
		{"Plugin-Id", ValueOther, "Plugin-Id"},
		{`"broken`, ValueOther, `"broken`},
		{"", ValueOther, ""},
	}
	for _, tt := range tests {
		v := ParseValue(tt.raw)
		if v.Kind != tt.kind || v.Text != tt.text {
			t.Errorf("ParseValue(%q) = {%v %q}, want {%v %q}", tt.raw, v.Kind, v.Text, tt.kind, tt.text)
		}
	}
	if got := ParseValue("a.b.PermissionId").SimpleName(); got != "PermissionId" {
		t.Errorf("SimpleName() = %q", got)
	}
}

func TestParseDirective(t *testing.T) {
	target, a, ok := ParseDirective("//idlint:resolve id PluginId note=\"x\"")
	if !ok {
		t.Fatal("directive not recognised")
	}
	if target != "id" {
		t.Errorf("target = %q", target)
	}
	if a.Name != ResolveContext || len(a.Args) != 2 {
		t.Fatalf("annotation = %+v", a)
	}
	if a.Args[1].Name != "note" || a.Args[1].Value.Kind != ValueString || a.Args[1].Value.Text != "x" {
		t.Errorf("named arg = %+v", a.Args[1])
	}
	if got := a.String(); got != `idlint:resolve PluginId note="x"` {
		t.Errorf("String() = %q", got)
	}

	for _, text := range []string{
		"// idlint:resolve id PluginId", // not a directive: space after //
		"//idlint:resolve",
		"//idlint:other id PluginId",
		"//go:generate stringer",
	} {
		if _, _, ok := ParseDirective(text); ok {
			t.Errorf("ParseDirective(%q) should fail", text)
		}
	}

	// target without a value is still an annotation, just without arguments
	_, a, ok = ParseDirective("//idlint:resolve id")
	if !ok || len(a.Args) != 0 {
		t.Errorf("bare directive = %+v, %v", a, ok)
	}
}

func TestParseIgnore(t *testing.T) {
	codes, ok := ParseIgnore("//idlint:ignore PLG1001,PLG1002 CMD2004")
	if !ok || len(codes) != 3 || codes[2] != "CMD2004" {
		t.Errorf("ParseIgnore = %v, %v", codes, ok)
	}
	codes, ok = ParseIgnore("//idlint:ignore")
	if !ok || len(codes) != 0 {
		t.Errorf("bare ignore = %v, %v", codes, ok)
	}
	if _, ok := ParseIgnore("//idlint:resolve id PluginId"); ok {
		t.Error("resolve directive is not an ignore directive")
	}
}

func TestFromStructTag(t *testing.T) {
	a, ok := FromStructTag(`json:"id" idlint:"PluginId,strict"`)
	if !ok {
		t.Fatal("tag not found")
	}
	if v, _ := a.First(); v.Kind != ValueEnum || v.Text != "PluginId" {
		t.Errorf("first = %+v", v)
	}
	if _, ok := FromStructTag(`json:"id"`); ok {
		t.Error("tag without idlint key should not produce an annotation")
	}
}

func TestResolveTag(t *testing.T) {
	tests := []struct {
		name string
		elem Element
		want semantic.Tag
		ok   bool
	}{
		{"enum constant", element{ResolveContext: {Name: ResolveContext, Args: []Arg{{Value: Value{Kind: ValueEnum, Text: "PluginId"}}}}}, semantic.PluginID, true},
		{"qualified enum constant", element{ResolveContext: {Name: ResolveContext, Args: []Arg{{Value: Value{Kind: ValueEnum, Text: "Kind.COMMAND_NAME"}}}}}, semantic.CommandName, true},
		{"no annotation", element{}, 0, false},
		{"no arguments", element{ResolveContext: {Name: ResolveContext}}, 0, false},
		{"string argument", element{ResolveContext: {Name: ResolveContext, Args: []Arg{{Value: Value{Kind: ValueString, Text: "PluginId"}}}}}, 0, false},
		{"unknown enum constant", element{ResolveContext: {Name: ResolveContext, Args: []Arg{{Value: Value{Kind: ValueEnum, Text: "PluginDescription"}}}}}, 0, false},
		{"nil element", nil, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var e Element
			if tt.elem != nil {
				e = tt.elem
			}
			got, ok := ResolveTag(e)
			if ok != tt.ok || (ok && got != tt.want) {
				t.Errorf("ResolveTag() = %v, %v, want %v, %v", got, ok, tt.want, tt.ok)
			}
		})
	}
}
