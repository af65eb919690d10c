package binder

import (
	"testing"

	"idlint/internal/testkit"
)

func TestBindEmptyDeclaration(t *testing.T) {
	var b testkit.Builder
	if got := Bind(testkit.Host{}, b.Decl("empty")); len(got) != 0 {
		t.Fatalf("expected no bindings, got %d", len(got))
	}
	if got := Bind(nil, b.Decl("empty")); got != nil {
		t.Fatalf("nil resolver should produce nil, got %v", got)
	}
}

func TestBindDropsOmittedArguments(t *testing.T) {
	var b testkit.Builder
	id := b.Tagged("id", "PluginId")
	name := b.Tagged("name", "PluginName")
	arg := b.Lit("a.b")
	call := b.Call("Register", testkit.Bind(id, arg), testkit.Bind(name, nil))

	got := Bind(testkit.Host{}, b.Decl("init", call))
	if len(got) != 1 {
		t.Fatalf("bindings = %d, want 1", len(got))
	}
	if len(got[0].Args) != 1 || got[0].Args[0].Param != id || got[0].Args[0].Arg != arg {
		t.Fatalf("args = %+v", got[0].Args)
	}
}

func TestBindKeepsEveryCandidate(t *testing.T) {
	var b testkit.Builder
	p1 := b.Tagged("id", "PluginId")
	p2 := b.Tagged("id", "PluginId")
	first := b.Call("Register", testkit.Bind(p1, b.Lit("ok")))
	second := b.SameSite(first, "Register", testkit.Bind(p2, b.Lit("bad id")))

	got := Bind(testkit.Host{}, b.Decl("main", first, second))
	if len(got) != 2 {
		t.Fatalf("bindings = %d, want 2", len(got))
	}
	if got[0].Call.Site() != got[1].Call.Site() {
		t.Error("candidates should share the call site")
	}
}

func TestBindVariadicProducesPairPerArgument(t *testing.T) {
	var b testkit.Builder
	names := b.Tagged("names", "CommandName")
	names.IsVariadic = true
	call := b.Call("Commands",
		testkit.Bind(names, b.Lit("help")),
		testkit.Bind(names, b.Lit("my command")),
	)
	got := Bind(testkit.Host{}, b.Decl("setup", call))
	if len(got) != 1 || len(got[0].Args) != 2 {
		t.Fatalf("bindings = %+v", got)
	}
	for _, pa := range got[0].Args {
		if pa.Param != names {
			t.Errorf("variadic argument bound to %v", pa.Param)
		}
	}
}
