package check

import (
	"strings"
	"testing"

	"idlint/internal/diag"
	"idlint/internal/testkit"
	"idlint/internal/validate"
)

func collect(c *Checker, d *testkit.Decl) []diag.Diagnostic {
	var out []diag.Diagnostic
	c.Check(d, diag.ReporterFunc(func(d diag.Diagnostic) { out = append(out, d) }))
	return out
}

func codes(ds []diag.Diagnostic) string {
	ids := make([]string, 0, len(ds))
	for _, d := range ds {
		ids = append(ids, d.Code.ID())
	}
	return strings.Join(ids, ",")
}

func TestCheckAmbiguousCallUnion(t *testing.T) {
	var b testkit.Builder
	arg := b.Opaque()
	okArg := b.Lit("ok")
	badArg := b.Lit("bad id")
	// two candidates binding the same source argument to different values
	okArg.Sp, badArg.Sp = arg.Sp, arg.Sp

	p1 := b.Tagged("id", "PluginId")
	p2 := b.Tagged("id", "PluginId")
	first := b.Call("Register", testkit.Bind(p1, okArg))
	second := b.SameSite(first, "Register", testkit.Bind(p2, badArg))

	got := collect(New(testkit.Host{}, nil), b.Decl("main", first, second))
	if codes(got) != "PLG1003,PLG1003" {
		t.Fatalf("codes = %s", codes(got))
	}
	if !strings.Contains(got[1].Message, `"bad id"`) {
		t.Errorf("second diagnostic should come from \"bad id\": %s", got[1].Message)
	}
	for _, d := range got {
		if d.Primary != arg.Sp {
			t.Errorf("diagnostic anchored at %v, want %v", d.Primary, arg.Sp)
		}
	}
}

func TestCheckValidatesDistinctValuesOnce(t *testing.T) {
	var b testkit.Builder
	a1 := b.Lit("plugin")
	a2 := b.Lit("plugin")
	a2.Sp = a1.Sp
	p := b.Tagged("id", "PluginId")
	first := b.Call("Register", testkit.Bind(p, a1))
	second := b.SameSite(first, "Register", testkit.Bind(p, a2))

	got := collect(New(testkit.Host{}, nil), b.Decl("main", first, second))
	if codes(got) != "PLG1002" {
		t.Fatalf("codes = %s", codes(got))
	}
}

func TestCheckSkips(t *testing.T) {
	var b testkit.Builder
	tests := []struct {
		name string
		decl *testkit.Decl
	}{
		{"untagged parameter", b.Decl("d", b.Call("f", testkit.Bind(b.Plain("id"), b.Lit(""))))},
		{"unknown kind", b.Decl("d", b.Call("f", testkit.Bind(b.Tagged("id", "PluginDescription"), b.Lit(""))))},
		{"string kind", b.Decl("d", b.Call("f", testkit.Bind(b.Tagged("id", `"PluginId"`), b.Lit(""))))},
		{"unregistered tag", b.Decl("d", b.Call("f", testkit.Bind(b.Tagged("t", "RestrictedNoArgConstructor"), b.Lit(""))))},
		{"dynamic value", b.Decl("d", b.Call("f", testkit.Bind(b.Tagged("id", "PluginId"), b.Opaque())))},
		{"omitted argument", b.Decl("d", b.Call("f", testkit.Bind(b.Tagged("id", "PluginId"), nil)))},
		{"no calls", b.Decl("d")},
	}
	c := New(testkit.Host{}, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := collect(c, tt.decl); len(got) != 0 {
				t.Fatalf("unexpected diagnostics: %s", codes(got))
			}
		})
	}
}

func TestCheckOrderAndConstants(t *testing.T) {
	var b testkit.Builder
	idConst := b.Const("pluginID", b.Lit("nodots"))
	call := b.Call("Describe",
		testkit.Bind(b.Tagged("id", "PluginId"), b.Ref(idConst)),
		testkit.Bind(b.Tagged("version", "PluginVersion"), b.Lit("1.0")),
		testkit.Bind(b.Tagged("name", "PLUGIN_NAME"), b.Lit("Example")),
	)
	cmds := b.Tagged("names", "CommandName")
	cmds.IsVariadic = true
	reg := b.Call("Commands",
		testkit.Bind(cmds, b.Lit("help")),
		testkit.Bind(cmds, b.Lit("my command")),
		testkit.Bind(cmds, b.Lit("a.b")),
	)
	perm := b.Call("Permission", testkit.Bind(b.Tagged("id", "Kind.PermissionId"), b.Opaque("ns:sub:name", "ns:ok")))

	got := collect(New(testkit.Host{}, nil), b.Decl("onEnable", call, reg, perm))
	if want := "PLG1003,PLG1201,CMD2002,CMD2004,PRM3203"; codes(got) != want {
		t.Fatalf("codes = %s, want %s", codes(got), want)
	}
}

func TestCheckIdempotent(t *testing.T) {
	var b testkit.Builder
	decl := b.Decl("d",
		b.Call("f", testkit.Bind(b.Tagged("id", "PermissionId"), b.Lit("name"))),
		b.Call("g", testkit.Bind(b.Tagged("ns", "PermissionNamespace"), b.Lit("a b"))),
	)
	c := New(testkit.Host{}, nil)
	first := collect(c, decl)
	second := collect(c, decl)
	if codes(first) != codes(second) || len(first) != 2 {
		t.Fatalf("runs differ: %s vs %s", codes(first), codes(second))
	}
	for i := range first {
		if first[i].Message != second[i].Message || first[i].Primary != second[i].Primary {
			t.Errorf("diagnostic %d differs", i)
		}
	}
}

func TestCheckNotesAndRegistry(t *testing.T) {
	var b testkit.Builder
	p := b.Tagged("name", "PluginName")
	decl := b.Decl("d", b.Call("f", testkit.Bind(p, b.Lit("Core"))))

	reg := validate.NewRegistry(validate.Options{
		ForbiddenPluginNames: []string{"core"},
		Severity:             nil,
	})
	got := collect(New(testkit.Host{}, reg, Options{Notes: true}), decl)
	if len(got) != 1 {
		t.Fatalf("got %d diagnostics", len(got))
	}
	if len(got[0].Notes) != 1 {
		t.Fatalf("notes = %+v", got[0].Notes)
	}
	n := got[0].Notes[0]
	if n.Span != p.Sp || n.Msg != `parameter "name" is tagged PluginName` {
		t.Errorf("note = %+v", n)
	}
}

func TestCheckNilSafety(t *testing.T) {
	var b testkit.Builder
	var c *Checker
	c.Check(b.Decl("d"), diag.ReporterFunc(func(diag.Diagnostic) { t.Fatal("unexpected report") }))
	New(testkit.Host{}, nil).Check(nil, diag.ReporterFunc(func(diag.Diagnostic) { t.Fatal("unexpected report") }))
}
