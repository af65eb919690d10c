package validate

import (
	"strings"
	"testing"

	"idlint/internal/diag"
	"idlint/internal/semantic"
	"idlint/internal/source"
)

var anchor = source.At(10, 5)

func run(t *testing.T, tag semantic.Tag, value string) (diag.Diagnostic, bool) {
	t.Helper()
	f, ok := Default.ValidatorFor(tag)
	if !ok {
		t.Fatalf("no validator for %s", tag)
	}
	return f(anchor, value)
}

func TestRules(t *testing.T) {
	tests := []struct {
		tag   semantic.Tag
		value string
		code  diag.Code // UnknownCode = valid
	}{
		{semantic.PluginID, "net.mamoe.mirai.example-plugin", diag.UnknownCode},
		{semantic.PluginID, "org.example.Plugin-2", diag.UnknownCode},
		{semantic.PluginID, "", diag.PluginIDBlank},
		{semantic.PluginID, "   ", diag.PluginIDBlank},
		{semantic.PluginID, "plugin", diag.PluginIDReserved},
		{semantic.PluginID, "CONSOLE", diag.PluginIDReserved},
		{semantic.PluginID, "nodots", diag.PluginIDNoSeparator},
		{semantic.PluginID, "a..b", diag.PluginIDPattern},
		{semantic.PluginID, ".a.b", diag.PluginIDPattern},
		{semantic.PluginID, "a.b-", diag.PluginIDPattern},
		{semantic.PluginID, "a-b.c", diag.PluginIDPattern},
		{semantic.PluginID, "org.example1.x", diag.PluginIDPattern},
		{semantic.PluginID, "bad id.x", diag.PluginIDPattern},

		{semantic.PluginName, "Example", diag.UnknownCode},
		{semantic.PluginName, "", diag.PluginNameBlank},
		{semantic.PluginName, "Main", diag.PluginNameReserved},

		{semantic.PluginVersion, "1.0.0", diag.UnknownCode},
		{semantic.PluginVersion, "1.0.0-beta.1", diag.UnknownCode},
		{semantic.PluginVersion, "1.0.0+build.5", diag.UnknownCode},
		{semantic.PluginVersion, "1.0.0-rc.1+sha.abc", diag.UnknownCode},
		{semantic.PluginVersion, "1.0", diag.PluginVersionInvalid},
		{semantic.PluginVersion, "v1.0.0", diag.PluginVersionInvalid},
		{semantic.PluginVersion, "01.0.0", diag.PluginVersionInvalid},
		{semantic.PluginVersion, "1.0.0-", diag.PluginVersionInvalid},
		{semantic.PluginVersion, "", diag.PluginVersionInvalid},

		{semantic.CommandName, "help", diag.UnknownCode},
		{semantic.CommandName, "", diag.CommandNameBlank},
		{semantic.CommandName, "my command", diag.CommandNameWhitespace},
		{semantic.CommandName, "tab\there", diag.CommandNameWhitespace},
		{semantic.CommandName, "ns:cmd", diag.CommandNameColon},
		{semantic.CommandName, "a.b", diag.CommandNameDot},

		{semantic.PermissionNamespace, "console", diag.UnknownCode},
		{semantic.PermissionNamespace, "", diag.PermNamespaceBlank},
		{semantic.PermissionNamespace, "my ns", diag.PermNamespaceWhitespace},
		{semantic.PermissionNamespace, "a:b", diag.PermNamespaceColon},

		{semantic.PermissionName, "command.help", diag.UnknownCode},
		{semantic.PermissionName, "", diag.PermNameBlank},
		{semantic.PermissionName, "a b", diag.PermNameWhitespace},
		{semantic.PermissionName, "a:b", diag.PermNameColon},

		{semantic.PermissionID, "ns:name", diag.UnknownCode},
		{semantic.PermissionID, "", diag.PermIDBlank},
		{semantic.PermissionID, "ns: name", diag.PermIDWhitespace},
		{semantic.PermissionID, "ns:sub:name", diag.PermIDSeparator},
		{semantic.PermissionID, "name", diag.PermIDSeparator},
	}
	for _, tt := range tests {
		t.Run(tt.tag.String()+"/"+tt.value, func(t *testing.T) {
			d, ok := run(t, tt.tag, tt.value)
			if tt.code == diag.UnknownCode {
				if ok {
					t.Fatalf("unexpected diagnostic %s: %s", d.Code.ID(), d.Message)
				}
				return
			}
			if !ok {
				t.Fatalf("expected %s, got none", tt.code.ID())
			}
			if d.Code != tt.code {
				t.Fatalf("code = %s, want %s (%s)", d.Code.ID(), tt.code.ID(), d.Message)
			}
			if d.Severity != diag.SevError {
				t.Errorf("severity = %s", d.Severity)
			}
			if d.Primary != anchor {
				t.Errorf("anchor = %v", d.Primary)
			}
		})
	}
}

func TestEmptyValueMessages(t *testing.T) {
	for _, tag := range semantic.All() {
		f, ok := Default.ValidatorFor(tag)
		if !ok {
			continue
		}
		d, ok := f(anchor, "")
		if !ok {
			t.Fatalf("%s: empty value accepted", tag)
		}
		want := "blank"
		if tag == semantic.PluginVersion {
			want = "invalid version string"
		}
		if !strings.Contains(d.Message, want) {
			t.Errorf("%s: message %q does not mention %q", tag, d.Message, want)
		}
	}
}

func TestMessages(t *testing.T) {
	tests := []struct {
		tag   semantic.Tag
		value string
		want  string
	}{
		{semantic.PluginID, "plugin", `reserved word "plugin" not allowed as plugin id`},
		{semantic.PluginID, "nodots", `plugin id "nodots" must contain a group segment and a name segment separated by '.'`},
		{semantic.PluginName, "data", `reserved word "data" not allowed as plugin name`},
		{semantic.CommandName, "my command", `whitespace not allowed in command name "my command"`},
		{semantic.PermissionID, "name", `permission id "name" must have the form namespace:name (exactly one ':', found 0)`},
	}
	for _, tt := range tests {
		d, ok := run(t, tt.tag, tt.value)
		if !ok || d.Message != tt.want {
			t.Errorf("%s(%q) = %q, want %q", tt.tag, tt.value, d.Message, tt.want)
		}
	}
}

func TestValidatorsAreTotal(t *testing.T) {
	inputs := []string{"", " ", "\x00", "ü.ö", strings.Repeat("a.", 1000) + "b", "::::", "1.2.3.4", " "}
	for _, tag := range semantic.All() {
		f, ok := Default.ValidatorFor(tag)
		if !ok {
			continue
		}
		for _, in := range inputs {
			d1, ok1 := f(anchor, in)
			d2, ok2 := f(anchor, in)
			if ok1 != ok2 || d1.Code != d2.Code || d1.Message != d2.Message {
				t.Errorf("%s(%q) not deterministic", tag, in)
			}
		}
	}
}
