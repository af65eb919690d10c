package config

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"idlint/internal/diag"
	"idlint/internal/semantic"
	"idlint/internal/source"
)

func write(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadTOML(t *testing.T) {
	dir := t.TempDir()
	path := write(t, dir, "idlint.toml", `
[check]
disabled = ["CommandName"]
jobs = 4

[rules.plugin-id]
forbidden = ["internal"]

[rules.plugin-name]
forbidden = []

[severity]
PermissionId = "warning"

[output]
format = "sarif"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Check.Jobs != 4 || cfg.Output.Format != "sarif" || cfg.Output.Color != "auto" {
		t.Errorf("cfg = %+v", cfg)
	}
	opts, err := cfg.Options()
	if err != nil {
		t.Fatal(err)
	}
	if len(opts.Disabled) != 1 || opts.Disabled[0] != semantic.CommandName {
		t.Errorf("disabled = %v", opts.Disabled)
	}
	if opts.Severity[semantic.PermissionID] != diag.SevWarning {
		t.Errorf("severity = %v", opts.Severity)
	}
	if len(opts.ForbiddenPluginIDs) != 1 || opts.ForbiddenPluginNames == nil || len(opts.ForbiddenPluginNames) != 0 {
		t.Errorf("forbidden = %v / %v", opts.ForbiddenPluginIDs, opts.ForbiddenPluginNames)
	}

	reg, err := cfg.Registry()
	if err != nil {
		t.Fatal(err)
	}
	name, _ := reg.ValidatorFor(semantic.PluginName)
	if _, bad := name(source.Span{}, "plugin"); bad {
		t.Error("empty plugin-name table should reserve nothing")
	}
}

func TestLoadYAMLDefaults(t *testing.T) {
	dir := t.TempDir()
	path := write(t, dir, ".idlint.yaml", "check:\n  tests: true\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cfg.Check.Tests {
		t.Error("tests flag not read")
	}
	if len(cfg.Rules.PluginID.Forbidden) != 5 || cfg.Output.Format != "pretty" {
		t.Errorf("defaults not applied: %+v", cfg)
	}
}

func TestLoadRejects(t *testing.T) {
	tests := []struct {
		name, file, body, want string
	}{
		{"unknown key", "idlint.toml", "[check]\njbos = 1\n", "unknown keys: check.jbos"},
		{"unknown tag", "idlint.toml", "[check]\ndisabled = [\"PluginDescription\"]\n", "Disabled"},
		{"bad severity", "idlint.toml", "[severity]\nPluginId = \"fatal\"\n", "oneof"},
		{"bad format", ".idlint.yaml", "output:\n  format: xml\n", "Format"},
		{"unknown yaml field", ".idlint.yaml", "outptu: {}\n", "failed to parse YAML"},
		{"negative jobs", "idlint.toml", "[check]\njobs = -1\n", "Jobs"},
		{"blank reserved word", "idlint.toml", "[rules.plugin-id]\nforbidden = [\"\"]\n", "Forbidden"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := write(t, t.TempDir(), tt.file, tt.body)
			_, err := Load(path)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("err = %v, want containing %q", err, tt.want)
			}
		})
	}
}

func TestFind(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	want := write(t, root, "idlint.toml", "")
	got, err := Find(nested)
	if err != nil || got != want {
		t.Fatalf("Find = %q, %v; want %q", got, err, want)
	}

	cfg, err := Discover(nested)
	if err != nil || cfg.Path != want {
		t.Fatalf("Discover = %+v, %v", cfg, err)
	}
}

func TestFindNone(t *testing.T) {
	if _, err := Find(t.TempDir()); err != nil && !errors.Is(err, ErrNoConfig) {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := Encode(&buf, Default()); err != nil {
		t.Fatal(err)
	}
	path := write(t, t.TempDir(), "idlint.toml", buf.String())
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load(encoded default): %v\n%s", err, buf.String())
	}
	if cfg.Output.Format != "pretty" || len(cfg.Rules.PluginName.Forbidden) != 5 {
		t.Errorf("cfg = %+v", cfg)
	}
}
