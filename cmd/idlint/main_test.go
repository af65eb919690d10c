package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"idlint/internal/config"
	"idlint/internal/diag"
	"idlint/internal/diagfmt"
	"idlint/internal/source"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	root := newRootCmd()
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func TestCodesCommand(t *testing.T) {
	out, _, err := execute(t, "codes")
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != len(diag.Codes()) {
		t.Fatalf("codes listed = %d, want %d", len(lines), len(diag.Codes()))
	}
	if !strings.HasPrefix(lines[0], "PLG1001") {
		t.Fatalf("first line = %q", lines[0])
	}
}

func TestCodesJSON(t *testing.T) {
	out, _, err := execute(t, "codes", "--format", "json")
	if err != nil {
		t.Fatal(err)
	}
	var payload []codePayload
	if err := json.Unmarshal([]byte(out), &payload); err != nil {
		t.Fatal(err)
	}
	found := false
	for _, p := range payload {
		if p.ID == "PRM3203" {
			found = strings.Contains(p.Title, "namespace:name")
		}
	}
	if !found {
		t.Fatalf("PRM3203 missing from %s", out)
	}
}

func TestInitWritesLoadableConfig(t *testing.T) {
	dir := t.TempDir()
	if _, _, err := execute(t, "init", dir); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, "idlint.toml")
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("generated config does not load: %v", err)
	}
	if cfg.Output.Format != "pretty" {
		t.Fatalf("format = %q", cfg.Output.Format)
	}

	if _, _, err := execute(t, "init", dir); err == nil {
		t.Fatal("second init must refuse to overwrite")
	}
	if _, _, err := execute(t, "init", "--force", dir); err != nil {
		t.Fatalf("--force: %v", err)
	}
}

func TestVersionJSON(t *testing.T) {
	out, _, err := execute(t, "version", "--format", "json")
	if err != nil {
		t.Fatal(err)
	}
	var payload map[string]any
	if err := json.Unmarshal([]byte(out), &payload); err != nil {
		t.Fatal(err)
	}
	if payload["tool"] != "idlint" || payload["version"] == "" {
		t.Fatalf("unexpected payload: %v", payload)
	}
}

func TestVersionRejectsFormat(t *testing.T) {
	if _, _, err := execute(t, "version", "--format", "xml"); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestResolveSettings(t *testing.T) {
	cfg := config.Default()
	cfg.Output.Notes = true
	cfg.Check.Jobs = 2
	cfg.Check.MaxDiagnostics = 7

	tests := []struct {
		name    string
		flags   []string
		check   func(t *testing.T, s checkSettings)
		wantErr bool
	}{
		{
			name:  "config only",
			flags: nil,
			check: func(t *testing.T, s checkSettings) {
				if s.format != diagfmt.FormatPretty || !s.notes || s.jobs != 2 || s.maxDiagnostics != 7 {
					t.Fatalf("unexpected settings: %+v", s)
				}
			},
		},
		{
			name:  "flags override",
			flags: []string{"--format", "sarif", "--with-notes=false", "--jobs", "3", "--max-diagnostics", "5", "--fullpath"},
			check: func(t *testing.T, s checkSettings) {
				if s.format != diagfmt.FormatSarif || s.notes || s.jobs != 3 || s.maxDiagnostics != 5 {
					t.Fatalf("unexpected settings: %+v", s)
				}
				if s.pathMode != diagfmt.PathModeAbsolute {
					t.Fatalf("path mode = %v", s.pathMode)
				}
			},
		},
		{name: "bad ui", flags: []string{"--ui", "maybe"}, wantErr: true},
		{name: "negative jobs", flags: []string{"--jobs", "-1"}, wantErr: true},
		{name: "bad format", flags: []string{"--format", "xml"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := newRootCmd()
			root.SetOut(&bytes.Buffer{})
			cmd, _, err := root.Find([]string{"check"})
			if err != nil {
				t.Fatal(err)
			}
			if err := cmd.ParseFlags(tt.flags); err != nil {
				t.Fatal(err)
			}
			s, err := resolveSettings(cmd, cfg)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %+v", s)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			tt.check(t, s)
		})
	}
}

func TestPrintSummary(t *testing.T) {
	bag := diag.NewBag(0)
	bag.Add(&diag.Diagnostic{Severity: diag.SevError, Code: diag.PluginIDBlank, Primary: source.Span{}})
	bag.Add(&diag.Diagnostic{Severity: diag.SevWarning, Code: diag.CommandNameDot})
	var buf bytes.Buffer
	printSummary(&buf, bag, 2, 1)
	if got, want := buf.String(), "\n1 error(s), 1 warning(s), 0 info, 2 suppressed, 1 baselined\n"; got != want {
		t.Fatalf("summary = %q, want %q", got, want)
	}
}

func TestReadUIMode(t *testing.T) {
	for in, want := range map[string]uiMode{"": uiModeAuto, "AUTO": uiModeAuto, "on": uiModeOn, " off ": uiModeOff} {
		got, err := readUIMode(in)
		if err != nil || got != want {
			t.Errorf("readUIMode(%q) = %q, %v", in, got, err)
		}
	}
}

const demoPlugins = `package plugins

//idlint:resolve id PluginId
func Register(id string) {}
`

const demoApp = `package app

import "example.com/demo/plugins"

func init() {
	plugins.Register("plugin")
	plugins.Register("net.example.ok")
}
`

func writeDemo(t *testing.T) string {
	t.Helper()
	return writeModule(t, map[string]string{
		"plugins/plugins.go": demoPlugins,
		"app/app.go":         demoApp,
	})
}

func writeModule(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	files["go.mod"] = "module example.com/demo\n\ngo 1.22\n"
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestCheckCommandShort(t *testing.T) {
	dir := writeDemo(t)
	t.Chdir(dir)

	out, _, err := execute(t, "check", "--ui", "off", "--format", "short")
	if !errors.Is(err, errFindings) {
		t.Fatalf("err = %v, want errFindings", err)
	}
	want := `error PLG1002 app/app.go:6:19 reserved word "plugin" not allowed as plugin id`
	if strings.TrimSpace(out) != want {
		t.Fatalf("output:\n got %q\nwant %q", out, want)
	}
}

func TestCheckCommandBaseline(t *testing.T) {
	dir := writeDemo(t)
	t.Chdir(dir)
	base := filepath.Join(dir, ".idlint", "baseline.msgpack")

	_, stderr, err := execute(t, "check", "--ui", "off", "--write-baseline", base)
	if err != nil {
		t.Fatalf("write baseline: %v", err)
	}
	if !strings.Contains(stderr, "recorded 1 finding(s)") {
		t.Fatalf("stderr = %q", stderr)
	}

	out, stderr, err := execute(t, "check", "--ui", "off", "--color", "off", "--baseline", base)
	if err != nil {
		t.Fatalf("check with baseline: %v\n%s", err, out)
	}
	if strings.TrimSpace(out) != "" || !strings.Contains(stderr, "1 baselined") {
		t.Fatalf("stdout %q stderr %q", out, stderr)
	}
}

func TestCheckCommandDisabledByConfig(t *testing.T) {
	dir := writeDemo(t)
	t.Chdir(dir)
	cfg := "[check]\ndisabled = [\"PluginId\"]\n"
	if err := os.WriteFile(filepath.Join(dir, "idlint.toml"), []byte(cfg), 0o600); err != nil {
		t.Fatal(err)
	}
	out, _, err := execute(t, "check", "--ui", "off", "--format", "json")
	if err != nil {
		t.Fatalf("err = %v", err)
	}
	var doc diagfmt.DiagnosticsOutput
	if err := json.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatal(err)
	}
	if doc.Count != 0 {
		t.Fatalf("count = %d, want 0", doc.Count)
	}
}

func TestCheckCommandLimitKeepsExitStatus(t *testing.T) {
	dir := writeModule(t, map[string]string{
		"plugins/plugins.go": `package plugins

//idlint:resolve id PluginId
func Register(id string) {}

//idlint:resolve name PluginName
func Name(name string) {}
`,
		"app/app.go": `package app

import "example.com/demo/plugins"

func init() {
	plugins.Name("main")
	plugins.Register("plugin")
}
`,
		"idlint.toml": "[severity]\nPluginName = \"warning\"\n",
	})
	t.Chdir(dir)

	out, _, err := execute(t, "check", "--ui", "off", "--format", "short", "--max-diagnostics", "1")
	if !errors.Is(err, errFindings) {
		t.Fatalf("err = %v, want errFindings", err)
	}
	if !strings.Contains(out, "PLG1102") || strings.Contains(out, "PLG1002") {
		t.Fatalf("output = %q", out)
	}
}
