package diag

import (
	"go/token"
	"testing"

	"idlint/internal/source"
)

func TestFormatShortDiagnostics(t *testing.T) {
	fset := token.NewFileSet()
	content := []byte("a\nb\n")
	f := fset.AddFile("/workspace/testdata/golden/sample.go", -1, len(content))
	f.SetLinesForContent(content)

	diags := []*Diagnostic{
		{
			Severity: SevWarning,
			Code:     PluginNameReserved,
			Message:  "another",
			Primary:  source.Span{Start: f.Pos(2), End: f.Pos(3)},
		},
		{
			Severity: SevError,
			Code:     PluginIDBlank,
			Message:  "first line\nsecond",
			Primary:  source.Span{Start: f.Pos(0), End: f.Pos(1)},
			Notes: []Note{
				{Span: source.Span{Start: f.Pos(2), End: f.Pos(3)}, Msg: "note line"},
			},
		},
	}

	expected := "error PLG1001 testdata/golden/sample.go:1:1 first line second\n" +
		"note PLG1001 testdata/golden/sample.go:2:1 note line\n" +
		"warning PLG1102 testdata/golden/sample.go:2:1 another"

	if got := FormatShortDiagnostics(diags, fset, "/workspace", true); got != expected {
		t.Fatalf("unexpected short diagnostics:\nwant:\n%s\n\ngot:\n%s", expected, got)
	}

	withoutNotes := "error PLG1001 testdata/golden/sample.go:1:1 first line second\n" +
		"warning PLG1102 testdata/golden/sample.go:2:1 another"
	if got := FormatShortDiagnostics(diags, fset, "/workspace", false); got != withoutNotes {
		t.Fatalf("unexpected short diagnostics without notes:\n%s", got)
	}
}
