package baseline

import (
	"errors"
	"go/token"
	"os"
	"path/filepath"
	"testing"

	"github.com/vmihailenco/msgpack/v5"

	"idlint/internal/diag"
	"idlint/internal/source"
)

func setup(t *testing.T) (string, *token.FileSet, *token.File) {
	t.Helper()
	dir := t.TempDir()
	src := "package p\n\nfunc f() {\n\tRegister(\"plugin\")\n\tRegister(\"plugin\")\n}\n"
	path := filepath.Join(dir, "p.go")
	if err := os.WriteFile(path, []byte(src), 0o600); err != nil {
		t.Fatal(err)
	}
	fset := token.NewFileSet()
	tf := fset.AddFile(path, -1, len(src))
	tf.SetLinesForContent([]byte(src))
	return dir, fset, tf
}

func newDiag(tf *token.File, line int) *diag.Diagnostic {
	d := diag.NewError(diag.PluginIDReserved, source.At(tf.LineStart(line)+10, 8), `reserved word "plugin" not allowed as plugin id`)
	return &d
}

func TestRoundTripAndApply(t *testing.T) {
	dir, fset, tf := setup(t)
	fp := NewFingerprinter(fset, dir)

	recorded := []*diag.Diagnostic{newDiag(tf, 4)}
	path := filepath.Join(dir, ".idlint", "baseline.mp")
	if err := Write(path, FromDiagnostics(recorded, fp)); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, err := Read(path)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(got.Entries) != 1 || got.Entries[0].Path != "p.go" || got.Entries[0].Code != "PLG1002" {
		t.Fatalf("entries = %+v", got.Entries)
	}

	// lines 4 and 5 have identical text: one entry absorbs exactly one of them
	bag := diag.NewBag(0)
	bag.Add(newDiag(tf, 4))
	bag.Add(newDiag(tf, 5))
	if removed := got.Apply(bag, NewFingerprinter(fset, dir)); removed != 1 {
		t.Fatalf("removed = %d, want 1", removed)
	}
	if bag.Len() != 1 {
		t.Fatalf("remaining = %d", bag.Len())
	}
}

func TestFingerprintIgnoresIndentation(t *testing.T) {
	a := Fingerprint("a/p.go", diag.CommandNameDot, "msg", "\tRegister(\"a.b\")")
	b := Fingerprint("a/p.go", diag.CommandNameDot, "msg", "    Register(\"a.b\")  ")
	c := Fingerprint("a/q.go", diag.CommandNameDot, "msg", "Register(\"a.b\")")
	if a != b {
		t.Error("indentation should not change the fingerprint")
	}
	if a == c {
		t.Error("different files must differ")
	}
}

func TestReadSchemaMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "old.mp")
	data, err := msgpack.Marshal(&File{Schema: schemaVersion + 1})
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Read(path); !errors.Is(err, ErrSchemaMismatch) {
		t.Fatalf("err = %v, want ErrSchemaMismatch", err)
	}
}
