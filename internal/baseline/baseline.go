// Package baseline records known findings so a run only reports new ones.
package baseline

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"go/token"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"idlint/internal/diag"
	"idlint/internal/source"
)

// bump when File changes shape
const schemaVersion uint16 = 1

var ErrSchemaMismatch = errors.New("baseline schema mismatch")

// Digest is a sha256 fingerprint of one finding.
type Digest [32]byte

func (d Digest) String() string { return hex.EncodeToString(d[:8]) }

type Entry struct {
	Fingerprint Digest `msgpack:"fp"`
	Code        string `msgpack:"code"`
	Path        string `msgpack:"path"`
	Message     string `msgpack:"msg"`
}

type File struct {
	Schema  uint16    `msgpack:"schema"`
	Created time.Time `msgpack:"created"`
	Entries []Entry   `msgpack:"entries"`
}

// Fingerprint hashes the parts of a finding that survive unrelated edits:
// the file, the code, the message and the trimmed text of the line.
func Fingerprint(relPath string, code diag.Code, msg, lineText string) Digest {
	h := sha256.New()
	for _, part := range []string{filepath.ToSlash(relPath), code.ID(), msg, strings.TrimSpace(lineText)} {
		_, _ = h.Write([]byte(part))
		_, _ = h.Write([]byte{0})
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

// lines caches file contents while fingerprinting a run.
type lines map[string][][]byte

func (c lines) text(path string, line int) string {
	content, ok := c[path]
	if !ok {
		data, err := os.ReadFile(path)
		if err == nil {
			content = bytes.Split(data, []byte("\n"))
		}
		c[path] = content
	}
	if line <= 0 || line > len(content) {
		return ""
	}
	return string(content[line-1])
}

// Fingerprinter computes fingerprints of diagnostics of one run.
type Fingerprinter struct {
	fset    *token.FileSet
	baseDir string
	cache   lines
}

func NewFingerprinter(fset *token.FileSet, baseDir string) *Fingerprinter {
	return &Fingerprinter{fset: fset, baseDir: baseDir, cache: make(lines)}
}

func (f *Fingerprinter) entry(d *diag.Diagnostic) Entry {
	var path, text string
	if loc, ok := source.Resolve(f.fset, d.Primary); ok {
		path = source.FormatPath(loc.Path, "relative", f.baseDir)
		text = f.cache.text(loc.Path, int(loc.Start.Line))
	}
	return Entry{
		Fingerprint: Fingerprint(path, d.Code, d.Message, text),
		Code:        d.Code.ID(),
		Path:        path,
		Message:     d.Message,
	}
}

// FromDiagnostics builds a baseline holding every diagnostic.
func FromDiagnostics(diags []*diag.Diagnostic, fp *Fingerprinter) *File {
	out := &File{Schema: schemaVersion, Created: time.Now().UTC(), Entries: make([]Entry, 0, len(diags))}
	for _, d := range diags {
		out.Entries = append(out.Entries, fp.entry(d))
	}
	sort.SliceStable(out.Entries, func(i, j int) bool {
		a, b := out.Entries[i], out.Entries[j]
		if a.Path != b.Path {
			return a.Path < b.Path
		}
		return bytes.Compare(a.Fingerprint[:], b.Fingerprint[:]) < 0
	})
	return out
}

// Apply removes diagnostics recorded in f from bag and returns how many were
// removed. Each entry absorbs at most one diagnostic.
func (f *File) Apply(bag *diag.Bag, fp *Fingerprinter) int {
	if f == nil || bag == nil {
		return 0
	}
	budget := make(map[Digest]int, len(f.Entries))
	for _, e := range f.Entries {
		budget[e.Fingerprint]++
	}
	return bag.Filter(func(d *diag.Diagnostic) bool {
		key := fp.entry(d).Fingerprint
		if budget[key] > 0 {
			budget[key]--
			return false
		}
		return true
	})
}

// Write stores f at path atomically.
func Write(path string, f *File) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".idlint-baseline-*")
	if err != nil {
		return err
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if err := msgpack.NewEncoder(tmp).Encode(f); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("encode baseline: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	// атомарная замена
	return os.Rename(tmp.Name(), path)
}

// Read loads a baseline written by Write.
func Read(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f File
	if err := msgpack.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode baseline %s: %w", path, err)
	}
	if f.Schema != schemaVersion {
		return nil, fmt.Errorf("%s: %w (got %d, want %d)", path, ErrSchemaMismatch, f.Schema, schemaVersion)
	}
	return &f, nil
}
