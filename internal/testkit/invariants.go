package testkit

import (
	"fmt"
	"go/token"

	"fortio.org/safecast"

	"idlint/internal/diag"
	"idlint/internal/source"
)

// CheckSpanInvariants runs a minimal set of span invariants on a reported
// diagnostic:
// 1) the primary span is non-empty and lies inside one file of fset
// 2) every note span that is set lies inside one file of fset
func CheckSpanInvariants(fset *token.FileSet, d diag.Diagnostic) error {
	if fset == nil {
		return fmt.Errorf("nil file set")
	}
	if d.Primary.Empty() {
		return fmt.Errorf("%s: empty primary span %v", d.Code.ID(), d.Primary)
	}
	if err := spanInFile(fset, d.Primary); err != nil {
		return fmt.Errorf("%s primary: %w", d.Code.ID(), err)
	}
	for i, n := range d.Notes {
		if !n.Span.IsValid() {
			continue
		}
		if err := spanInFile(fset, n.Span); err != nil {
			return fmt.Errorf("%s note %d: %w", d.Code.ID(), i, err)
		}
	}
	return nil
}

func spanInFile(fset *token.FileSet, sp source.Span) error {
	if sp.End < sp.Start {
		return fmt.Errorf("span end before start: %v", sp)
	}
	f := fset.File(sp.Start)
	if f == nil {
		return fmt.Errorf("span start %d outside file set", sp.Start)
	}
	size, err := safecast.Conv[token.Pos](f.Size())
	if err != nil {
		return fmt.Errorf("file size overflow: %w", err)
	}
	base, err := safecast.Conv[token.Pos](f.Base())
	if err != nil {
		return fmt.Errorf("file base overflow: %w", err)
	}
	if sp.End > base+size {
		return fmt.Errorf("span %v crosses the end of %s", sp, f.Name())
	}
	return nil
}
