package diagfmt

import (
	"fmt"
	"go/token"
	"io"

	"idlint/internal/diag"
)

// Short writes one line per diagnostic, sorted by location.
func Short(w io.Writer, bag *diag.Bag, fset *token.FileSet, baseDir string, notes bool) error {
	if bag == nil || bag.Len() == 0 {
		return nil
	}
	out := diag.FormatShortDiagnostics(bag.Items(), fset, baseDir, notes)
	_, err := fmt.Fprintln(w, out)
	return err
}
