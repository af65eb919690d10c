package source

import (
	"go/token"

	"fortio.org/safecast"
)

// LineCol represents a human-readable position in a source file.
type LineCol struct {
	Line uint32 // 1-based
	Col  uint32 // 1-based, in bytes
}

// Location is a span resolved against a token.FileSet.
type Location struct {
	Path        string
	Start       LineCol
	End         LineCol
	StartOffset uint32
	EndOffset   uint32
}

// Resolve maps a span to file coordinates. It reports false when the span
// does not belong to any file of fset.
func Resolve(fset *token.FileSet, sp Span) (Location, bool) {
	if fset == nil || !sp.IsValid() {
		return Location{}, false
	}
	file := fset.File(sp.Start)
	if file == nil {
		return Location{}, false
	}
	end := sp.End
	if !end.IsValid() || end < sp.Start || int(end) > file.Base()+file.Size() {
		end = sp.Start
	}
	start := file.Position(sp.Start)
	stop := file.Position(end)

	loc := Location{Path: start.Filename}
	var err error
	if loc.Start, err = lineCol(start); err != nil {
		return Location{}, false
	}
	if loc.End, err = lineCol(stop); err != nil {
		return Location{}, false
	}
	if loc.StartOffset, err = safecast.Conv[uint32](start.Offset); err != nil {
		return Location{}, false
	}
	if loc.EndOffset, err = safecast.Conv[uint32](stop.Offset); err != nil {
		return Location{}, false
	}
	return loc, true
}

func lineCol(p token.Position) (LineCol, error) {
	line, err := safecast.Conv[uint32](p.Line)
	if err != nil {
		return LineCol{}, err
	}
	col, err := safecast.Conv[uint32](p.Column)
	if err != nil {
		return LineCol{}, err
	}
	return LineCol{Line: line, Col: col}, nil
}
