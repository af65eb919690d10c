package diagfmt

import (
	"bytes"
	"go/token"
	"os"

	"idlint/internal/source"
)

// LocationJSON is a resolved span.
type LocationJSON struct {
	File      string `json:"file"`
	StartByte uint32 `json:"start_byte"`
	EndByte   uint32 `json:"end_byte"`
	StartLine uint32 `json:"start_line,omitempty"`
	StartCol  uint32 `json:"start_col,omitempty"`
	EndLine   uint32 `json:"end_line,omitempty"`
	EndCol    uint32 `json:"end_col,omitempty"`
}

func makeLocation(sp source.Span, fset *token.FileSet, mode PathMode, baseDir string, positions bool) (LocationJSON, bool) {
	loc, ok := source.Resolve(fset, sp)
	if !ok {
		return LocationJSON{}, false
	}
	out := LocationJSON{
		File:      source.FormatPath(loc.Path, mode.String(), baseDir),
		StartByte: loc.StartOffset,
		EndByte:   loc.EndOffset,
	}
	if positions {
		out.StartLine, out.StartCol = loc.Start.Line, loc.Start.Col
		out.EndLine, out.EndCol = loc.End.Line, loc.End.Col
	}
	return out, true
}

// sourceCache keeps file contents read while rendering.
type sourceCache map[string][]byte

// line returns the text of the line containing offset and the offset of the
// line start.
func (c sourceCache) line(path string, offset int) (string, int, bool) {
	content, ok := c[path]
	if !ok {
		data, err := os.ReadFile(path)
		if err != nil {
			data = nil
		}
		c[path] = data
		content = data
	}
	if content == nil || offset < 0 || offset > len(content) {
		return "", 0, false
	}
	start := bytes.LastIndexByte(content[:offset], '\n') + 1
	end := bytes.IndexByte(content[offset:], '\n')
	if end < 0 {
		end = len(content)
	} else {
		end += offset
	}
	return string(bytes.TrimRight(content[start:end], "\r")), start, true
}
