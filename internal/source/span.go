package source

import (
	"fmt"
	"go/token"
)

// Span is a half-open range of positions inside a token.FileSet.
type Span struct {
	Start token.Pos // включительно
	End   token.Pos // не включительно
}

// SpanOf returns the span covered by a node-like value.
func SpanOf(n interface {
	Pos() token.Pos
	End() token.Pos
}) Span {
	if n == nil {
		return Span{}
	}
	return Span{Start: n.Pos(), End: n.End()}
}

// At returns a span of length n starting at pos.
func At(pos token.Pos, n int) Span {
	if !pos.IsValid() {
		return Span{}
	}
	return Span{Start: pos, End: pos + token.Pos(n)}
}

func (s Span) IsValid() bool {
	return s.Start.IsValid()
}

func (s Span) Empty() bool {
	return s.Start == s.End
}

func (s Span) Len() int {
	if s.End < s.Start {
		return 0
	}
	return int(s.End - s.Start)
}

func (s Span) String() string {
	return fmt.Sprintf("%d-%d", s.Start, s.End)
}

// Cover returns the smallest span containing both s and other.
func (s Span) Cover(other Span) Span {
	if !other.IsValid() {
		return s
	}
	if !s.IsValid() {
		return other
	}
	if other.Start < s.Start {
		s.Start = other.Start
	}
	if other.End > s.End {
		s.End = other.End
	}
	return s
}

// Contains reports whether pos lies inside the span.
func (s Span) Contains(pos token.Pos) bool {
	return s.IsValid() && pos >= s.Start && pos < s.End
}
