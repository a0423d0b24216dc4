package token

import "fmt"

// Position is a single point in source code.
type Position struct {
	Line   int // 1-based line number
	Column int // 1-based column number
	Offset int // 0-based byte offset in source
}

// IsValid returns true if the position is valid.
func (p Position) IsValid() bool {
	return p.Line > 0 && p.Column > 0 && p.Offset >= 0
}

// Span is a range of source code between two positions, end exclusive.
type Span struct {
	Filename string
	Start    Position
	End      Position
}

// IsValid returns true if the span is valid.
func (s Span) IsValid() bool {
	return s.Start.IsValid() && s.End.IsValid() && s.Start.Offset <= s.End.Offset
}

// Join returns a span that encompasses both s and other. Spans from different
// files cannot be merged; s wins.
func (s Span) Join(other Span) Span {
	if !s.IsValid() {
		return other
	}
	if !other.IsValid() || s.Filename != other.Filename {
		return s
	}
	ret := s
	if other.Start.Offset < ret.Start.Offset {
		ret.Start = other.Start
	}
	if other.End.Offset > ret.End.Offset {
		ret.End = other.End
	}
	return ret
}

// String returns a file:line:column rendering of the span start.
func (s Span) String() string {
	if s.Filename != "" {
		return fmt.Sprintf("%s:%d:%d", s.Filename, s.Start.Line, s.Start.Column)
	}
	return fmt.Sprintf("%d:%d", s.Start.Line, s.Start.Column)
}
