// Package scan turns source text into a token stream. The surface syntax is
// Rust-like: `//` and nestable `/* */` comments are skipped, identifiers may
// carry an `r#` prefix, lifetimes scan as a joint `'` punct followed by an
// identifier, and the three native bracket pairs become Group trees. Angle
// brackets are ordinary puncts at this stage.
package scan

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/structflat/structflat/internal/token"
)

// Scanner holds the state of one pass over a source buffer.
type Scanner struct {
	filename string
	src      string
	offset   int
	line     int
	column   int
}

// New returns a Scanner over src. filename is only used for span rendering
// and may be empty.
func New(filename, src string) *Scanner {
	return &Scanner{filename: filename, src: src, line: 1, column: 1}
}

// Tokens scans src into a token stream in one call.
func Tokens(filename, src string) ([]token.Tree, error) {
	return New(filename, src).Scan()
}

// Scan consumes the whole buffer and returns the token stream. Unbalanced or
// mismatched native delimiters are an error: there is no safe structure to
// recover at this level.
func (s *Scanner) Scan() ([]token.Tree, error) {
	stream, err := s.scanStream(0)
	if err != nil {
		return nil, err
	}
	if s.offset < len(s.src) {
		return nil, fmt.Errorf("%s: unexpected %q", s.spanHere(), s.src[s.offset])
	}
	return stream, nil
}

func closeDelim(open byte) (byte, token.Delimiter) {
	switch open {
	case '(':
		return ')', token.DelimParen
	case '[':
		return ']', token.DelimBracket
	default:
		return '}', token.DelimBrace
	}
}

// scanStream scans tokens until end of input or the closing delimiter of the
// enclosing group. want is 0 at the top level.
func (s *Scanner) scanStream(want byte) ([]token.Tree, error) {
	var stream []token.Tree
	for {
		s.skipTrivia()
		if s.offset >= len(s.src) {
			if want != 0 {
				return nil, fmt.Errorf("%s: missing closing %q", s.spanHere(), want)
			}
			return stream, nil
		}
		c := s.src[s.offset]
		r, _ := utf8.DecodeRuneInString(s.src[s.offset:])
		switch {
		case c == want:
			return stream, nil
		case c == '(' || c == '[' || c == '{':
			start := s.position()
			closer, delim := closeDelim(c)
			s.advance(1)
			inner, err := s.scanStream(closer)
			if err != nil {
				return nil, err
			}
			s.advance(1) // the closer
			stream = append(stream, token.NewGroup(delim, inner, s.spanFrom(start)))
		case c == ')' || c == ']' || c == '}':
			return nil, fmt.Errorf("%s: unexpected %q", s.spanHere(), c)
		case c == '"':
			lit, err := s.scanString()
			if err != nil {
				return nil, err
			}
			stream = append(stream, lit)
		case c == '\'':
			stream = append(stream, s.scanQuote()...)
		case isIdentStart(r):
			stream = append(stream, s.scanIdent())
		case unicode.IsDigit(r):
			stream = append(stream, s.scanNumber())
		default:
			stream = append(stream, s.scanPunct())
		}
	}
}

func (s *Scanner) skipTrivia() {
	for s.offset < len(s.src) {
		switch {
		case s.src[s.offset] == ' ' || s.src[s.offset] == '\t' || s.src[s.offset] == '\n' || s.src[s.offset] == '\r':
			s.advance(1)
		case strings.HasPrefix(s.src[s.offset:], "//"):
			for s.offset < len(s.src) && s.src[s.offset] != '\n' {
				s.advance(1)
			}
		case strings.HasPrefix(s.src[s.offset:], "/*"):
			depth := 0
			for s.offset < len(s.src) {
				if strings.HasPrefix(s.src[s.offset:], "/*") {
					depth++
					s.advance(2)
				} else if strings.HasPrefix(s.src[s.offset:], "*/") {
					depth--
					s.advance(2)
					if depth == 0 {
						break
					}
				} else {
					s.advance(1)
				}
			}
		default:
			return
		}
	}
}

func (s *Scanner) scanIdent() token.Tree {
	start := s.position()
	// r#ident stays one identifier token, prefix included
	if strings.HasPrefix(s.src[s.offset:], "r#") && s.offset+2 < len(s.src) && isIdentStart(rune(s.src[s.offset+2])) {
		s.advance(2)
	}
	for s.offset < len(s.src) {
		r, size := utf8.DecodeRuneInString(s.src[s.offset:])
		if !isIdentPart(r) {
			break
		}
		s.advance(size)
	}
	sp := s.spanFrom(start)
	return token.NewIdent(s.src[start.Offset:s.offset], sp)
}

func (s *Scanner) scanNumber() token.Tree {
	start := s.position()
	for s.offset < len(s.src) {
		c := rune(s.src[s.offset])
		if !unicode.IsDigit(c) && !isIdentPart(c) && c != '.' {
			break
		}
		// `1..2` is two range dots, not part of the number
		if c == '.' && strings.HasPrefix(s.src[s.offset:], "..") {
			break
		}
		s.advance(1)
	}
	return token.NewLiteral(s.src[start.Offset:s.offset], s.spanFrom(start))
}

func (s *Scanner) scanString() (token.Tree, error) {
	start := s.position()
	s.advance(1)
	for s.offset < len(s.src) {
		switch s.src[s.offset] {
		case '\\':
			s.advance(2)
		case '"':
			s.advance(1)
			return token.NewLiteral(s.src[start.Offset:s.offset], s.spanFrom(start)), nil
		default:
			s.advance(1)
		}
	}
	return token.Tree{}, fmt.Errorf("%s: unterminated string literal", s.spanFrom(start))
}

// scanQuote disambiguates char literals from lifetimes. `'a'` is one literal;
// `'a` with no closing quote is a joint `'` punct and the identifier scans
// separately, the same shape a proc-macro token stream has.
func (s *Scanner) scanQuote() []token.Tree {
	start := s.position()
	rest := s.src[s.offset+1:]
	if len(rest) > 0 {
		if rest[0] == '\\' {
			// escaped char literal: consume through the closing quote
			s.advance(2)
			for s.offset < len(s.src) && s.src[s.offset] != '\'' {
				s.advance(1)
			}
			if s.offset < len(s.src) {
				s.advance(1)
			}
			return []token.Tree{token.NewLiteral(s.src[start.Offset:s.offset], s.spanFrom(start))}
		}
		if r, size := utf8.DecodeRuneInString(rest); size > 0 && len(rest) > size && rest[size] == '\'' && !isIdentStart(r) {
			s.advance(1 + size + 1)
			return []token.Tree{token.NewLiteral(s.src[start.Offset:s.offset], s.spanFrom(start))}
		}
		if r, size := utf8.DecodeRuneInString(rest); size > 0 && isIdentStart(r) {
			// 'a' char literal vs 'a lifetime: look one rune further
			if len(rest) > size && rest[size] == '\'' {
				s.advance(1 + size + 1)
				return []token.Tree{token.NewLiteral(s.src[start.Offset:s.offset], s.spanFrom(start))}
			}
			s.advance(1)
			return []token.Tree{token.NewPunct('\'', token.Joint, s.spanFrom(start))}
		}
	}
	s.advance(1)
	return []token.Tree{token.NewPunct('\'', token.Alone, s.spanFrom(start))}
}

func (s *Scanner) scanPunct() token.Tree {
	start := s.position()
	c, size := utf8.DecodeRuneInString(s.src[s.offset:])
	s.advance(size)
	spacing := token.Alone
	if s.offset < len(s.src) && isPunctChar(rune(s.src[s.offset])) {
		spacing = token.Joint
	}
	return token.NewPunct(c, spacing, s.spanFrom(start))
}

func (s *Scanner) advance(n int) {
	for i := 0; i < n && s.offset < len(s.src); i++ {
		if s.src[s.offset] == '\n' {
			s.line++
			s.column = 1
		} else {
			s.column++
		}
		s.offset++
	}
}

func (s *Scanner) position() token.Position {
	return token.Position{Line: s.line, Column: s.column, Offset: s.offset}
}

func (s *Scanner) spanFrom(start token.Position) token.Span {
	return token.Span{Filename: s.filename, Start: start, End: s.position()}
}

func (s *Scanner) spanHere() token.Span {
	end := s.position()
	end.Column++
	end.Offset++
	return token.Span{Filename: s.filename, Start: s.position(), End: end}
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func isPunctChar(r rune) bool {
	switch r {
	case '!', '#', '$', '%', '&', '*', '+', ',', '-', '.', '/', ':', ';', '<', '=', '>', '?', '@', '^', '|', '~', '\'':
		return true
	}
	return false
}
