// Package token defines the token-tree representation shared by the scanner,
// the declaration parser, and the flattening engine. A stream is an ordered
// slice of Trees; a Tree is an identifier, a punctuation character, a literal,
// or a delimited group owning a nested stream. Angle brackets are not a
// delimiter here: `<` and `>` stay plain puncts and are only grouped later by
// the flattener's type tokenizer.
package token

import "strings"

// Kind discriminates the variants of a Tree.
type Kind uint8

const (
	Ident Kind = iota
	Punct
	Literal
	Group
)

// Spacing records whether a punct is immediately followed by another punct
// with no whitespace in between. Joint spacing is what makes `::` a path
// separator rather than two stray colons.
type Spacing uint8

const (
	Alone Spacing = iota
	Joint
)

// Delimiter identifies the bracket pair of a Group. DelimNone marks a
// transparent group: a wrapper with no delimiter semantics that the stream
// finalizer collapses.
type Delimiter uint8

const (
	DelimParen Delimiter = iota
	DelimBracket
	DelimBrace
	DelimNone
)

func (d Delimiter) Open() string {
	switch d {
	case DelimParen:
		return "("
	case DelimBracket:
		return "["
	case DelimBrace:
		return "{"
	}
	return ""
}

func (d Delimiter) Close() string {
	switch d {
	case DelimParen:
		return ")"
	case DelimBracket:
		return "]"
	case DelimBrace:
		return "}"
	}
	return ""
}

// Tree is one node of a token stream.
//
// Kind=Ident:   Text is the identifier (raw identifiers keep their r# prefix).
// Kind=Punct:   Text is a single punctuation character, Spacing is set.
// Kind=Literal: Text is the literal exactly as written, quotes included.
// Kind=Group:   Delim and Tokens are set.
type Tree struct {
	Kind    Kind
	Text    string
	Spacing Spacing
	Delim   Delimiter
	Tokens  []Tree
	Span    Span
}

func NewIdent(text string, span Span) Tree {
	return Tree{Kind: Ident, Text: text, Span: span}
}

func NewPunct(ch rune, spacing Spacing, span Span) Tree {
	return Tree{Kind: Punct, Text: string(ch), Spacing: spacing, Span: span}
}

func NewLiteral(text string, span Span) Tree {
	return Tree{Kind: Literal, Text: text, Span: span}
}

func NewGroup(delim Delimiter, tokens []Tree, span Span) Tree {
	return Tree{Kind: Group, Delim: delim, Tokens: tokens, Span: span}
}

// IsIdent reports whether t is the identifier text.
func (t Tree) IsIdent(text string) bool {
	return t.Kind == Ident && t.Text == text
}

// IsPunct reports whether t is the punctuation character ch.
func (t Tree) IsPunct(ch rune) bool {
	return t.Kind == Punct && t.Text == string(ch)
}

// StreamSpan returns the best available contiguous source range covering the
// stream: the join of every token's span, stopping at the first unjoinable
// span. Returns nil for an empty stream.
func StreamSpan(stream []Tree) *Span {
	var ret *Span
	for i := range stream {
		sp := stream[i].Span
		if !sp.IsValid() {
			return ret
		}
		if ret == nil {
			joined := sp
			ret = &joined
		} else {
			joined := ret.Join(sp)
			ret = &joined
		}
	}
	return ret
}

// String renders a stream back to source text. Tokens are separated by single
// spaces except directly after a joint punct, so `::` and `'a` survive the
// round trip.
func String(stream []Tree) string {
	var b strings.Builder
	writeStream(&b, stream)
	return b.String()
}

func writeStream(b *strings.Builder, stream []Tree) {
	joint := false
	for i, t := range stream {
		if i > 0 && !joint {
			b.WriteByte(' ')
		}
		joint = t.Kind == Punct && t.Spacing == Joint
		switch t.Kind {
		case Group:
			b.WriteString(t.Delim.Open())
			if len(t.Tokens) > 0 {
				if t.Delim != DelimNone {
					b.WriteByte(' ')
				}
				writeStream(b, t.Tokens)
				if t.Delim != DelimNone {
					b.WriteByte(' ')
				}
			}
			b.WriteString(t.Delim.Close())
		default:
			b.WriteString(t.Text)
		}
	}
}
