package flatten

import "github.com/structflat/structflat/internal/token"

// Finalize post-processes an assembled output stream: transparent groups
// (delimiter-less wrappers picked up from upstream expansion) are collapsed
// by splicing their contents into the parent level. Real groups keep their
// own span while their children are rebuilt.
func Finalize(stream []token.Tree) []token.Tree {
	out := make([]token.Tree, 0, len(stream))
	for _, t := range stream {
		if t.Kind != token.Group {
			out = append(out, t)
			continue
		}
		inner := Finalize(t.Tokens)
		if t.Delim == token.DelimNone {
			out = append(out, inner...)
		} else {
			out = append(out, token.NewGroup(t.Delim, inner, t.Span))
		}
	}
	return out
}
