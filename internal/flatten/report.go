// Package flatten implements the declaration flattening engine: it walks a
// declaration's fields and variants, lifts every inline nested declaration to
// an independent top-level declaration, and emits the results in post-order
// (a declaration follows everything nested inside it). Structural problems
// become inline compile_error markers so unrelated parts of the tree still
// produce output.
package flatten

import (
	"fmt"
	"strconv"

	"github.com/structflat/structflat/internal/token"
)

const markerNamespace = "structflat"

// Output accumulates the emitted token stream for one invocation. Errors with
// a usable span become inline markers; an error with no span at all is fatal
// because there is no safe point to anchor a marker.
type Output struct {
	tokens []token.Tree
	err    error
}

// Tokens returns the stream assembled so far.
func (o *Output) Tokens() []token.Tree {
	return o.tokens
}

// Err returns the fatal error, if any was recorded.
func (o *Output) Err() error {
	return o.err
}

// Append adds tokens to the output stream.
func (o *Output) Append(toks ...token.Tree) {
	o.tokens = append(o.tokens, toks...)
}

// report converts a structural error into an inline error marker anchored at
// span. With no span available the whole invocation is aborted instead.
func (o *Output) report(span *token.Span, msg string) {
	text := fmt.Sprintf("%s error: %s - starting from:", markerNamespace, msg)
	if span == nil {
		if o.err == nil {
			o.err = fmt.Errorf("%s", text)
		}
		return
	}
	o.Append(
		token.NewIdent("compile_error", *span),
		token.NewPunct('!', token.Alone, *span),
		token.NewGroup(token.DelimParen, []token.Tree{
			token.NewLiteral(strconv.Quote(text), *span),
		}, *span),
		token.NewPunct(';', token.Alone, *span),
	)
}
