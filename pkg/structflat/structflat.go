// Package structflat is the public surface of the flattening engine. Give it
// source text holding one declaration whose field or variant types contain
// inline nested declarations; it returns the same tree rewritten as a flat
// sequence of independent top-level declarations, each nested declaration
// replaced in place by a reference to a synthesized or extracted name.
package structflat

import (
	"github.com/structflat/structflat/internal/flatten"
	"github.com/structflat/structflat/internal/scan"
	"github.com/structflat/structflat/internal/token"
)

// Options control one flattening run.
//
// Filename – name used in diagnostic spans, may be empty.
// ForcePub – upgrade the outermost declaration's visibility to pub.
type Options struct {
	Filename string `json:"filename,omitempty" yaml:"filename,omitempty" mapstructure:"filename,omitempty"`
	ForcePub bool   `json:"force_pub,omitempty" yaml:"force_pub,omitempty" mapstructure:"force_pub,omitempty"`
}

// functional option pattern ---------------------------------------------------

type Option func(*Options)

func WithFilename(name string) Option { return func(o *Options) { o.Filename = name } }
func WithForcePub() Option            { return func(o *Options) { o.ForcePub = true } }

// Flatten scans source, runs the engine once, and renders the flattened
// declaration sequence back to text. Structural problems that could be
// anchored to a source position come back inside the output as compile_error
// markers; only an unanchorable error is returned as an error.
func Flatten(source string, opts ...Option) (string, error) {
	o := &Options{}
	for _, fn := range opts {
		fn(o)
	}
	toks, err := scan.Tokens(o.Filename, source)
	if err != nil {
		return "", err
	}
	out, err := FlattenTokens(toks, o)
	if err != nil {
		return "", err
	}
	return token.String(out), nil
}

// FlattenTokens runs the engine over an already scanned token stream. This is
// the entry point for callers that hold tokens rather than text; the
// finalization pass over transparent groups is included.
func FlattenTokens(input []token.Tree, o *Options) ([]token.Tree, error) {
	if o == nil {
		o = &Options{}
	}
	return flatten.Stream(input, o.ForcePub)
}
