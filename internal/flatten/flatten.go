package flatten

import (
	"errors"

	"github.com/structflat/structflat/internal/decl"
	"github.com/structflat/structflat/internal/token"
)

// Stream runs one complete invocation: flatten the declaration held by input,
// then collapse transparent groups in the assembled output. forcePub upgrades
// the outermost declaration's visibility so a declaration exposed from a
// public surface stays reachable after being lifted out of its original
// lexical position.
func Stream(input []token.Tree, forcePub bool) ([]token.Tree, error) {
	out := &Output{}
	Flatten(input, nil, forcePub, out)
	if err := out.Err(); err != nil {
		return nil, err
	}
	return Finalize(out.Tokens()), nil
}

// Flatten rewrites the declaration held by input onto out. Nested
// declarations discovered in field types are appended to out before the
// declaration itself, so emission order is post-order with siblings
// left-to-right. The returned generics let a caller splicing a reference to
// this declaration re-project its parameter list at the use site.
func Flatten(input []token.Tree, strikeAttrs []decl.Attribute, makePub bool, out *Output) *decl.GenericParams {
	if out.err != nil {
		return nil
	}
	span := token.StreamSpan(input)
	input = appendAliasSemicolon(input)
	input = hoistInnerAttrs(input)

	// Snapshot the carried set: sibling branches append independently.
	strikeAttrs = append([]decl.Attribute(nil), strikeAttrs...)

	parsed, err := decl.Parse(input)
	if err != nil {
		var unsup *decl.UnsupportedError
		if errors.As(err, &unsup) {
			anchor := span
			if sp := unsup.Keyword.Span; sp.IsValid() {
				anchor = &sp
			}
			out.report(anchor, "Unsupported declaration (only struct, enum, union, and type are allowed)")
			return nil
		}
		msg := err.Error()
		var pe *decl.ParseError
		if errors.As(err, &pe) {
			msg = pe.Msg
			if pe.Span != nil {
				span = pe.Span
			}
		}
		out.report(span, msg)
		return nil
	}

	strikeThroughAttributes(&parsed.Attributes, &strikeAttrs, out)
	hints := newNameHints(parsed.Name.Text, &parsed.Attributes)

	switch parsed.Kind {
	case decl.KindStruct:
		recurseThroughFields(parsed.Fields, strikeAttrs, out, false, hints, parsed.Name.Span)
	case decl.KindEnum:
		for _, v := range parsed.Variants {
			recurseThroughFields(v.Fields, strikeAttrs, out, parsed.Vis.IsPlainPub(), hints.withVariantName(v.Name), v.NameSpan)
		}
	case decl.KindUnion:
		namedFields(parsed.Fields, strikeAttrs, out, false, hints)
	case decl.KindAlias:
		ttok := parsed.Value
		parsed.Value = nil
		var rewritten []token.Tree
		recurseThroughTypeList(typeTree(ttok, out), strikeAttrs, out, nil, false, &rewritten)
		parsed.Value = rewritten
		// an alias holding an embedded declaration may have lost its
		// terminator to the nested parse; synthesize one
		parsed.HasSemi = true
	}

	if makePub && parsed.Vis == nil {
		parsed.Vis = decl.PlainPub()
	}
	// Parsing fragments may have dropped the terminator of a tuple struct.
	if parsed.Kind == decl.KindStruct && parsed.Fields.Style == decl.FieldsTuple && !parsed.HasSemi {
		parsed.HasSemi = true
	}

	out.Append(parsed.Tokens()...)
	return parsed.Generics
}

// appendAliasSemicolon terminates a bare type alias: input that mentions
// `type` but no other declaration keyword at its top level gets a trailing
// semicolon, which the grammar needs and invocation fragments tend to drop.
func appendAliasSemicolon(input []token.Tree) []token.Tree {
	hasType := false
	for _, t := range input {
		if t.IsIdent("type") {
			hasType = true
			break
		}
	}
	if !hasType {
		return input
	}
	for _, t := range input {
		if t.Kind == token.Ident && t.Text != "type" && isDeclKeyword(t.Text) {
			return input
		}
	}
	if n := len(input); n > 0 && input[n-1].IsPunct(';') {
		return input
	}
	return append(append([]token.Tree{}, input...), token.NewPunct(';', token.Alone, token.Span{}))
}

// hoistInnerAttrs moves attributes written in inner position at the head of
// a brace body (`#![...]`) out to outer position ahead of the declaration.
// The grammar only accepts outer attributes, so this must run before parsing.
func hoistInnerAttrs(input []token.Tree) []token.Tree {
	var prefix, ret []token.Tree
	for _, t := range input {
		if t.Kind != token.Group || t.Delim != token.DelimBrace {
			ret = append(ret, t)
			continue
		}
		gt := t.Tokens
		for len(gt) >= 3 && gt[0].IsPunct('#') && gt[1].IsPunct('!') && gt[2].Kind == token.Group {
			prefix = append(prefix, gt[0], gt[2])
			gt = gt[3:]
		}
		ret = append(ret, token.NewGroup(t.Delim, gt, t.Span))
	}
	return append(prefix, ret...)
}
