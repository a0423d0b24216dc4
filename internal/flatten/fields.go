package flatten

import (
	"strings"

	"github.com/structflat/structflat/internal/decl"
	"github.com/structflat/structflat/internal/token"
)

func recurseThroughFields(fields *decl.FieldList, strikeAttrs []decl.Attribute, out *Output, inPubEnum bool, hints nameHints, span token.Span) {
	switch fields.Style {
	case decl.FieldsUnit:
	case decl.FieldsNamed:
		namedFields(fields, strikeAttrs, out, inPubEnum, hints)
	case decl.FieldsTuple:
		tupleFields(fields, strikeAttrs, out, inPubEnum, hints, span)
	}
}

func namedFields(n *decl.FieldList, strikeAttrs []decl.Attribute, out *Output, inPubEnum bool, hints nameHints) {
	for _, field := range n.Fields {
		// narrow a fresh copy of the context per field so sibling fields
		// never see each other's path
		h := hints.withFieldName(strings.TrimPrefix(field.Name, "r#"))
		nameHint := h.ident(-1, field.NameSpan)
		ttok := field.Type
		field.Type = nil
		var rewritten []token.Tree
		recurseThroughTypeList(typeTree(ttok, out), strikeAttrs, out, &nameHint,
			field.Vis.IsPlainPub() || inPubEnum, &rewritten)
		field.Type = rewritten
	}
}

func tupleFields(t *decl.FieldList, strikeAttrs []decl.Attribute, out *Output, inPubEnum bool, hints nameHints, span token.Span) {
	for num, field := range t.Fields {
		h := hints
		ttok := field.Type
		field.Type = nil
		nodes := typeTree(ttok, out)

		// `struct Foo(pub struct Bar());` is ambiguous: does the pub belong
		// to Bar or to Foo.0? The grammar hands it to the field, but the
		// inner declaration is the better owner, so transfer the marker onto
		// the declaration tokens unless one is already there. Writing
		// `(pub pub struct Bar())` keeps both public.
		hasPub := false
		for i := range nodes {
			if !nodes[i].group && nodes[i].tok.IsIdent("pub") {
				hasPub = true
				break
			}
		}
		if !hasPub && field.Vis != nil {
			vis := field.Vis
			field.Vis = nil
			pre := make([]typeNode, 0, len(vis.Tokens)+len(nodes))
			for _, vt := range vis.Tokens {
				pre = append(pre, plainNode(vt))
			}
			nodes = append(pre, nodes...)
		}

		nameHint := h.ident(num, span)
		var rewritten []token.Tree
		recurseThroughTypeList(nodes, strikeAttrs, out, &nameHint,
			field.Vis.IsPlainPub() || inPubEnum, &rewritten)
		field.Type = rewritten
	}
}

// recurseThroughTypeList processes one comma-separated list of type
// expressions, copying the separating commas through to typeRet.
func recurseThroughTypeList(nodes []typeNode, strikeAttrs []decl.Attribute, out *Output, nameHint *token.Tree, pubHint bool, typeRet *[]token.Tree) {
	for {
		end := -1
		for i := range nodes {
			if nodes[i].isPunct(',') {
				end = i
				break
			}
		}
		cur := nodes
		if end >= 0 {
			cur = nodes[:end]
		}
		recurseThroughType(cur, strikeAttrs, out, nameHint, pubHint, typeRet)
		if end < 0 {
			return
		}
		*typeRet = append(*typeRet, nodes[end].tok)
		nodes = nodes[end+1:]
	}
}

// recurseThroughType scans one type expression for a nested declaration,
// lifts it when found, and splices the (possibly synthesized) name plus
// re-projected generics into typeRet in its place.
func recurseThroughType(nodes []typeNode, strikeAttrs []decl.Attribute, out *Output, nameHint *token.Tree, pubHint bool, typeRet *[]token.Tree) {
	// a colon at top level that is not part of a :: path usually means a
	// field list was intended but a single expression was parsed
	for i := 0; i+2 < len(nodes); i++ {
		if nodes[i+1].isPunct(':') && !nodes[i].isPunct(':') && !nodes[i+2].isPunct(':') {
			sp := nodes[i+1].tok.Span
			out.report(&sp, "Colon in top level of type expression. Did you forget a comma somewhere?")
			break
		}
	}

	kw := -1
	for i := range nodes {
		if nodes[i].declKeyword() != nil {
			kw = i
			break
		}
	}
	if kw < 0 {
		// no declaration here, but generic arguments may still hide one
		unTypeTree(nodes, typeRet, func(g []typeNode, tr *[]token.Tree) {
			recurseThroughTypeList(g, strikeAttrs, out, nameHint, false, tr)
		})
		return
	}

	for i := kw + 1; i < len(nodes); i++ {
		if d := nodes[i].declKeyword(); d != nil {
			sp := d.Span
			out.report(&sp, "More than one struct/enum/.. declaration found")
			return
		}
	}

	var flat []token.Tree
	unTreeType(nodes, &flat)
	pos := -1
	for i, t := range flat {
		if t.Kind == token.Ident && isDeclKeyword(t.Text) {
			pos = i
			break
		}
	}

	var generics *decl.GenericParams
	if pos+1 < len(flat) && flat[pos+1].Kind == token.Ident {
		// explicitly named: reference it as-is and lift unchanged
		*typeRet = append(*typeRet, flat[pos+1])
		generics = Flatten(flat, strikeAttrs, pubHint, out)
	} else {
		var name token.Tree
		if nameHint != nil {
			name = *nameHint
		} else {
			out.report(token.StreamSpan(flat), "No context for naming substructure")
			name = token.NewPunct('!', token.Alone, token.Span{})
		}
		rebuilt := make([]token.Tree, 0, len(flat)+1)
		rebuilt = append(rebuilt, flat[:pos+1]...)
		rebuilt = append(rebuilt, name)
		rebuilt = append(rebuilt, flat[pos+1:]...)
		generics = Flatten(rebuilt, strikeAttrs, pubHint, out)
		*typeRet = append(*typeRet, name)
	}
	if generics != nil {
		*typeRet = generics.AppendReference(*typeRet)
	}
}
