package decl

import "github.com/structflat/structflat/internal/token"

// Tokens serializes the declaration back to a token stream. Inner attributes
// come out in outer position; the flattener hoists them before parsing, so
// nothing is lost.
func (d *Declaration) Tokens() []token.Tree {
	var out []token.Tree
	out = AppendAttributes(out, d.Attributes)
	if d.Vis != nil {
		out = append(out, d.Vis.Tokens...)
	}
	out = append(out, token.NewIdent(d.Kind.Keyword(), d.Name.Span))
	out = append(out, d.Name)
	if d.Generics != nil {
		out = d.Generics.appendFull(out)
	}

	switch d.Kind {
	case KindStruct:
		if d.Fields.Style == FieldsTuple {
			out = append(out, fieldListGroup(d.Fields))
			out = append(out, d.Where...)
		} else {
			out = append(out, d.Where...)
			if d.Fields.Style == FieldsNamed {
				out = append(out, fieldListGroup(d.Fields))
			}
		}
	case KindUnion:
		out = append(out, d.Where...)
		out = append(out, fieldListGroup(d.Fields))
	case KindEnum:
		out = append(out, d.Where...)
		out = append(out, d.variantsGroup())
	case KindAlias:
		out = append(out, d.Where...)
		out = append(out, token.NewPunct('=', token.Alone, token.Span{}))
		out = append(out, d.Value...)
	}

	if d.HasSemi {
		out = append(out, token.NewPunct(';', token.Alone, token.Span{}))
	}
	return out
}

// AppendAttributes serializes attrs onto out.
func AppendAttributes(out []token.Tree, attrs []Attribute) []token.Tree {
	for i := range attrs {
		a := &attrs[i]
		inner := append([]token.Tree{}, a.Path...)
		switch a.ValueKind {
		case AttrGroup:
			inner = append(inner, token.NewGroup(a.Delim, a.Value, a.Span))
		case AttrEquals:
			inner = append(inner, token.NewPunct('=', token.Alone, token.Span{}))
			inner = append(inner, a.Value...)
		}
		out = append(out, token.NewPunct('#', token.Alone, a.Span))
		out = append(out, token.NewGroup(token.DelimBracket, inner, a.Span))
	}
	return out
}

// appendFull writes the parameter list with prefixes and bounds intact, the
// form used at the declaration site.
func (g *GenericParams) appendFull(out []token.Tree) []token.Tree {
	out = append(out, token.NewPunct('<', token.Alone, g.Span))
	for i, p := range g.Params {
		if i > 0 {
			out = append(out, token.NewPunct(',', token.Alone, token.Span{}))
		}
		if p.Prefix != nil {
			out = append(out, *p.Prefix)
		}
		out = append(out, p.Name)
		out = append(out, p.Bound...)
	}
	return append(out, token.NewPunct('>', token.Alone, g.Span))
}

// AppendReference writes the parameter-name list used when referencing the
// declaration: bounds stripped, prefixes kept only when they are punctuation
// (a lifetime quote), since identifier prefixes like const are not part of a
// use-site reference.
func (g *GenericParams) AppendReference(out []token.Tree) []token.Tree {
	out = append(out, token.NewPunct('<', token.Alone, g.Span))
	for i, p := range g.Params {
		if i > 0 {
			out = append(out, token.NewPunct(',', token.Alone, token.Span{}))
		}
		if p.Prefix != nil && p.Prefix.Kind == token.Punct {
			out = append(out, *p.Prefix)
		}
		out = append(out, p.Name)
	}
	return append(out, token.NewPunct('>', token.Alone, g.Span))
}

func fieldListGroup(fl *FieldList) token.Tree {
	var inner []token.Tree
	for i, f := range fl.Fields {
		if i > 0 {
			inner = append(inner, token.NewPunct(',', token.Alone, token.Span{}))
		}
		inner = AppendAttributes(inner, f.Attributes)
		if f.Vis != nil {
			inner = append(inner, f.Vis.Tokens...)
		}
		if fl.Style == FieldsNamed {
			inner = append(inner, token.NewIdent(f.Name, f.NameSpan))
			inner = append(inner, token.NewPunct(':', token.Alone, f.NameSpan))
		}
		inner = append(inner, f.Type...)
	}
	delim := token.DelimBrace
	if fl.Style == FieldsTuple {
		delim = token.DelimParen
	}
	return token.NewGroup(delim, inner, fl.Span)
}

func (d *Declaration) variantsGroup() token.Tree {
	var inner []token.Tree
	for i, v := range d.Variants {
		if i > 0 {
			inner = append(inner, token.NewPunct(',', token.Alone, token.Span{}))
		}
		inner = AppendAttributes(inner, v.Attributes)
		inner = append(inner, token.NewIdent(v.Name, v.NameSpan))
		if v.Fields != nil && v.Fields.Style != FieldsUnit {
			inner = append(inner, fieldListGroup(v.Fields))
		}
		if len(v.Discriminant) > 0 {
			inner = append(inner, token.NewPunct('=', token.Alone, token.Span{}))
			inner = append(inner, v.Discriminant...)
		}
	}
	return token.NewGroup(token.DelimBrace, inner, d.Span)
}
