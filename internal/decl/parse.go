package decl

import (
	"fmt"

	"github.com/structflat/structflat/internal/token"
)

// ParseError is a grammar failure anchored to the closest available span.
type ParseError struct {
	Span *token.Span
	Msg  string
}

func (e *ParseError) Error() string {
	if e.Span != nil {
		return fmt.Sprintf("%s: %s", e.Span, e.Msg)
	}
	return e.Msg
}

// UnsupportedError marks a declaration keyword that is recognized but not
// flattenable (fn, mod, trait, ...).
type UnsupportedError struct {
	Keyword token.Tree
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("unsupported declaration keyword %q", e.Keyword.Text)
}

// otherDeclKeywords are item keywords we recognize only to reject.
var otherDeclKeywords = map[string]bool{
	"fn": true, "mod": true, "trait": true, "impl": true,
	"use": true, "const": true, "static": true, "macro": true,
}

// Parse consumes a token stream holding exactly one declaration.
func Parse(stream []token.Tree) (*Declaration, error) {
	p := &parser{toks: stream}
	d := &Declaration{}
	if sp := token.StreamSpan(stream); sp != nil {
		d.Span = *sp
	}

	var err error
	if d.Attributes, err = p.parseAttributes(); err != nil {
		return nil, err
	}
	d.Vis = p.parseVis()

	kw := p.next()
	if kw == nil || kw.Kind != token.Ident {
		return nil, p.errorf(kw, "expected a declaration keyword")
	}
	switch kw.Text {
	case "struct":
		d.Kind = KindStruct
	case "enum":
		d.Kind = KindEnum
	case "union":
		d.Kind = KindUnion
	case "type":
		d.Kind = KindAlias
	default:
		if otherDeclKeywords[kw.Text] {
			return nil, &UnsupportedError{Keyword: *kw}
		}
		return nil, p.errorf(kw, fmt.Sprintf("expected a declaration keyword, found %q", kw.Text))
	}

	name := p.next()
	if name == nil || name.Kind != token.Ident {
		return nil, p.errorf(name, "expected a declaration name")
	}
	d.Name = *name

	if p.peekPunct('<') {
		if d.Generics, err = p.parseGenerics(); err != nil {
			return nil, err
		}
	}
	d.Where = p.parseWhere()

	switch d.Kind {
	case KindStruct:
		err = p.parseStructBody(d)
	case KindUnion:
		err = p.parseUnionBody(d)
	case KindEnum:
		err = p.parseEnumBody(d)
	case KindAlias:
		err = p.parseAliasBody(d)
	}
	if err != nil {
		return nil, err
	}

	if t := p.peek(); t != nil {
		return nil, p.errorf(t, "unexpected tokens after declaration")
	}
	return d, nil
}

type parser struct {
	toks []token.Tree
	pos  int
}

func (p *parser) peek() *token.Tree {
	if p.pos >= len(p.toks) {
		return nil
	}
	return &p.toks[p.pos]
}

func (p *parser) next() *token.Tree {
	t := p.peek()
	if t != nil {
		p.pos++
	}
	return t
}

func (p *parser) peekPunct(ch rune) bool {
	t := p.peek()
	return t != nil && t.IsPunct(ch)
}

func (p *parser) peekGroup(d token.Delimiter) bool {
	t := p.peek()
	return t != nil && t.Kind == token.Group && t.Delim == d
}

func (p *parser) errorf(at *token.Tree, msg string) error {
	var span *token.Span
	if at != nil && at.Span.IsValid() {
		sp := at.Span
		span = &sp
	} else if len(p.toks) > 0 {
		span = token.StreamSpan(p.toks)
	}
	return &ParseError{Span: span, Msg: msg}
}

func (p *parser) parseAttributes() ([]Attribute, error) {
	var attrs []Attribute
	for p.peekPunct('#') {
		hash := p.next()
		inner := false
		if p.peekPunct('!') {
			p.next()
			inner = true
		}
		g := p.next()
		if g == nil || g.Kind != token.Group || g.Delim != token.DelimBracket {
			return nil, p.errorf(g, "expected [ after # in attribute")
		}
		attr := Attribute{Inner: inner, Span: hash.Span.Join(g.Span)}
		toks := g.Tokens
		for i := 0; i < len(toks); i++ {
			t := toks[i]
			if t.Kind == token.Group && i == len(toks)-1 {
				attr.ValueKind = AttrGroup
				attr.Delim = t.Delim
				attr.Value = t.Tokens
				break
			}
			if t.IsPunct('=') {
				attr.ValueKind = AttrEquals
				attr.Value = toks[i+1:]
				break
			}
			attr.Path = append(attr.Path, t)
		}
		attrs = append(attrs, attr)
	}
	return attrs, nil
}

func (p *parser) parseVis() *VisMarker {
	if t := p.peek(); t == nil || !t.IsIdent("pub") {
		return nil
	}
	vis := &VisMarker{Tokens: []token.Tree{*p.next()}}
	// `pub(...)` is a restriction only for the path forms; a plain paren group
	// after pub in a tuple field is the field's own type.
	if t := p.peek(); t != nil && t.Kind == token.Group && t.Delim == token.DelimParen &&
		len(t.Tokens) > 0 && t.Tokens[0].Kind == token.Ident {
		switch t.Tokens[0].Text {
		case "crate", "self", "super", "in":
			vis.Tokens = append(vis.Tokens, *p.next())
		}
	}
	return vis
}

func (p *parser) parseGenerics() (*GenericParams, error) {
	open := p.next() // the '<'
	depth := 1
	var inner []token.Tree
	closeSpan := open.Span
	for {
		t := p.next()
		if t == nil {
			return nil, p.errorf(open, "unclosed generic parameter list")
		}
		arrow := len(inner) > 0 && inner[len(inner)-1].Kind == token.Punct &&
			inner[len(inner)-1].Spacing == token.Joint &&
			(inner[len(inner)-1].Text == "-" || inner[len(inner)-1].Text == "=")
		if t.IsPunct('<') {
			depth++
		} else if t.IsPunct('>') && !arrow {
			depth--
			if depth == 0 {
				closeSpan = t.Span
				break
			}
		}
		inner = append(inner, *t)
	}

	gp := &GenericParams{Span: open.Span.Join(closeSpan)}
	for _, seg := range splitTopLevel(inner, ',') {
		if len(seg) == 0 {
			continue
		}
		var param GenericParam
		i := 0
		if seg[0].IsPunct('\'') || seg[0].IsIdent("const") {
			pfx := seg[0]
			param.Prefix = &pfx
			i = 1
		}
		if i >= len(seg) || seg[i].Kind != token.Ident {
			return nil, p.errorf(open, "expected a generic parameter name")
		}
		param.Name = seg[i]
		param.Bound = seg[i+1:]
		gp.Params = append(gp.Params, param)
	}
	return gp, nil
}

// parseWhere captures a raw where clause, `where` keyword included, up to the
// body group or terminating semicolon.
func (p *parser) parseWhere() []token.Tree {
	if t := p.peek(); t == nil || !t.IsIdent("where") {
		return nil
	}
	var out []token.Tree
	for {
		t := p.peek()
		if t == nil || t.IsPunct(';') || (t.Kind == token.Group && t.Delim == token.DelimBrace) {
			return out
		}
		out = append(out, *p.next())
	}
}

func (p *parser) parseStructBody(d *Declaration) error {
	switch {
	case p.peekGroup(token.DelimBrace):
		g := p.next()
		fields, err := p.parseNamedFields(g)
		if err != nil {
			return err
		}
		d.Fields = fields
	case p.peekGroup(token.DelimParen):
		g := p.next()
		fields, err := p.parseTupleFields(g)
		if err != nil {
			return err
		}
		d.Fields = fields
		d.Where = append(d.Where, p.parseWhere()...)
		if p.peekPunct(';') {
			p.next()
			d.HasSemi = true
		}
	case p.peekPunct(';'):
		p.next()
		d.HasSemi = true
		d.Fields = &FieldList{Style: FieldsUnit}
	default:
		d.Fields = &FieldList{Style: FieldsUnit}
	}
	return nil
}

func (p *parser) parseUnionBody(d *Declaration) error {
	if !p.peekGroup(token.DelimBrace) {
		return p.errorf(p.peek(), "expected union body")
	}
	fields, err := p.parseNamedFields(p.next())
	if err != nil {
		return err
	}
	d.Fields = fields
	return nil
}

func (p *parser) parseEnumBody(d *Declaration) error {
	if !p.peekGroup(token.DelimBrace) {
		return p.errorf(p.peek(), "expected enum body")
	}
	g := p.next()
	for _, seg := range splitTopLevel(g.Tokens, ',') {
		if len(seg) == 0 {
			continue
		}
		v, err := p.parseVariant(seg)
		if err != nil {
			return err
		}
		d.Variants = append(d.Variants, v)
	}
	return nil
}

func (p *parser) parseVariant(seg []token.Tree) (*Variant, error) {
	q := &parser{toks: seg}
	attrs, err := q.parseAttributes()
	if err != nil {
		return nil, err
	}
	name := q.next()
	if name == nil || name.Kind != token.Ident {
		return nil, q.errorf(name, "expected an enum variant name")
	}
	v := &Variant{
		Attributes: attrs,
		Name:       name.Text,
		NameSpan:   name.Span,
		Fields:     &FieldList{Style: FieldsUnit},
	}
	switch {
	case q.peekGroup(token.DelimBrace):
		if v.Fields, err = q.parseNamedFields(q.next()); err != nil {
			return nil, err
		}
	case q.peekGroup(token.DelimParen):
		if v.Fields, err = q.parseTupleFields(q.next()); err != nil {
			return nil, err
		}
	}
	if q.peekPunct('=') {
		q.next()
		v.Discriminant = q.toks[q.pos:]
		q.pos = len(q.toks)
	}
	if t := q.peek(); t != nil {
		return nil, q.errorf(t, "unexpected tokens in enum variant")
	}
	return v, nil
}

func (p *parser) parseNamedFields(g *token.Tree) (*FieldList, error) {
	fl := &FieldList{Style: FieldsNamed, Span: g.Span}
	for _, seg := range splitTopLevel(g.Tokens, ',') {
		if len(seg) == 0 {
			continue
		}
		q := &parser{toks: seg}
		attrs, err := q.parseAttributes()
		if err != nil {
			return nil, err
		}
		vis := q.parseVis()
		name := q.next()
		if name == nil || name.Kind != token.Ident {
			return nil, q.errorf(name, "expected a field name")
		}
		if !q.peekPunct(':') {
			return nil, q.errorf(q.peek(), "expected : after field name")
		}
		q.next()
		fl.Fields = append(fl.Fields, &Field{
			Attributes: attrs,
			Vis:        vis,
			Name:       name.Text,
			NameSpan:   name.Span,
			Type:       seg[q.pos:],
		})
	}
	return fl, nil
}

func (p *parser) parseTupleFields(g *token.Tree) (*FieldList, error) {
	fl := &FieldList{Style: FieldsTuple, Span: g.Span}
	for _, seg := range splitTopLevel(g.Tokens, ',') {
		if len(seg) == 0 {
			continue
		}
		q := &parser{toks: seg}
		attrs, err := q.parseAttributes()
		if err != nil {
			return nil, err
		}
		vis := q.parseVis()
		fl.Fields = append(fl.Fields, &Field{
			Attributes: attrs,
			Vis:        vis,
			Type:       seg[q.pos:],
		})
	}
	return fl, nil
}

func (p *parser) parseAliasBody(d *Declaration) error {
	if !p.peekPunct('=') {
		return p.errorf(p.peek(), "expected = in type alias")
	}
	p.next()
	for {
		t := p.peek()
		if t == nil {
			return nil
		}
		if t.IsPunct(';') {
			p.next()
			d.HasSemi = true
			return nil
		}
		d.Value = append(d.Value, *p.next())
	}
}

// splitTopLevel splits toks at sep puncts that sit outside any angle-bracket
// nesting. A `>` completing an arrow (`->`, `=>`) does not close an angle.
func splitTopLevel(toks []token.Tree, sep rune) [][]token.Tree {
	var out [][]token.Tree
	depth := 0
	start := 0
	for i, t := range toks {
		switch {
		case t.IsPunct('<'):
			depth++
		case t.IsPunct('>'):
			if i > 0 && toks[i-1].Kind == token.Punct && toks[i-1].Spacing == token.Joint &&
				(toks[i-1].Text == "-" || toks[i-1].Text == "=") {
				break
			}
			if depth > 0 {
				depth--
			}
		case t.IsPunct(sep) && depth == 0:
			out = append(out, toks[start:i])
			start = i + 1
		}
	}
	return append(out, toks[start:])
}
