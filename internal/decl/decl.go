// Package decl parses a token stream into a structured declaration and
// serializes one back to tokens. It covers exactly the declaration surface
// the flattening engine works on: struct, enum, union, and type alias, each
// with attributes, a visibility marker, generics, and an optional where
// clause. Anything else (fn, mod, trait, impl, ...) is rejected with
// ErrUnsupported so callers can report it without guessing.
package decl

import (
	"github.com/structflat/structflat/internal/token"
)

// Kind discriminates the supported declaration kinds. It is checked once at
// parse time; all later logic dispatches on it instead of re-inspecting
// tokens.
type Kind uint8

const (
	KindStruct Kind = iota
	KindEnum
	KindUnion
	KindAlias
)

func (k Kind) Keyword() string {
	switch k {
	case KindStruct:
		return "struct"
	case KindEnum:
		return "enum"
	case KindUnion:
		return "union"
	default:
		return "type"
	}
}

// AttrValueKind distinguishes the shapes an attribute body can take after its
// path: nothing, a delimited group, or `= tokens`.
type AttrValueKind uint8

const (
	AttrEmpty AttrValueKind = iota
	AttrGroup
	AttrEquals
)

// Attribute is one `#[...]` (or inner `#![...]`) marker.
type Attribute struct {
	Inner     bool
	Path      []token.Tree
	ValueKind AttrValueKind
	Delim     token.Delimiter // AttrGroup only
	Value     []token.Tree    // AttrGroup payload or AttrEquals right-hand side
	Span      token.Span
}

// PathIs reports whether the attribute path is exactly `ns::name`.
func (a *Attribute) PathIs(ns, name string) bool {
	p := a.Path
	return len(p) == 4 &&
		p[0].IsIdent(ns) &&
		p[1].IsPunct(':') && p[1].Spacing == token.Joint &&
		p[2].IsPunct(':') &&
		p[3].IsIdent(name)
}

// PathIsBare reports whether the attribute path is the single identifier name.
func (a *Attribute) PathIsBare(name string) bool {
	return len(a.Path) == 1 && a.Path[0].IsIdent(name)
}

// VisMarker is a visibility specifier: `pub` possibly followed by a
// restriction group like `pub(crate)`.
type VisMarker struct {
	Tokens []token.Tree
}

// IsPlainPub reports whether the marker is exactly `pub`, with no
// restriction. Enum variant fields inherit only this form.
func (v *VisMarker) IsPlainPub() bool {
	return v != nil && len(v.Tokens) == 1 && v.Tokens[0].IsIdent("pub")
}

// PlainPub builds a `pub` marker for visibility upgrades.
func PlainPub() *VisMarker {
	return &VisMarker{Tokens: []token.Tree{token.NewIdent("pub", token.Span{})}}
}

// GenericParam is one parameter of a generic parameter list. Prefix is the
// kind-distinguishing marker when present: a `'` punct for lifetimes or a
// `const` identifier for const parameters. Bound holds every token after the
// name up to the next top-level comma, colon included.
type GenericParam struct {
	Prefix *token.Tree
	Name   token.Tree
	Bound  []token.Tree
}

// GenericParams is an ordered generic parameter list.
type GenericParams struct {
	Params []GenericParam
	Span   token.Span
}

// FieldStyle discriminates the three body shapes a field list can have.
type FieldStyle uint8

const (
	FieldsUnit FieldStyle = iota
	FieldsNamed
	FieldsTuple
)

// Field is one struct/union/variant field. Name is empty for tuple fields,
// which are identified positionally.
type Field struct {
	Attributes []Attribute
	Vis        *VisMarker
	Name       string
	NameSpan   token.Span
	Type       []token.Tree
}

// FieldList is the body of a struct, union, or enum variant.
type FieldList struct {
	Style  FieldStyle
	Fields []*Field
	Span   token.Span
}

// Variant is one enum variant with its own field list and an optional
// discriminant expression.
type Variant struct {
	Attributes   []Attribute
	Name         string
	NameSpan     token.Span
	Fields       *FieldList
	Discriminant []token.Tree
}

// Declaration is the closed tagged-variant declaration model. Fields beyond
// the shared header are populated per Kind: FieldList for struct/union,
// Variants for enum, Value for alias.
type Declaration struct {
	Kind       Kind
	Attributes []Attribute
	Vis        *VisMarker
	Name       token.Tree
	Generics   *GenericParams
	Where      []token.Tree
	Fields     *FieldList
	Variants   []*Variant
	Value      []token.Tree
	HasSemi    bool
	Span       token.Span
}
