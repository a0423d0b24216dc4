package flatten

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/structflat/structflat/internal/scan"
	"github.com/structflat/structflat/internal/token"
)

// render writes a stream spacing-insensitively so engine output and scanned
// expectation text compare on token content and group structure alone.
func render(stream []token.Tree) string {
	var b strings.Builder
	var walk func([]token.Tree)
	walk = func(ts []token.Tree) {
		for _, t := range ts {
			if b.Len() > 0 {
				b.WriteByte(' ')
			}
			if t.Kind == token.Group {
				b.WriteString(t.Delim.Open())
				walk(t.Tokens)
				b.WriteString(t.Delim.Close())
			} else {
				b.WriteString(t.Text)
			}
		}
	}
	walk(stream)
	return b.String()
}

func flattenText(t *testing.T, src string, forcePub bool) string {
	t.Helper()
	toks, err := scan.Tokens("input.rs", src)
	require.NoError(t, err)
	out, err := Stream(toks, forcePub)
	require.NoError(t, err)
	return render(out)
}

func normText(t *testing.T, src string) string {
	t.Helper()
	toks, err := scan.Tokens("", src)
	require.NoError(t, err)
	return render(toks)
}

func marker(msg string) string {
	return `compile_error!("structflat error: ` + msg + ` - starting from:");`
}

func TestStream(ttt *testing.T) {
	type args struct {
		src      string
		forcePub bool
	}
	tests := []struct {
		name string
		args args
		want string
	}{
		{
			name: "declaration without nesting passes through",
			args: args{src: `struct Simple { a: u8, b: Vec<u8> }`},
			want: `struct Simple { a: u8, b: Vec<u8> }`,
		},
		{
			name: "generic declaration with where clause passes through",
			args: args{src: `struct Gen<T: Clone> where T: Default { a: T }`},
			want: `struct Gen<T: Clone> where T: Default { a: T }`,
		},
		{
			name: "named nested structs come out in post-order",
			args: args{src: `struct Outer { a: struct A { x: u8 }, b: struct B { y: u8 } }`},
			want: `
				struct A { x: u8 }
				struct B { y: u8 }
				struct Outer { a: A, b: B }`,
		},
		{
			name: "deeply nested declarations emit innermost first",
			args: args{src: `struct L1 { f: struct L2 { g: struct L3 { x: u8 } } }`},
			want: `
				struct L3 { x: u8 }
				struct L2 { g: L3 }
				struct L1 { f: L2 }`,
		},
		{
			name: "anonymous named field takes the field name",
			args: args{src: `struct Bar { baz: struct { q: u8 } }`},
			want: `
				struct Baz { q: u8 }
				struct Bar { baz: Baz }`,
		},
		{
			name: "raw field name loses its prefix in the synthesized name",
			args: args{src: `struct Raw { r#type: struct { q: u8 } }`},
			want: `
				struct Type { q: u8 }
				struct Raw { r#type: Type }`,
		},
		{
			name: "anonymous tuple fields disambiguate by position",
			args: args{src: `struct Pair(struct(u8), struct(u16));`},
			want: `
				struct Pair(u8);
				struct Pair1(u16);
				struct Pair(Pair, Pair1);`,
		},
		{
			name: "long names concatenate the structural path",
			args: args{src: `
				#[structflat::long_names]
				enum Quux { Baz { bar: struct { x: u8 } } }`},
			want: `
				struct QuuxBazBar { x: u8 }
				enum Quux { Baz { bar: QuuxBazBar } }`,
		},
		{
			name: "singular names strip the plural from the field",
			args: args{src: `
				#[structflat::singular_names]
				struct Plan { steps: Vec<struct { id: u8 }> }`},
			want: `
				struct Step { id: u8 }
				struct Plan { steps: Vec<Step> }`,
		},
		{
			name: "pub field forwards pub to the lifted declaration",
			args: args{src: `struct V { pub inner: struct { x: u8 } }`},
			want: `
				pub struct Inner { x: u8 }
				struct V { pub inner: Inner }`,
		},
		{
			name: "force pub upgrades the outermost declaration only when bare",
			args: args{src: `struct P { x: u8 }`, forcePub: true},
			want: `pub struct P { x: u8 }`,
		},
		{
			name: "pub enum forwards pub into variant payloads",
			args: args{src: `pub enum E { V(struct { x: u8 }) }`},
			want: `
				pub struct V { x: u8 }
				pub enum E { V(V) }`,
		},
		{
			name: "generics re-project at the use site without bounds",
			args: args{src: `struct W { inner: struct Inner<T: Clone> { v: T } }`},
			want: `
				struct Inner<T: Clone> { v: T }
				struct W { inner: Inner<T> }`,
		},
		{
			name: "lifetime parameters keep their quote in the reference",
			args: args{src: `struct L { r: struct R<'a>(&'a u8) }`},
			want: `
				struct R<'a>(&'a u8);
				struct L { r: R<'a> }`,
		},
		{
			name: "tuple field pub transfers onto the inner declaration",
			args: args{src: `struct T(pub struct Bar(u8));`},
			want: `
				pub struct Bar(u8);
				struct T(Bar);`,
		},
		{
			name: "doubled pub keeps both field and declaration public",
			args: args{src: `struct T2(pub pub struct Baz(u8));`},
			want: `
				pub struct Baz(u8);
				struct T2(pub Baz);`,
		},
		{
			name: "each marker propagates its payload to every declaration",
			args: args{src: `
				#[structflat::each(derive(Debug))]
				struct Outer2 { a: struct A2 { x: u8 } }`},
			want: `
				#[derive(Debug)] struct A2 { x: u8 }
				#[derive(Debug)] struct Outer2 { a: A2 }`,
		},
		{
			name: "propagated payloads stack ancestor first",
			args: args{src: `
				#[structflat::each(derive(Debug))]
				struct Top {
					mid: #[structflat::each(derive(Clone))] struct Mid { leaf: struct { x: u8 } },
				}`},
			want: `
				#[derive(Debug)] #[derive(Clone)] struct Leaf { x: u8 }
				#[derive(Debug)] #[derive(Clone)] struct Mid { leaf: Leaf }
				#[derive(Debug)] struct Top { mid: Mid }`,
		},
		{
			name: "nested declaration inside generic arguments is lifted",
			args: args{src: `struct Env { vars: Map<u8, struct Var { v: u8 }> }`},
			want: `
				struct Var { v: u8 }
				struct Env { vars: Map<u8, Var> }`,
		},
		{
			name: "inner attributes hoist to outer position",
			args: args{src: `struct H { #![allow(missing_docs)] a: u8 }`},
			want: `#[allow(missing_docs)] struct H { a: u8 }`,
		},
		{
			name: "type alias gains its terminator",
			args: args{src: `type Pair = (u8, u8)`},
			want: `type Pair = (u8, u8);`,
		},
		{
			name: "type alias with embedded declaration lifts it",
			args: args{src: `type T2 = struct T2S { x: u8 };`},
			want: `
				struct T2S { x: u8 }
				type T2 = T2S;`,
		},
		{
			name: "union fields are walked like named struct fields",
			args: args{src: `union U { a: struct A4 { x: u8 }, b: u32 }`},
			want: `
				struct A4 { x: u8 }
				union U { a: A4, b: u32 }`,
		},
		{
			name: "enum discriminants survive the rewrite",
			args: args{src: `enum D { A = 1, B = 2 }`},
			want: `enum D { A = 1, B = 2 }`,
		},
		{
			name: "unsupported keyword becomes an inline marker",
			args: args{src: `fn nope() {}`},
			want: marker("Unsupported declaration (only struct, enum, union, and type are allowed)"),
		},
		{
			name: "two declarations in one type expression report ambiguity",
			args: args{src: `struct Amb { x: struct A3 {} struct B3 {} }`},
			want: marker("More than one struct/enum/.. declaration found") + `
				struct Amb { x: }`,
		},
		{
			name: "stray colon in a type expression suggests a missing comma",
			args: args{src: `struct C(u8: u8);`},
			want: marker("Colon in top level of type expression. Did you forget a comma somewhere?") + `
				struct C(u8: u8);`,
		},
		{
			name: "qualified paths do not trip the colon check",
			args: args{src: `struct Q { m: std::collections::HashMap<u8, u8> }`},
			want: `struct Q { m: std::collections::HashMap<u8, u8> }`,
		},
		{
			name: "anonymous declaration with no naming context reports",
			args: args{src: `type X = struct { x: u8 };`},
			want: marker("No context for naming substructure") +
				marker("expected a declaration name") + `
				type X = !;`,
		},
		{
			name: "unmatched closing angle is reported and kept",
			args: args{src: `struct U2 { f: u8> }`},
			want: marker("Unexpected >") + `
				struct U2 { f: u8> }`,
		},
		{
			name: "unclosed angle is reported and closed without terminator",
			args: args{src: `struct U3 { f: Vec<u8 }`},
			want: marker("Unclosed group") + `
				struct U3 { f: Vec<u8 }`,
		},
		{
			name: "each payload that is not a group is rejected",
			args: args{src: `
				#[structflat::each = "derive"]
				struct Bad { a: u8 }`},
			want: marker("#[structflat::each …]: … must be a [group]") + `
				struct Bad { a: u8 }`,
		},
	}
	for _, tt := range tests {
		tt := tt
		ttt.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := flattenText(t, tt.args.src, tt.args.forcePub)
			want := normText(t, tt.want)
			diff := cmp.Diff(want, got)
			require.EqualValuesf(t, want, got, "Stream() diff = %s", diff)
		})
	}
}

func TestStreamFatalWithoutSpan(t *testing.T) {
	_, err := Stream(nil, false)
	require.Error(t, err)
	require.Contains(t, err.Error(), "expected a declaration keyword")
}

func TestStrikethroughDeprecationNotice(t *testing.T) {
	src := `
		#[strikethrough(derive(Clone))]
		struct Old { a: u8 }`
	want := normText(t, strikethroughNotice+`
		#[derive(Clone)] struct Old { a: u8 }`)
	require.Equal(t, want, flattenText(t, src, false))
}

func TestFinalizeSplicesTransparentGroups(t *testing.T) {
	inner := []token.Tree{
		token.NewIdent("a", token.Span{}),
		token.NewGroup(token.DelimNone, []token.Tree{token.NewIdent("b", token.Span{})}, token.Span{}),
	}
	stream := []token.Tree{
		token.NewGroup(token.DelimNone, inner, token.Span{}),
		token.NewGroup(token.DelimParen, inner, token.Span{}),
	}
	got := Finalize(stream)
	require.Len(t, got, 3)
	require.True(t, got[0].IsIdent("a"))
	require.True(t, got[1].IsIdent("b"))
	require.Equal(t, token.Group, got[2].Kind)
	require.Equal(t, token.DelimParen, got[2].Delim)
	require.Len(t, got[2].Tokens, 2)
	require.True(t, got[2].Tokens[1].IsIdent("b"))
}
