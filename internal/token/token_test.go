package token

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func span(line, startOff, endOff int) Span {
	return Span{
		Filename: "lib.rs",
		Start:    Position{Line: line, Column: 1, Offset: startOff},
		End:      Position{Line: line, Column: 1 + endOff - startOff, Offset: endOff},
	}
}

func TestString(t *testing.T) {
	t.Run("tokens are space separated", func(t *testing.T) {
		stream := []Tree{
			NewIdent("struct", Span{}),
			NewIdent("Foo", Span{}),
			NewGroup(DelimBrace, []Tree{
				NewIdent("x", Span{}),
				NewPunct(':', Alone, Span{}),
				NewIdent("u8", Span{}),
			}, Span{}),
		}
		require.Equal(t, "struct Foo { x : u8 }", String(stream))
	})

	t.Run("joint puncts glue to the next token", func(t *testing.T) {
		stream := []Tree{
			NewIdent("std", Span{}),
			NewPunct(':', Joint, Span{}),
			NewPunct(':', Alone, Span{}),
			NewIdent("mem", Span{}),
		}
		require.Equal(t, "std :: mem", String(stream))
	})

	t.Run("lifetime renders without a gap", func(t *testing.T) {
		stream := []Tree{
			NewPunct('&', Joint, Span{}),
			NewPunct('\'', Joint, Span{}),
			NewIdent("a", Span{}),
			NewIdent("str", Span{}),
		}
		require.Equal(t, "&'a str", String(stream))
	})

	t.Run("transparent groups render bare contents", func(t *testing.T) {
		stream := []Tree{
			NewGroup(DelimNone, []Tree{NewIdent("a", Span{}), NewIdent("b", Span{})}, Span{}),
		}
		require.Equal(t, "a b", String(stream))
	})

	t.Run("empty group has no inner padding", func(t *testing.T) {
		require.Equal(t, "()", String([]Tree{NewGroup(DelimParen, nil, Span{})}))
	})
}

func TestStreamSpan(t *testing.T) {
	t.Run("joins all spans", func(t *testing.T) {
		stream := []Tree{
			NewIdent("a", span(1, 0, 1)),
			NewIdent("b", span(1, 2, 3)),
			NewIdent("c", span(2, 4, 5)),
		}
		sp := StreamSpan(stream)
		require.NotNil(t, sp)
		require.Equal(t, 1, sp.Start.Line)
		require.Equal(t, 2, sp.End.Line)
	})

	t.Run("stops at the first invalid span", func(t *testing.T) {
		stream := []Tree{
			NewIdent("a", span(1, 0, 1)),
			NewIdent("b", Span{}),
			NewIdent("c", span(3, 2, 3)),
		}
		sp := StreamSpan(stream)
		require.NotNil(t, sp)
		require.Equal(t, 1, sp.End.Line)
	})

	t.Run("empty stream has no span", func(t *testing.T) {
		require.Nil(t, StreamSpan(nil))
	})
}

func TestPredicates(t *testing.T) {
	require.True(t, NewIdent("pub", Span{}).IsIdent("pub"))
	require.False(t, NewLiteral("pub", Span{}).IsIdent("pub"))
	require.True(t, NewPunct(';', Alone, Span{}).IsPunct(';'))
	require.False(t, NewIdent(";", Span{}).IsPunct(';'))
}
