package structflat

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFlatten(t *testing.T) {
	t.Run("nested declaration is lifted ahead of its container", func(t *testing.T) {
		got, err := Flatten(`struct Outer { a: struct A { x: u8 } }`)
		require.NoError(t, err)
		require.Equal(t, "struct A { x : u8 } struct Outer { a : A }", got)
	})

	t.Run("force pub upgrades the outermost declaration", func(t *testing.T) {
		got, err := Flatten(`struct C { retries: u8 }`, WithForcePub())
		require.NoError(t, err)
		require.True(t, strings.HasPrefix(got, "pub struct C"))
	})

	t.Run("structural problems come back as inline markers", func(t *testing.T) {
		got, err := Flatten(`fn nope() {}`)
		require.NoError(t, err)
		require.Contains(t, got, "compile_error")
		require.Contains(t, got, "Unsupported declaration")
	})

	t.Run("scan failures carry the configured filename", func(t *testing.T) {
		_, err := Flatten(`struct Broken {`, WithFilename("lib.rs"))
		require.Error(t, err)
		require.Contains(t, err.Error(), "lib.rs")
	})

	t.Run("input with no anchorable span is a hard error", func(t *testing.T) {
		_, err := Flatten("")
		require.Error(t, err)
	})
}

func TestFlattenTokens(t *testing.T) {
	t.Run("nil options default", func(t *testing.T) {
		out, err := FlattenTokens(nil, nil)
		require.Error(t, err)
		require.Nil(t, out)
	})
}

func TestOptions(t *testing.T) {
	o := &Options{}
	for _, fn := range []Option{WithFilename("x.rs"), WithForcePub()} {
		fn(o)
	}
	require.Equal(t, "x.rs", o.Filename)
	require.True(t, o.ForcePub)
}
