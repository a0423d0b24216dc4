package snapshot

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/structflat/structflat/internal/action/flatten"
)

func writeInput(t *testing.T, dir, name, src string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	return path
}

func TestGenerateAndDiff(t *testing.T) {
	dir := t.TempDir()
	manifestPath := filepath.Join(dir, "structflat.manifest.yaml")

	inV1 := writeInput(t, dir, "v1.rs", `struct S { a: u8 }`)
	outV1 := filepath.Join(dir, "out", "v1.rs")
	got, err := Generate(&flatten.Options{InFile: inV1, OutFile: outV1}, manifestPath, "default", "v1")
	require.NoError(t, err)
	require.Equal(t, outV1, got)
	require.FileExists(t, outV1)

	inV2 := writeInput(t, dir, "v2.rs", `struct S { a: u8, b: u16 }`)
	outV2 := filepath.Join(dir, "out", "v2.rs")
	_, err = Generate(&flatten.Options{InFile: inV2, OutFile: outV2}, manifestPath, "default", "v2")
	require.NoError(t, err)

	m, err := List(manifestPath)
	require.NoError(t, err)
	require.Equal(t, "v2", m.CurrentVersion)
	require.Equal(t, "v1", m.PreviousVersion)
	require.Len(t, m.Snapshots, 2)
	require.NotEmpty(t, m.Snapshots[0].Checksum)

	diff, err := DiffCurrentWithPrevious(manifestPath)
	require.NoError(t, err)
	require.NotEmpty(t, diff)
}

func TestDiffNeedsTwoSnapshots(t *testing.T) {
	dir := t.TempDir()
	manifestPath := filepath.Join(dir, "structflat.manifest.yaml")

	in := writeInput(t, dir, "in.rs", `struct S { a: u8 }`)
	out := filepath.Join(dir, "out.rs")
	_, err := Generate(&flatten.Options{InFile: in, OutFile: out}, manifestPath, "default", "v1")
	require.NoError(t, err)

	_, err = DiffCurrentWithPrevious(manifestPath)
	require.Error(t, err)
}
