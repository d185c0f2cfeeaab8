package symbolindex

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riftline/codenav/internal/langid"
	"github.com/riftline/codenav/internal/treepool"
)

func TestBuild_IndexesDefinitionsAndReachesReady(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "main.go")
	require.NoError(t, os.WriteFile(path, []byte("package main\n\nfunc Foo() {}\n\nfunc Bar() {}\n"), 0644))

	idx := New(treepool.New())
	require.NoError(t, idx.Build(context.Background(), dir))
	assert.Equal(t, StateReady, idx.State())

	defs := idx.FindDefinitions("Foo")
	require.Len(t, defs, 1)
	assert.Equal(t, "Foo", defs[0].Name)

	first, ok := idx.FindFirstDefinition("Bar")
	require.True(t, ok)
	assert.Equal(t, "Bar", first.Name)

	_, ok = idx.FindFirstDefinition("NoSuchSymbol")
	assert.False(t, ok)

	abs, err := filepath.Abs(path)
	require.NoError(t, err)
	_, ok = idx.FileCRC(abs)
	assert.True(t, ok)
}

func TestBuild_TwiceWhileReadyReturnsError(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.go"), []byte("package main\n"), 0644))

	idx := New(treepool.New())
	require.NoError(t, idx.Build(context.Background(), dir))
	assert.Error(t, idx.Build(context.Background(), dir))
}

func TestInvalidateFile_ReindexesChangedDefinitions(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "main.go")
	require.NoError(t, os.WriteFile(path, []byte("package main\n\nfunc Foo() {}\n"), 0644))

	idx := New(treepool.New())
	require.NoError(t, idx.Build(context.Background(), dir))
	require.Len(t, idx.FindDefinitions("Foo"), 1)

	require.NoError(t, os.WriteFile(path, []byte("package main\n\nfunc Renamed() {}\n"), 0644))
	require.NoError(t, idx.InvalidateFile(path, langid.Go))

	assert.Empty(t, idx.FindDefinitions("Foo"))
	require.Len(t, idx.FindDefinitions("Renamed"), 1)
}

func TestFindFilesContainingSymbol(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.go")
	b := filepath.Join(dir, "b.go")
	require.NoError(t, os.WriteFile(a, []byte("package main\n\nfunc Shared() {}\n"), 0644))
	require.NoError(t, os.WriteFile(b, []byte("package main\n\nfunc Other() {}\n"), 0644))

	idx := New(treepool.New())
	require.NoError(t, idx.Build(context.Background(), dir))

	files := idx.FindFilesContainingSymbol("Shared")
	require.Len(t, files, 1)
	absA, _ := filepath.Abs(a)
	assert.Equal(t, absA, files[0])
}
