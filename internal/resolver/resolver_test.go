package resolver

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riftline/codenav/internal/symbols"
	"github.com/riftline/codenav/internal/treepool"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestListSymbols_JavaClassAndMethodOnly(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "Foo.java", "package a;\n\nclass Foo {\n    int bar(int x) {\n        return x;\n    }\n}\n")

	r := New(treepool.New(), nil)
	syms, err := r.ListSymbols(path)
	require.NoError(t, err)
	require.Len(t, syms, 2)

	assert.Equal(t, "Foo", syms[0].Name)
	assert.Equal(t, symbols.KindClass, syms[0].Kind)

	assert.Equal(t, "bar", syms[1].Name)
	assert.Equal(t, symbols.KindMethod, syms[1].Kind)
	assert.Equal(t, "Foo", syms[1].ParentName)
	require.Len(t, syms[1].Parameters, 1)
	assert.Equal(t, "x", syms[1].Parameters[0].Name)
	assert.Equal(t, "int", syms[1].Parameters[0].Type)
}

func TestFindReferencesByName_ExcludesDeclarationAcrossFiles(t *testing.T) {
	dir := t.TempDir()
	fooPath := writeFile(t, dir, "Foo.java", "package a;\n\nclass Foo {\n}\n")
	writeFile(t, dir, "Bar.java", "package a;\n\nclass Bar {\n    Foo field;\n}\n")

	r := New(treepool.New(), nil)
	locs, err := r.FindReferencesByName(context.Background(), fooPath, "Foo", ScopeDirectory, false)
	require.NoError(t, err)

	require.Len(t, locs, 1)
	assert.Equal(t, filepath.Join(dir, "Bar.java"), locs[0].Path)
}

func TestFindReferencesByName_NeverIncludesDeclaration(t *testing.T) {
	dir := t.TempDir()
	fooPath := writeFile(t, dir, "Foo.java", "package a;\n\nclass Foo {\n}\n")
	writeFile(t, dir, "Bar.java", "package a;\n\nclass Bar {\n    Foo field;\n}\n")

	r := New(treepool.New(), nil)
	def, err := r.FindDefinitionByName(context.Background(), fooPath, "Foo")
	require.NoError(t, err)

	locs, err := r.FindReferencesByName(context.Background(), fooPath, "Foo", ScopeProject, false)
	require.NoError(t, err)
	for _, l := range locs {
		assert.NotEqual(t, def.Location, l)
		assert.False(t, l.Path == def.Location.Path && withinSpan(l, def.Location))
	}
}

func TestFindReferencesByName_IncludeDeclarationKeepsIt(t *testing.T) {
	dir := t.TempDir()
	fooPath := writeFile(t, dir, "Foo.java", "package a;\n\nclass Foo {\n}\n")
	writeFile(t, dir, "Bar.java", "package a;\n\nclass Bar {\n    Foo field;\n}\n")

	r := New(treepool.New(), nil)
	locs, err := r.FindReferencesByName(context.Background(), fooPath, "Foo", ScopeDirectory, true)
	require.NoError(t, err)
	assert.Len(t, locs, 2)
}

func TestProjectRoot_FindsGoModMarker(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "go.mod"), []byte("module example\n"), 0644))
	sub := filepath.Join(dir, "pkg")
	require.NoError(t, os.MkdirAll(sub, 0755))
	file := writeFile(t, sub, "main.go", "package pkg\n")

	assert.Equal(t, dir, ProjectRoot(file))
}
