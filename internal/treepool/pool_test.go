package treepool

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riftline/codenav/internal/langid"
)

func TestParseFile_CachesAndDetectsByExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "main.go")
	require.NoError(t, os.WriteFile(path, []byte("package main\n\nfunc main() {}\n"), 0644))

	pool := New()
	result, err := pool.ParseFile(path, "")
	require.NoError(t, err)
	assert.Equal(t, langid.Go, result.LangID)
	assert.True(t, pool.IsCached(path))

	stats := pool.Snapshot()
	assert.Equal(t, int64(0), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)

	_, err = pool.ParseFile(path, "")
	require.NoError(t, err)
	assert.Equal(t, int64(1), pool.Snapshot().Hits)
}

func TestParseFile_InvalidatesOnContentChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "main.go")
	require.NoError(t, os.WriteFile(path, []byte("package main\n"), 0644))

	pool := New()
	first, err := pool.ParseFile(path, "")
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("package main\n\nfunc main() {}\n"), 0644))
	second, err := pool.ParseFile(path, "")
	require.NoError(t, err)

	assert.NotEqual(t, first.CRC32C, second.CRC32C)
}

func TestParseFile_RefusesOversizedFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "big.go")
	data := make([]byte, MaxFileBytes+1)
	require.NoError(t, os.WriteFile(path, data, 0644))

	pool := New()
	_, err := pool.ParseFile(path, "")
	assert.Error(t, err)
}

func TestParseFile_UnknownLanguage(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0644))

	pool := New()
	_, err := pool.ParseFile(path, "")
	assert.Error(t, err)
}

func TestInvalidate_DropsCacheEntry(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "main.go")
	require.NoError(t, os.WriteFile(path, []byte("package main\n"), 0644))

	pool := New()
	_, err := pool.ParseFile(path, "")
	require.NoError(t, err)
	require.True(t, pool.IsCached(path))

	pool.Invalidate(path)
	assert.False(t, pool.IsCached(path))
}

func TestParseWithContent_NeverTouchesCache(t *testing.T) {
	pool := New()
	result, err := pool.ParseWithContent("virtual.go", langid.Go, []byte("package main\n"))
	require.NoError(t, err)
	assert.Equal(t, langid.Go, result.LangID)
	assert.False(t, pool.IsCached("virtual.go"))
}

func TestCRC32C_DeterministicAndSensitiveToContent(t *testing.T) {
	a := CRC32C([]byte("hello"))
	b := CRC32C([]byte("hello"))
	c := CRC32C([]byte("hellp"))
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}
