package refactor

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riftline/codenav/internal/treepool"
)

func TestTransaction_RollbackOfCommittedTransactionIsNoOp(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.txt")
	require.NoError(t, os.WriteFile(path, []byte("original"), 0644))

	mgr := NewManager(treepool.New(), nil)
	tx := mgr.Begin([]string{path})

	_, err := tx.Backup(path)
	require.NoError(t, err)
	require.NoError(t, tx.Write(path, []byte("committed")))
	tx.Commit()

	require.NoError(t, tx.Rollback())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "committed", string(data))
}

func TestTransaction_RollbackOfOpenTransactionRestoresBackup(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.txt")
	require.NoError(t, os.WriteFile(path, []byte("original"), 0644))

	mgr := NewManager(treepool.New(), nil)
	tx := mgr.Begin([]string{path})

	_, err := tx.Backup(path)
	require.NoError(t, err)
	require.NoError(t, tx.Write(path, []byte("in progress")))

	require.NoError(t, tx.Rollback())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "original", string(data))
}

func TestTransaction_BeginLocksFilesInSortedOrder(t *testing.T) {
	dir := t.TempDir()
	b := filepath.Join(dir, "b.txt")
	a := filepath.Join(dir, "a.txt")
	require.NoError(t, os.WriteFile(a, []byte("a"), 0644))
	require.NoError(t, os.WriteFile(b, []byte("b"), 0644))

	mgr := NewManager(treepool.New(), nil)
	tx := mgr.Begin([]string{b, a})
	assert.Equal(t, []string{a, b}, tx.locked)
	tx.Commit()
}
