package refactor

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/riftline/codenav/internal/access"
	"github.com/riftline/codenav/internal/errs"
	"github.com/riftline/codenav/internal/treepool"
)

// Manager serializes refactorings against overlapping file sets (per-file
// locks, spec.md §5: "no concurrent refactorings on overlapping file sets
// are permitted") and owns the transaction/rollback lifecycle from §4.I.
type Manager struct {
	pool *treepool.Pool
	acc  *access.Manager

	fileLocks sync.Map // path -> *sync.Mutex

	mu     sync.Mutex
	txByID map[string]*Transaction
	nextID int
}

// NewManager constructs a transaction Manager backed by pool and acc.
func NewManager(pool *treepool.Pool, acc *access.Manager) *Manager {
	return &Manager{pool: pool, acc: acc, txByID: make(map[string]*Transaction)}
}

// Transaction is one refactoring invocation's scope: the set of files it
// touches, their pre-edit byte images, and whether it has committed.
type Transaction struct {
	ID        string
	mgr       *Manager
	locked    []string
	backups   map[string][]byte
	committed bool
}

// Begin opens a Transaction, acquiring per-file locks for paths in a fixed
// (sorted) order to avoid lock-ordering deadlocks across concurrent
// refactorings.
func (m *Manager) Begin(paths []string) *Transaction {
	sorted := append([]string(nil), paths...)
	sortStrings(sorted)

	tx := &Transaction{backups: make(map[string][]byte)}
	m.mu.Lock()
	m.nextID++
	tx.ID = "tx-" + itoa(m.nextID)
	m.txByID[tx.ID] = tx
	m.mu.Unlock()
	tx.mgr = m

	for _, p := range sorted {
		lockIface, _ := m.fileLocks.LoadOrStore(p, &sync.Mutex{})
		lock := lockIface.(*sync.Mutex)
		lock.Lock()
		tx.locked = append(tx.locked, p)
	}
	return tx
}

// Backup captures path's current on-disk bytes into the transaction, once
// per path, before the first edit touches it.
func (tx *Transaction) Backup(path string) ([]byte, error) {
	if b, ok := tx.backups[path]; ok {
		return b, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errs.Wrap(errs.FileNotReadable, err).WithContext("path", path)
	}
	tx.backups[path] = data
	return data, nil
}

// Write atomically replaces path's contents via temp-file + rename, per
// spec.md §4.I: "edits are written atomically (rename-into-place)."
func (tx *Transaction) Write(path string, content []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".codenav-tmp-*")
	if err != nil {
		return errs.Wrap(errs.IOError, err).WithContext("path", path)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errs.Wrap(errs.IOError, err).WithContext("path", path)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return errs.Wrap(errs.IOError, err).WithContext("path", path)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return errs.Wrap(errs.IOError, err).WithContext("path", path)
	}
	tx.mgr.pool.Invalidate(path)
	if tx.mgr.acc != nil {
		tx.mgr.acc.OnWrite(path, content)
	}
	return nil
}

// Commit marks the transaction done and releases its file locks.
func (tx *Transaction) Commit() {
	tx.committed = true
	tx.release()
}

// Rollback restores every backed-up file to its pre-transaction bytes,
// invalidates their parse-cache entries, and releases locks. Rolling back an
// already-committed transaction is a no-op: the edits stand.
func (tx *Transaction) Rollback() error {
	if tx.committed {
		return nil
	}
	var firstErr error
	for path, data := range tx.backups {
		if err := os.WriteFile(path, data, 0o644); err != nil {
			if firstErr == nil {
				firstErr = errs.Wrap(errs.IOError, err).WithContext("path", path)
			}
			continue
		}
		tx.mgr.pool.Invalidate(path)
		if tx.mgr.acc != nil {
			tx.mgr.acc.OnWrite(path, data)
		}
	}
	tx.release()
	return firstErr
}

func (tx *Transaction) release() {
	tx.mgr.mu.Lock()
	delete(tx.mgr.txByID, tx.ID)
	tx.mgr.mu.Unlock()
	for i := len(tx.locked) - 1; i >= 0; i-- {
		if lockIface, ok := tx.mgr.fileLocks.Load(tx.locked[i]); ok {
			lockIface.(*sync.Mutex).Unlock()
		}
	}
}

func sortStrings(s []string) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j] < s[j-1]; j-- {
			s[j], s[j-1] = s[j-1], s[j]
		}
	}
}

func itoa(v int) string {
	if v == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
	}
	return string(buf[i:])
}
