package access

import (
	"sync"
	"time"
)

// EntryKind distinguishes a transaction's own backup entries from entries
// recording an externally observed change, per spec.md §4.H: "External-change
// entries participate in undo."
type EntryKind string

const (
	EntryTransaction EntryKind = "TRANSACTION"
	EntryExternal    EntryKind = "EXTERNAL"
)

// JournalEntry is one undoable unit: the bytes a file held before some event,
// so Rollback can restore them.
type JournalEntry struct {
	Kind      EntryKind
	Path      string
	Before    []byte
	Timestamp time.Time
}

// Journal is a totally ordered, per-session undo log.
type Journal struct {
	mu      sync.Mutex
	entries []JournalEntry
	cap     int
}

// DefaultJournalCap bounds journal growth for long-running sessions.
const DefaultJournalCap = 500

// NewJournal constructs a Journal bounded to capacity entries (oldest
// dropped first once full).
func NewJournal(capacity int) *Journal {
	if capacity <= 0 {
		capacity = DefaultJournalCap
	}
	return &Journal{cap: capacity}
}

// Record appends an entry, trimming the oldest if the journal is full.
func (j *Journal) Record(kind EntryKind, path string, before []byte) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.entries = append(j.entries, JournalEntry{Kind: kind, Path: path, Before: before, Timestamp: time.Now()})
	if len(j.entries) > j.cap {
		j.entries = j.entries[len(j.entries)-j.cap:]
	}
}

// Last returns the most recent entry and true, or a zero value and false if
// the journal is empty.
func (j *Journal) Last() (JournalEntry, bool) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if len(j.entries) == 0 {
		return JournalEntry{}, false
	}
	return j.entries[len(j.entries)-1], true
}

// Pop removes and returns the most recent entry.
func (j *Journal) Pop() (JournalEntry, bool) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if len(j.entries) == 0 {
		return JournalEntry{}, false
	}
	e := j.entries[len(j.entries)-1]
	j.entries = j.entries[:len(j.entries)-1]
	return e, true
}

// Len returns the current entry count.
func (j *Journal) Len() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return len(j.entries)
}
