// Package access implements spec.md §4.H: access tokens that gate edits on
// a prior read being still fresh, and the external-change tracker that
// detects files mutated outside codenav between reads.
package access

import (
	"os"
	"sync"
	"time"

	"github.com/riftline/codenav/internal/errs"
	"github.com/riftline/codenav/internal/treepool"
)

// Token is issued by a successful read of a line range; an edit must present
// a still-valid Token covering its target range before it is allowed.
type Token struct {
	Path        string
	StartLine   int
	EndLine     int
	CRC32C      uint32
	IssuedAt    time.Time
}

// Manager owns the per-session file-snapshot map used for external-change
// detection. Tokens are not stored here: they are plain values checked by
// Validate.
type Manager struct {
	mu        sync.Mutex
	snapshots map[string]*snapshot
}

type snapshot struct {
	content []byte
	crc     uint32
}

// NewManager constructs an empty Manager.
func NewManager() *Manager {
	return &Manager{snapshots: make(map[string]*snapshot)}
}

// IssueToken builds a Token for lines startLine..endLine (1-based,
// inclusive) of path, carrying the CRC32C of rangeBytes, the caller-supplied
// bytes of that line range.
func IssueToken(path string, startLine, endLine int, rangeBytes []byte) Token {
	return Token{
		Path:      path,
		StartLine: startLine,
		EndLine:   endLine,
		CRC32C:    treepool.CRC32C(rangeBytes),
		IssuedAt:  time.Now(),
	}
}

// Validate checks tok against an edit targeting [path, targetStart,
// targetEnd] with current bytes currentRangeBytes covering that target
// range, per spec.md §4.H's three failure codes.
func Validate(tok Token, path string, targetStart, targetEnd int, currentRangeBytes []byte) error {
	if tok.Path != path {
		return errs.New(errs.TokenPathMismatch, "access token was issued for a different file").
			WithContext("tokenPath", tok.Path, "editPath", path)
	}
	if targetStart < tok.StartLine || targetEnd > tok.EndLine {
		return errs.New(errs.TokenRangeMismatch, "access token does not cover the edit's target range").
			WithContext("tokenRange", rangeString(tok.StartLine, tok.EndLine), "editRange", rangeString(targetStart, targetEnd))
	}
	if treepool.CRC32C(currentRangeBytes) != tok.CRC32C {
		return errs.New(errs.TokenExpired, "the covered range has changed since the token was issued").
			WithContext("path", path)
	}
	return nil
}

func rangeString(a, b int) string {
	return itoa(a) + "-" + itoa(b)
}

func itoa(v int) string {
	if v == 0 {
		return "0"
	}
	neg := v < 0
	if neg {
		v = -v
	}
	var buf [20]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

// ReadResult reports whether OnRead detected an external change, and if so,
// the previous content the change overwrote (for the undo journal).
type ReadResult struct {
	ExternalChange bool
	PreviousBytes  []byte
}

// OnRead implements spec.md §4.H's three-case read protocol for path, given
// its just-read current content.
func (m *Manager) OnRead(path string, content []byte) ReadResult {
	m.mu.Lock()
	defer m.mu.Unlock()

	crc := treepool.CRC32C(content)
	existing, ok := m.snapshots[path]
	if !ok {
		m.snapshots[path] = &snapshot{content: content, crc: crc}
		return ReadResult{}
	}
	if existing.crc == crc {
		return ReadResult{}
	}
	previous := existing.content
	m.snapshots[path] = &snapshot{content: content, crc: crc}
	return ReadResult{ExternalChange: true, PreviousBytes: previous}
}

// OnWrite refreshes path's snapshot after a successful codenav-initiated
// write, so that write is never mistaken for a later external change.
func (m *Manager) OnWrite(path string, content []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshots[path] = &snapshot{content: content, crc: treepool.CRC32C(content)}
}

// OnRename moves path's snapshot to newPath.
func (m *Manager) OnRename(oldPath, newPath string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.snapshots[oldPath]; ok {
		m.snapshots[newPath] = s
		delete(m.snapshots, oldPath)
	}
}

// OnDelete discards path's snapshot.
func (m *Manager) OnDelete(path string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.snapshots, path)
}

// CurrentCRC reads path fresh from disk and returns its CRC32C without
// touching the snapshot map, for callers that just need a freshness check.
func CurrentCRC(path string) (uint32, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, errs.Wrap(errs.FileNotReadable, err).WithContext("path", path)
	}
	return treepool.CRC32C(data), nil
}
