// Package refactor implements spec.md §4.I: the transactional refactoring
// engine. Operations are registered by short name, following the registry
// pattern in other_examples' godoctor Refactoring interface
// (AllRefactorings/GetRefactoring keyed by "rename", "fiximports", …) but
// reshaped around spec.md's own validateParams/preview/execute contract.
package refactor

import (
	"context"

	"github.com/riftline/codenav/internal/access"
	"github.com/riftline/codenav/internal/resolver"
	"github.com/riftline/codenav/internal/symbolindex"
	"github.com/riftline/codenav/internal/treepool"
)

// Status is a RefactoringResult's outcome.
type Status string

const (
	StatusPreview Status = "PREVIEW"
	StatusSuccess Status = "SUCCESS"
	StatusError   Status = "ERROR"
)

// ChangeDetail is one line-level edit within a FileChange.
type ChangeDetail struct {
	Line   int
	Column int
	Before string
	After  string
}

// FileChange is one file's worth of edits produced by an operation.
type FileChange struct {
	Path        string
	Occurrences int
	Details     []ChangeDetail
	AccessToken *access.Token
	UnifiedDiff string
	CRC32C      uint32
	LineCount   int
	Warning     string
}

// Result is the outcome of a preview or execute call.
type Result struct {
	Status        Status
	TransactionID string
	Changes       []FileChange
	Suggestions   []string
	Message       string
}

// Params carries an operation's caller-supplied arguments as a loosely typed
// bag; each Operation's ValidateParams is the single place that imposes
// structure on it, per spec.md's "validateParams(p) — total, throws on
// missing/invalid fields."
type Params map[string]any

func (p Params) str(key string) (string, bool) {
	v, ok := p[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

func (p Params) intVal(key string) (int, bool) {
	v, ok := p[key]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case int:
		return n, true
	case float64:
		return int(n), true
	default:
		return 0, false
	}
}

func (p Params) boolVal(key string) bool {
	v, ok := p[key]
	if !ok {
		return false
	}
	b, _ := v.(bool)
	return b
}

// Context bundles the session-scoped managers an Operation needs: the parse
// pool, symbol index (optional), resolver, and access-token/change-tracker
// manager, plus the active Transaction manager for write operations.
type Context struct {
	Ctx      context.Context
	Pool     *treepool.Pool
	Index    *symbolindex.Index
	Resolver *resolver.Resolver
	Access   *access.Manager
	Tx       *Manager
}

// Operation is the shared contract every refactoring exposes, per spec.md
// §4.I: "Shared contract. Every operation exposes: validateParams,
// preview, execute."
type Operation interface {
	Name() string
	ValidateParams(p Params) error
	Preview(p Params, rc *Context) (Result, error)
	Execute(p Params, rc *Context) (Result, error)
}

var registry = map[string]Operation{}

func register(op Operation) {
	registry[op.Name()] = op
}

// Get returns the Operation registered under shortName, or false.
func Get(shortName string) (Operation, bool) {
	op, ok := registry[shortName]
	return op, ok
}

// Names returns every registered operation's short name.
func Names() []string {
	out := make([]string, 0, len(registry))
	for name := range registry {
		out = append(out, name)
	}
	return out
}
