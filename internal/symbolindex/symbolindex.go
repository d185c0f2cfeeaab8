// Package symbolindex builds and maintains the concurrent, in-memory symbol
// index described in spec.md §4.F: name -> definition sites, file -> names,
// and file -> last-seen CRC32C, built asynchronously with bounded fan-out the
// way the teacher's integration tests drive searches
// (internal/mcp/integration_test.go's errgroup.SetLimit pattern).
package symbolindex

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/sync/errgroup"

	"github.com/riftline/codenav/internal/config"
	"github.com/riftline/codenav/internal/errs"
	"github.com/riftline/codenav/internal/extract"
	"github.com/riftline/codenav/internal/langid"
	"github.com/riftline/codenav/internal/symbols"
	"github.com/riftline/codenav/internal/treepool"
)

// BuildDeadline bounds how long an asynchronous full build may run before
// callers waiting on it give up, per spec.md §4.F.
const BuildDeadline = 2 * time.Minute

// MaxConcurrentFiles bounds the fan-out width of a build so indexing a huge
// project doesn't exhaust file descriptors or parser-pool capacity.
const MaxConcurrentFiles = 16

// State is the lifecycle of one Index's most recent build.
type State string

const (
	StateIdle     State = "IDLE"
	StateBuilding State = "BUILDING"
	StateReady    State = "READY"
	StateFailed   State = "FAILED"
)

type fileRecord struct {
	crc   uint32
	names map[string]bool
}

// Index is the concurrent symbol index for one project root.
type Index struct {
	pool *treepool.Pool

	mu      sync.RWMutex
	state   State
	byName  map[string][]symbols.Info
	byFile  map[string]*fileRecord
	lastErr error

	buildMu sync.Mutex // serializes concurrent Build calls
}

// New constructs an empty Index backed by pool.
func New(pool *treepool.Pool) *Index {
	return &Index{
		pool:   pool,
		state:  StateIdle,
		byName: make(map[string][]symbols.Info),
		byFile: make(map[string]*fileRecord),
	}
}

// State returns the index's current lifecycle state.
func (idx *Index) State() State {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.state
}

// Build walks root for every supported language's glob pattern and indexes
// each matching file concurrently, bounded by MaxConcurrentFiles and
// BuildDeadline. A second Build call while one is already running returns an
// error rather than racing the first.
func (idx *Index) Build(ctx context.Context, root string) error {
	if !idx.buildMu.TryLock() {
		return errs.New(errs.InternalError, "Indexing already in progress")
	}
	defer idx.buildMu.Unlock()

	idx.mu.Lock()
	if idx.state == StateReady {
		idx.mu.Unlock()
		return errs.New(errs.InternalError, "Already indexed")
	}
	idx.state = StateBuilding
	idx.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, BuildDeadline)
	defer cancel()

	cfg, err := config.Load(root)
	if err != nil {
		idx.fail(err)
		return err
	}

	files, err := discoverFiles(root, cfg)
	if err != nil {
		idx.fail(err)
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(MaxConcurrentFiles)

	for _, f := range files {
		f := f
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			return idx.indexFile(f.path, f.lang)
		})
	}

	if err := g.Wait(); err != nil {
		idx.fail(err)
		return err
	}

	idx.mu.Lock()
	idx.state = StateReady
	idx.mu.Unlock()
	return nil
}

func (idx *Index) fail(err error) {
	idx.mu.Lock()
	idx.state = StateFailed
	idx.lastErr = err
	idx.mu.Unlock()
}

type discoveredFile struct {
	path string
	lang langid.ID
}

func discoverFiles(root string, cfg *config.Config) ([]discoveredFile, error) {
	excludes := append([]string{}, cfg.Exclude...)
	excludes = append(excludes, config.DetectBuildOutputExcludes(root)...)
	if cfg.Index.RespectGitignore {
		gp := config.NewGitignoreParser()
		if err := gp.LoadGitignore(root); err == nil {
			excludes = append(excludes, gp.GetExclusionPatterns()...)
		}
	}
	excludes = config.DeduplicatePatterns(excludes)

	var out []discoveredFile
	seen := make(map[string]bool)
	for _, lang := range langid.Languages() {
		pattern := langid.GlobPattern(lang)
		matches, err := doublestar.Glob(os.DirFS(root), pattern)
		if err != nil {
			return nil, errs.Wrap(errs.IOError, err).WithContext("pattern", pattern)
		}
		for _, m := range matches {
			if matchesAny(excludes, m) {
				continue
			}
			full := filepath.Join(root, m)
			if seen[full] {
				continue
			}
			seen[full] = true
			out = append(out, discoveredFile{path: full, lang: lang})
		}
	}
	return out, nil
}

// matchesAny reports whether relPath falls under any of the exclusion glob
// patterns (config excludes, detected build output, .gitignore), so generated
// JS/Rust/Python artifacts never enter the symbol index alongside
// hand-written source.
func matchesAny(patterns []string, relPath string) bool {
	for _, pat := range patterns {
		if ok, err := doublestar.Match(pat, relPath); err == nil && ok {
			return true
		}
	}
	return false
}

// indexFile parses path and records its definitions, replacing any prior
// entries for that file.
func (idx *Index) indexFile(path string, lang langid.ID) error {
	result, err := idx.pool.ParseFile(path, lang)
	if err != nil {
		return nil // unreadable/oversized files are skipped, not fatal to the build
	}
	defs, err := extract.Definitions(path, result.Tree, result.Content, result.LangID)
	if err != nil {
		return nil
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.removeFileLocked(path)
	rec := &fileRecord{crc: result.CRC32C, names: make(map[string]bool, len(defs))}
	for _, d := range defs {
		if !symbols.IsDefinitionKind(d.Kind) {
			continue
		}
		idx.byName[d.Name] = append(idx.byName[d.Name], d)
		rec.names[d.Name] = true
	}
	idx.byFile[path] = rec
	return nil
}

func (idx *Index) removeFileLocked(path string) {
	old, ok := idx.byFile[path]
	if !ok {
		return
	}
	for name := range old.names {
		sites := idx.byName[name]
		filtered := sites[:0]
		for _, s := range sites {
			if s.Location.Path != path {
				filtered = append(filtered, s)
			}
		}
		if len(filtered) == 0 {
			delete(idx.byName, name)
		} else {
			idx.byName[name] = filtered
		}
	}
	delete(idx.byFile, path)
}

// InvalidateFile drops path's entries and re-indexes it from disk.
func (idx *Index) InvalidateFile(path string, lang langid.ID) error {
	idx.pool.Invalidate(path)
	idx.mu.Lock()
	idx.removeFileLocked(path)
	idx.mu.Unlock()
	return idx.indexFile(path, lang)
}

// FindDefinitions returns every known definition site for name, in
// deterministic (path, line, column) order.
func (idx *Index) FindDefinitions(name string) []symbols.Info {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	sites := idx.byName[name]
	out := make([]symbols.Info, len(sites))
	copy(out, sites)
	sortInfos(out)
	return out
}

// FindFirstDefinition returns the first definition site for name by
// (path, line, column) order, or false if name is undefined.
func (idx *Index) FindFirstDefinition(name string) (symbols.Info, bool) {
	sites := idx.FindDefinitions(name)
	if len(sites) == 0 {
		return symbols.Info{}, false
	}
	return sites[0], true
}

// FindFilesContainingSymbol returns every indexed file that defines name.
func (idx *Index) FindFilesContainingSymbol(name string) []string {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	seen := make(map[string]bool)
	var out []string
	for _, s := range idx.byName[name] {
		if !seen[s.Location.Path] {
			seen[s.Location.Path] = true
			out = append(out, s.Location.Path)
		}
	}
	return out
}

// FileCRC returns the last-indexed CRC32C for path, used by the
// external-change tracker to decide whether a re-index is needed.
func (idx *Index) FileCRC(path string) (uint32, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	rec, ok := idx.byFile[path]
	if !ok {
		return 0, false
	}
	return rec.crc, true
}

func sortInfos(infos []symbols.Info) {
	for i := 1; i < len(infos); i++ {
		for j := i; j > 0 && infos[j].Location.Less(infos[j-1].Location); j-- {
			infos[j], infos[j-1] = infos[j-1], infos[j]
		}
	}
}

