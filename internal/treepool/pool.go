// Package treepool implements codenav's parser pool and parse cache:
// spec.md §4.B. Parsers are pooled per language (tree-sitter Parser values
// are not safe for concurrent use), and parsed trees are cached by absolute
// path, CRC32C-validated, and bounded by both byte budget and entry count.
package treepool

import (
	"fmt"
	"hash/crc32"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	lru "github.com/hashicorp/golang-lru/v2"
	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/riftline/codenav/internal/errs"
	"github.com/riftline/codenav/internal/langid"
)

const (
	// MaxFileBytes refuses to parse files larger than this; the caller's
	// request fails outright.
	MaxFileBytes = 5 * 1024 * 1024

	// MaxCacheableLines parses but does not cache files with more lines
	// than this.
	MaxCacheableLines = 10_000

	// MaxCacheBytes is the byte budget for the estimated-AST-size eviction
	// policy.
	MaxCacheBytes = 50 * 1024 * 1024

	// MaxCacheEntries caps the number of cached trees regardless of size.
	MaxCacheEntries = 100

	// astSizeMultiplier estimates parsed-AST size as a multiple of source
	// byte length.
	astSizeMultiplier = 3
)

var castagnoli = crc32.MakeTable(crc32.Castagnoli)

// CRC32C returns the CRC32C checksum of data.
func CRC32C(data []byte) uint32 {
	return crc32.Checksum(data, castagnoli)
}

// CachedTree is the value stored in the parse cache.
type CachedTree struct {
	Tree          *sitter.Tree
	CRC32C        uint32
	ParsedAt      time.Time
	LangID        langid.ID
	EstimatedSize int64
	path          string // retained for xxhash collision verification
}

// ParseResult is the bundle handed to extractors and queries: a tree is
// meaningless without the exact bytes it was produced from.
type ParseResult struct {
	Tree    *sitter.Tree
	Content []byte
	LangID  langid.ID
	CRC32C  uint32
}

// Stats is a point-in-time snapshot of cache activity, exposed for the CLI
// status command and for tests; it is derived, never persisted.
type Stats struct {
	BytesInCache   int64
	EntriesInCache int
	Hits           int64
	Misses         int64
	Evictions      int64
}

// Pool owns one parser-per-language sync.Pool (approximating
// "one parser per (thread, langId), created lazily" in a goroutine-scheduled
// runtime) and the bounded tree cache.
type Pool struct {
	parserPools sync.Map // langid.ID -> *sync.Pool of *sitter.Parser

	mu        sync.Mutex
	cache     *lru.Cache[uint64, *CachedTree]
	bytesUsed int64
	hits      int64
	misses    int64
	evictions int64
}

// New constructs an empty Pool.
func New() *Pool {
	// The hashicorp LRU here is used purely as a concurrent-safe bucket
	// store with an eviction hook; its own recency-based eviction never
	// fires because we size it far above MaxCacheEntries and perform our
	// own oldest-by-parsedAt sweep under mu whenever the byte or entry
	// ceiling is exceeded.
	c, err := lru.NewWithEvict[uint64, *CachedTree](MaxCacheEntries*64, nil)
	if err != nil {
		panic(fmt.Sprintf("treepool: building LRU cache: %v", err))
	}
	return &Pool{cache: c}
}

func (p *Pool) parserFor(id langid.ID) (*sitter.Parser, func(), error) {
	poolIface, _ := p.parserPools.LoadOrStore(id, &sync.Pool{
		New: func() any {
			lang := grammarFor(id)
			if lang == nil {
				return nil
			}
			parser := sitter.NewParser()
			if err := parser.SetLanguage(lang); err != nil {
				return nil
			}
			return parser
		},
	})
	sp := poolIface.(*sync.Pool)
	v := sp.Get()
	parser, ok := v.(*sitter.Parser)
	if !ok || parser == nil {
		return nil, func() {}, errs.New(errs.RefactorLanguageNotSupported, fmt.Sprintf("no grammar registered for language %q", id))
	}
	release := func() { sp.Put(parser) }
	return parser, release, nil
}

// Parse parses bytes as language id and returns the resulting tree. It does
// not touch the cache.
func (p *Pool) Parse(content []byte, id langid.ID) (*sitter.Tree, error) {
	parser, release, err := p.parserFor(id)
	if err != nil {
		return nil, err
	}
	defer release()
	tree := parser.Parse(content, nil)
	if tree == nil {
		return nil, errs.New(errs.InternalError, fmt.Sprintf("parser returned no tree for language %q", id))
	}
	return tree, nil
}

func canonicalPath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return filepath.Clean(abs)
	}
	return resolved
}

func cacheKey(path string) uint64 {
	return xxhash.Sum64String(path)
}

// ParseFile reads path from disk, consulting the cache first. If id is ""
// the language is detected from the path (and, on a miss, a shebang line).
func (p *Pool) ParseFile(path string, id langid.ID) (ParseResult, error) {
	abs := canonicalPath(path)
	info, err := os.Stat(abs)
	if err != nil {
		return ParseResult{}, errs.Wrap(errs.FileNotFound, err).WithContext("path", abs)
	}
	if info.Size() > MaxFileBytes {
		return ParseResult{}, errs.New(errs.FileTooLarge, fmt.Sprintf("%s is %d bytes, exceeding the %d byte parse ceiling", abs, info.Size(), MaxFileBytes)).
			WithSolution("split the file or exclude %path% from indexing", "path", abs)
	}

	content, err := os.ReadFile(abs)
	if err != nil {
		return ParseResult{}, errs.Wrap(errs.FileNotReadable, err).WithContext("path", abs)
	}

	if id == "" {
		id = langid.DetectWithContent(abs, content)
		if id == "" {
			return ParseResult{}, errs.New(errs.RefactorLanguageNotSupported, fmt.Sprintf("could not detect a supported language for %s", abs))
		}
	}

	crc := CRC32C(content)
	key := cacheKey(abs)

	p.mu.Lock()
	if cached, ok := p.cache.Peek(key); ok && cached.path == abs {
		if cached.CRC32C == crc {
			p.hits++
			p.mu.Unlock()
			return ParseResult{Tree: cached.Tree, Content: content, LangID: cached.LangID, CRC32C: crc}, nil
		}
		// Stale: drop it now, a fresh parse will repopulate below.
		p.removeLocked(key)
	}
	p.misses++
	p.mu.Unlock()

	tree, err := p.Parse(content, id)
	if err != nil {
		return ParseResult{}, err
	}

	if lineCount(content) <= MaxCacheableLines {
		p.store(key, abs, &CachedTree{
			Tree:          tree,
			CRC32C:        crc,
			ParsedAt:      time.Now(),
			LangID:        id,
			EstimatedSize: int64(len(content)) * astSizeMultiplier,
			path:          abs,
		})
	}

	return ParseResult{Tree: tree, Content: content, LangID: id, CRC32C: crc}, nil
}

// ParseWithContent parses virtualBytes as if they were path's content,
// unconditionally skipping the cache, since the content may not match what
// is on disk (an in-memory edit being reasoned about before it is written).
func (p *Pool) ParseWithContent(path string, id langid.ID, virtualBytes []byte) (ParseResult, error) {
	abs := canonicalPath(path)
	if id == "" {
		id = langid.DetectWithContent(abs, virtualBytes)
		if id == "" {
			return ParseResult{}, errs.New(errs.RefactorLanguageNotSupported, fmt.Sprintf("could not detect a supported language for %s", abs))
		}
	}
	tree, err := p.Parse(virtualBytes, id)
	if err != nil {
		return ParseResult{}, err
	}
	return ParseResult{Tree: tree, Content: virtualBytes, LangID: id, CRC32C: CRC32C(virtualBytes)}, nil
}

func lineCount(content []byte) int {
	n := 1
	for _, b := range content {
		if b == '\n' {
			n++
		}
	}
	return n
}

func (p *Pool) store(key uint64, path string, entry *CachedTree) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if old, ok := p.cache.Peek(key); ok {
		p.bytesUsed -= old.EstimatedSize
	}
	p.cache.Add(key, entry)
	p.bytesUsed += entry.EstimatedSize
	p.evictLocked()
}

// evictLocked drops oldest-by-ParsedAt entries until both the byte budget
// and the entry-count ceiling hold. Must be called with mu held.
func (p *Pool) evictLocked() {
	for p.bytesUsed > MaxCacheBytes || p.cache.Len() > MaxCacheEntries {
		keys := p.cache.Keys()
		if len(keys) == 0 {
			return
		}
		sort.Slice(keys, func(i, j int) bool {
			a, _ := p.cache.Peek(keys[i])
			b, _ := p.cache.Peek(keys[j])
			if a == nil || b == nil {
				return false
			}
			return a.ParsedAt.Before(b.ParsedAt)
		})
		p.removeLocked(keys[0])
		p.evictions++
	}
}

func (p *Pool) removeLocked(key uint64) {
	if old, ok := p.cache.Peek(key); ok {
		p.bytesUsed -= old.EstimatedSize
	}
	p.cache.Remove(key)
}

// Invalidate drops path's cache entry, if any.
func (p *Pool) Invalidate(path string) {
	abs := canonicalPath(path)
	p.mu.Lock()
	defer p.mu.Unlock()
	p.removeLocked(cacheKey(abs))
}

// Clear empties the cache entirely.
func (p *Pool) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cache.Purge()
	p.bytesUsed = 0
}

// IsCached reports whether path currently has a cache entry (regardless of
// CRC freshness).
func (p *Pool) IsCached(path string) bool {
	abs := canonicalPath(path)
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.cache.Peek(cacheKey(abs))
	return ok
}

// BytesInCache returns the current estimated-AST byte usage.
func (p *Pool) BytesInCache() int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.bytesUsed
}

// EntriesInCache returns the current cache entry count.
func (p *Pool) EntriesInCache() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cache.Len()
}

// Snapshot returns a point-in-time Stats value.
func (p *Pool) Snapshot() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return Stats{
		BytesInCache:   p.bytesUsed,
		EntriesInCache: p.cache.Len(),
		Hits:           p.hits,
		Misses:         p.misses,
		Evictions:      p.evictions,
	}
}
