// Package resolver implements spec.md §4.G: the navigation query engine that
// sits on top of the parse pool, extractor, and symbol index — definition
// lookup, reference search across file/directory/project scopes, hover, and
// listSymbols, plus the Java import resolution and project-root detection
// the spec calls for, supplemented with Go import resolution grounded on the
// teacher's internal/symbollinker/go_resolver.go.
package resolver

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/riftline/codenav/internal/errs"
	"github.com/riftline/codenav/internal/extract"
	"github.com/riftline/codenav/internal/langid"
	"github.com/riftline/codenav/internal/symbolindex"
	"github.com/riftline/codenav/internal/symbols"
	"github.com/riftline/codenav/internal/treepool"
)

// Scope selects how far a reference search looks beyond the current file.
type Scope string

const (
	ScopeFile      Scope = "file"
	ScopeDirectory Scope = "directory"
	ScopeProject   Scope = "project"
)

const (
	fanoutDeadline   = 30 * time.Second
	maxDefCandidates = 500
	maxRefCandidates = 1000
	maxWalkDepth     = 15
	maxFanoutWidth   = 32
)

var skipDirs = map[string]bool{
	".git": true, ".svn": true, ".hg": true, ".idea": true, ".vscode": true,
	"node_modules": true, "build": true, "target": true, "dist": true,
	"out": true, "__pycache__": true, ".gradle": true, "bin": true, "obj": true,
}

var projectMarkers = []string{"build.gradle", "build.gradle.kts", "pom.xml", "package.json", "go.mod", "Cargo.toml", ".git"}

// Resolver answers navigation queries for one project.
type Resolver struct {
	pool  *treepool.Pool
	index *symbolindex.Index // optional; nil until a build has run
}

// New constructs a Resolver. index may be nil; project-fallback definition
// lookup then walks the filesystem directly instead of consulting it.
func New(pool *treepool.Pool, index *symbolindex.Index) *Resolver {
	return &Resolver{pool: pool, index: index}
}

// ProjectRoot walks upward from path looking for one of the recognized
// project markers, per spec.md §4.G/§4.C, falling back to path's own
// directory.
func ProjectRoot(path string) string {
	dir := path
	if info, err := os.Stat(path); err == nil && !info.IsDir() {
		dir = filepath.Dir(path)
	}
	for {
		for _, marker := range projectMarkers {
			if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
				return dir
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return filepath.Dir(path)
		}
		dir = parent
	}
}

// FindDefinition resolves the symbol at (line, column) in file, using smart
// column search when the exact position isn't an identifier.
func (r *Resolver) FindDefinition(ctx context.Context, file string, line, column int) (symbols.Info, error) {
	result, err := r.pool.ParseFile(file, "")
	if err != nil {
		return symbols.Info{}, err
	}
	sym, ok := smartSymbolAt(file, result, line, column)
	if !ok {
		return symbols.Info{}, errs.New(errs.SymbolNotFound, "no identifier near the given position").
			WithContext("file", file)
	}
	return r.FindDefinitionByName(ctx, file, sym.Name)
}

// FindDefinitionByName implements the three-stage lookup order from
// spec.md §4.G: local file, then imports (Java files, and Go files via
// go.mod), then project fallback.
func (r *Resolver) FindDefinitionByName(ctx context.Context, file, name string) (symbols.Info, error) {
	result, err := r.pool.ParseFile(file, "")
	if err != nil {
		return symbols.Info{}, err
	}

	if def, ok := firstLocalDefinition(file, result, name); ok {
		return def, nil
	}

	if result.LangID == langid.Java {
		if def, ok := r.findJavaImportDefinition(file, result, name); ok {
			return def, nil
		}
	}
	if result.LangID == langid.Go {
		if def, ok := r.findGoImportDefinition(file, name); ok {
			return def, nil
		}
	}

	if r.index != nil {
		if def, ok := r.index.FindFirstDefinition(name); ok {
			return def, nil
		}
	}

	return r.projectFallbackDefinition(ctx, file, name)
}

func firstLocalDefinition(file string, result treepool.ParseResult, name string) (symbols.Info, bool) {
	defs, err := extract.Definitions(file, result.Tree, result.Content, result.LangID)
	if err != nil {
		return symbols.Info{}, false
	}
	var best symbols.Info
	found := false
	for _, d := range defs {
		if d.Name != name || !symbols.IsDefinitionKind(d.Kind) {
			continue
		}
		if !found || d.Location.Less(best.Location) {
			best, found = d, true
		}
	}
	return best, found
}

func (r *Resolver) findJavaImportDefinition(file string, result treepool.ParseResult, name string) (symbols.Info, bool) {
	defs, err := extract.Definitions(file, result.Tree, result.Content, result.LangID)
	if err != nil {
		return symbols.Info{}, false
	}
	root := ProjectRoot(file)
	for _, d := range defs {
		if d.Kind != symbols.KindImport {
			continue
		}
		last := lastDotComponent(d.Name)
		if last != name && last != "*" {
			continue
		}
		if def, ok := r.lookupJavaClassFile(root, d.Name, name); ok {
			return def, true
		}
	}
	return symbols.Info{}, false
}

func lastDotComponent(importName string) string {
	importName = strings.TrimSuffix(strings.TrimSpace(strings.TrimPrefix(strings.TrimSuffix(importName, ";"), "import")), ";")
	importName = strings.TrimSpace(importName)
	importName = strings.TrimPrefix(importName, "static ")
	idx := strings.LastIndexByte(importName, '.')
	if idx < 0 {
		return importName
	}
	return importName[idx+1:]
}

func (r *Resolver) lookupJavaClassFile(root, importPath, name string) (symbols.Info, bool) {
	pkg := importPath
	pkg = strings.TrimSuffix(strings.TrimSpace(strings.TrimPrefix(strings.TrimSuffix(pkg, ";"), "import")), ";")
	pkg = strings.TrimPrefix(pkg, "static ")
	if idx := strings.LastIndexByte(pkg, '.'); idx >= 0 {
		pkg = pkg[:idx]
	}
	pkgDir := strings.ReplaceAll(pkg, ".", string(filepath.Separator))

	candidates := []string{
		filepath.Join(root, "src", "main", "java", pkgDir, name+".java"),
		filepath.Join(root, "src", pkgDir, name+".java"),
		filepath.Join(root, pkgDir, name+".java"),
	}
	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err != nil {
			continue
		}
		result, err := r.pool.ParseFile(candidate, langid.Java)
		if err != nil {
			continue
		}
		if def, ok := firstLocalDefinition(candidate, result, name); ok {
			return def, true
		}
	}
	return symbols.Info{}, false
}

func (r *Resolver) findGoImportDefinition(file, name string) (symbols.Info, bool) {
	root := ProjectRoot(file)
	mod, _ := findGoModule(root)
	result, err := r.pool.ParseFile(file, langid.Go)
	if err != nil {
		return symbols.Info{}, false
	}
	defs, err := extract.Definitions(file, result.Tree, result.Content, langid.Go)
	if err != nil {
		return symbols.Info{}, false
	}
	for _, d := range defs {
		if d.Kind != symbols.KindImport {
			continue
		}
		importPath := strings.Trim(d.Name, `"`)
		dir, isBuiltin := resolveGoImport(mod, importPath)
		if isBuiltin || dir == "" {
			continue
		}
		matches, _ := filepath.Glob(filepath.Join(dir, "*.go"))
		for _, m := range matches {
			res, err := r.pool.ParseFile(m, langid.Go)
			if err != nil {
				continue
			}
			if def, ok := firstLocalDefinition(m, res, name); ok {
				return def, true
			}
		}
	}
	return symbols.Info{}, false
}

// projectFallbackDefinition walks the project tree, text-filters candidates,
// and parses them in parallel under fanoutDeadline, per spec.md §4.G.
func (r *Resolver) projectFallbackDefinition(ctx context.Context, file, name string) (symbols.Info, error) {
	root := ProjectRoot(file)
	lang := langid.Detect(file)
	candidates := collectCandidateFiles(root, lang, name, maxDefCandidates)

	ctx, cancel := context.WithTimeout(ctx, fanoutDeadline)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxFanoutWidth)

	var mu sync.Mutex
	var best symbols.Info
	found := false

	for _, c := range candidates {
		c := c
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return nil
			default:
			}
			res, err := r.pool.ParseFile(c, "")
			if err != nil {
				return nil
			}
			def, ok := firstLocalDefinition(c, res, name)
			if !ok {
				return nil
			}
			mu.Lock()
			if !found || def.Location.Less(best.Location) {
				best, found = def, true
			}
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	if !found {
		return symbols.Info{}, errs.New(errs.SymbolNotFound, "no definition found for "+name).WithContext("name", name)
	}
	return best, nil
}

// FindReferences resolves the symbol at (line, column) then searches scope
// for its uses.
func (r *Resolver) FindReferences(ctx context.Context, file string, line, column int, scope Scope, includeDeclaration bool) ([]symbols.Location, error) {
	result, err := r.pool.ParseFile(file, "")
	if err != nil {
		return nil, err
	}
	sym, ok := smartSymbolAt(file, result, line, column)
	if !ok {
		return nil, errs.New(errs.SymbolNotFound, "no identifier near the given position").WithContext("file", file)
	}
	return r.FindReferencesByName(ctx, file, sym.Name, scope, includeDeclaration)
}

// FindReferencesByName implements spec.md §4.G's scoped reference search.
func (r *Resolver) FindReferencesByName(ctx context.Context, file, name string, scope Scope, includeDeclaration bool) ([]symbols.Location, error) {
	var files []string
	switch scope {
	case ScopeFile:
		files = []string{file}
	case ScopeDirectory:
		files = siblingFiles(file, name)
	case ScopeProject:
		root := ProjectRoot(file)
		files = collectCandidateFiles(root, langid.Detect(file), name, maxRefCandidates)
	default:
		return nil, errs.New(errs.ParamInvalid, "scope must be one of file, directory, project").WithContext("scope", string(scope))
	}

	ctx, cancel := context.WithTimeout(ctx, fanoutDeadline)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxFanoutWidth)

	var mu sync.Mutex
	var results []symbols.Location

	for _, f := range files {
		f := f
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return nil
			default:
			}
			res, err := r.pool.ParseFile(f, "")
			if err != nil {
				return nil
			}
			locs := extract.References(f, res.Tree, res.Content, name)
			mu.Lock()
			results = append(results, locs...)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	if !includeDeclaration {
		def, err := r.FindDefinitionByName(ctx, file, name)
		if err == nil {
			results = excludeWithinDeclaration(results, def.Location)
		}
	}

	return dedupeSortLocations(results), nil
}

// Hover returns the definition at (line, column); spec.md §4.G defines it as
// an alias over the same lookup findDefinition uses.
func (r *Resolver) Hover(ctx context.Context, file string, line, column int) (symbols.Info, error) {
	return r.FindDefinition(ctx, file, line, column)
}

// ListSymbols returns every declared symbol in file (classes, methods,
// fields, …), sorted by location. Import and package statements are excluded:
// they are not declarations, per symbols.IsDefinitionKind.
func (r *Resolver) ListSymbols(file string) ([]symbols.Info, error) {
	result, err := r.pool.ParseFile(file, "")
	if err != nil {
		return nil, err
	}
	all, err := extract.Definitions(file, result.Tree, result.Content, result.LangID)
	if err != nil {
		return nil, err
	}
	defs := make([]symbols.Info, 0, len(all))
	for _, d := range all {
		if symbols.IsDefinitionKind(d.Kind) {
			defs = append(defs, d)
		}
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].Location.Less(defs[j].Location) })
	return defs, nil
}

// smartSymbolAt implements spec.md §4.G's smart column search: probe the
// exact position, then ±1, ±2, ±3, preferring the right side at each step.
func smartSymbolAt(file string, result treepool.ParseResult, line, column int) (symbols.Info, bool) {
	if sym, ok := extract.SymbolAt(file, result.Tree, result.Content, result.LangID, line, column); ok {
		return sym, true
	}
	for delta := 1; delta <= 3; delta++ {
		if sym, ok := extract.SymbolAt(file, result.Tree, result.Content, result.LangID, line, column+delta); ok {
			return sym, true
		}
		if sym, ok := extract.SymbolAt(file, result.Tree, result.Content, result.LangID, line, column-delta); ok {
			return sym, true
		}
	}
	return symbols.Info{}, false
}

func siblingFiles(file, name string) []string {
	dir := filepath.Dir(file)
	lang := langid.Detect(file)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		full := filepath.Join(dir, e.Name())
		if langid.Detect(full) != lang {
			continue
		}
		if fileContainsText(full, name) {
			out = append(out, full)
		}
	}
	return out
}

// collectCandidateFiles walks root up to maxWalkDepth, skipping the standard
// ignore directories, collecting files of lang (or any supported language if
// lang == "") whose content textually contains name, up to limit files.
func collectCandidateFiles(root string, lang langid.ID, name string, limit int) []string {
	var out []string
	baseDepth := strings.Count(filepath.Clean(root), string(filepath.Separator))

	_ = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if len(out) >= limit {
			return filepath.SkipAll
		}
		if d.IsDir() {
			if path != root {
				if skipDirs[d.Name()] || strings.HasPrefix(d.Name(), ".") {
					return filepath.SkipDir
				}
				depth := strings.Count(filepath.Clean(path), string(filepath.Separator)) - baseDepth
				if depth > maxWalkDepth {
					return filepath.SkipDir
				}
			}
			return nil
		}
		detected := langid.Detect(path)
		if detected == "" {
			return nil
		}
		if lang != "" && detected != lang {
			return nil
		}
		if fileContainsText(path, name) {
			out = append(out, path)
		}
		return nil
	})
	return out
}

func fileContainsText(path, needle string) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	return strings.Contains(string(data), needle)
}

// excludeWithinDeclaration drops every location that falls inside decl's own
// span in the same file. A definition's Location covers the whole declaring
// node (e.g. the entire method_declaration), not just its name token, so the
// declaration's own name reference is found by containment rather than exact
// equality against decl.
func excludeWithinDeclaration(locs []symbols.Location, decl symbols.Location) []symbols.Location {
	out := locs[:0]
	for _, l := range locs {
		if l.Path == decl.Path && withinSpan(l, decl) {
			continue
		}
		out = append(out, l)
	}
	return out
}

func withinSpan(l, span symbols.Location) bool {
	if l.StartLine < span.StartLine || l.StartLine > span.EndLine {
		return false
	}
	if l.StartLine == span.StartLine && l.StartColumn < span.StartColumn {
		return false
	}
	if l.StartLine == span.EndLine && l.StartColumn > span.EndColumn {
		return false
	}
	return true
}

func dedupeSortLocations(locs []symbols.Location) []symbols.Location {
	sort.Slice(locs, func(i, j int) bool { return locs[i].Less(locs[j]) })
	out := locs[:0]
	var prev symbols.Location
	havePrev := false
	for _, l := range locs {
		if havePrev && l == prev {
			continue
		}
		out = append(out, l)
		prev = l
		havePrev = true
	}
	return out
}
