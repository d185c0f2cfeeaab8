package resolver

import (
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/mod/modfile"
)

// goModule describes the module codenav found at a project root, used to
// turn a Go import path into a file-system directory without guessing at
// GOPATH layout. This supplements spec.md's Java-only import resolution
// (§4.G) with Go resolution, since the extractor also indexes Go imports.
type goModule struct {
	root string // directory containing go.mod
	path string // module path, e.g. "github.com/riftline/codenav"
}

// findGoModule walks upward from startDir looking for a go.mod, parsing it
// with golang.org/x/mod/modfile instead of hand-rolled line scanning.
func findGoModule(startDir string) (*goModule, bool) {
	dir := startDir
	for {
		candidate := filepath.Join(dir, "go.mod")
		if data, err := os.ReadFile(candidate); err == nil {
			f, err := modfile.Parse(candidate, data, nil)
			if err == nil && f.Module != nil {
				return &goModule{root: dir, path: f.Module.Mod.Path}, true
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return nil, false
		}
		dir = parent
	}
}

// resolveGoImport maps importPath to a directory on disk, given the module
// found at fromFile's project root. Standard-library imports (no dot in the
// first path segment) resolve to IsBuiltin instead of a path.
func resolveGoImport(mod *goModule, importPath string) (dir string, isBuiltin bool) {
	if isStandardLibraryImport(importPath) {
		return "", true
	}
	if mod == nil || mod.path == "" {
		return "", false
	}
	if importPath == mod.path {
		return mod.root, false
	}
	if strings.HasPrefix(importPath, mod.path+"/") {
		rel := strings.TrimPrefix(importPath, mod.path+"/")
		return filepath.Join(mod.root, filepath.FromSlash(rel)), false
	}
	return "", false
}

func isStandardLibraryImport(importPath string) bool {
	first := importPath
	if idx := strings.IndexByte(importPath, '/'); idx >= 0 {
		first = importPath[:idx]
	}
	return !strings.Contains(first, ".")
}
