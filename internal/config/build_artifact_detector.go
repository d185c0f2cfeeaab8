// Build output detection from language config files: package.json,
// tsconfig.json, Cargo.toml, pyproject.toml. Keyed off langid's registry so
// the detector only looks for config files of languages codenav actually
// indexes.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/riftline/codenav/internal/langid"
)

// buildOutputDetector finds per-language build output directories from
// project config files, so discoverFiles can exclude them without the user
// having to list them by hand.
type buildOutputDetector struct {
	root string
}

func newBuildOutputDetector(root string) *buildOutputDetector {
	return &buildOutputDetector{root: root}
}

// DetectBuildOutputExcludes scans root for the config files of every
// language codenav indexes and returns glob exclusions for any declared
// build output directory.
func DetectBuildOutputExcludes(root string) []string {
	return newBuildOutputDetector(root).detectExcludePatterns()
}

// detectExcludePatterns scans for the config files of every language in
// langid's registry that declares a custom output directory and returns
// "**/<dir>/**" glob exclusions for each.
func (d *buildOutputDetector) detectExcludePatterns() []string {
	var patterns []string
	for _, lang := range langid.Languages() {
		switch lang {
		case langid.JavaScript, langid.TypeScript, langid.TSX:
			patterns = append(patterns, d.nodeOutputs()...)
		case langid.Rust:
			patterns = append(patterns, d.cargoOutputs()...)
		case langid.Python:
			patterns = append(patterns, d.pyprojectOutputs()...)
			// Java, Kotlin, Go, C, Cpp, CSharp, PHP, HTML: no config-driven
			// output directory worth parsing; default excludes already
			// cover their conventional build/target dirs.
		}
	}
	return DeduplicatePatterns(patterns)
}

func (d *buildOutputDetector) readJSON(name string) (map[string]interface{}, bool) {
	data, err := os.ReadFile(filepath.Join(d.root, name))
	if err != nil {
		return nil, false
	}
	var v map[string]interface{}
	if json.Unmarshal(data, &v) != nil {
		return nil, false
	}
	return v, true
}

func (d *buildOutputDetector) nodeOutputs() []string {
	var patterns []string

	if pkg, ok := d.readJSON("package.json"); ok {
		if build, ok := pkg["build"].(map[string]interface{}); ok {
			if outDir, ok := build["outDir"].(string); ok {
				patterns = append(patterns, asPattern(outDir))
			}
		}
	}

	if tsconfig, ok := d.readJSON("tsconfig.json"); ok {
		if opts, ok := tsconfig["compilerOptions"].(map[string]interface{}); ok {
			if outDir, ok := opts["outDir"].(string); ok {
				patterns = append(patterns, asPattern(outDir))
			}
		}
	}

	for _, name := range []string{"vite.config.js", "vite.config.ts"} {
		data, err := os.ReadFile(filepath.Join(d.root, name))
		if err != nil {
			continue
		}
		if dir, ok := quotedValueAfter(string(data), "outDir"); ok {
			patterns = append(patterns, asPattern(dir))
		}
	}

	return patterns
}

func (d *buildOutputDetector) cargoOutputs() []string {
	data, err := os.ReadFile(filepath.Join(d.root, "Cargo.toml"))
	if err != nil {
		return nil
	}
	var cargo map[string]interface{}
	if toml.Unmarshal(data, &cargo) != nil {
		return nil
	}
	profile, ok := cargo["profile"].(map[string]interface{})
	if !ok {
		return nil
	}
	release, ok := profile["release"].(map[string]interface{})
	if !ok {
		return nil
	}
	if targetDir, ok := release["target-dir"].(string); ok {
		return []string{asPattern(targetDir)}
	}
	return nil
}

func (d *buildOutputDetector) pyprojectOutputs() []string {
	data, err := os.ReadFile(filepath.Join(d.root, "pyproject.toml"))
	if err != nil {
		return nil
	}
	var pyproject map[string]interface{}
	if toml.Unmarshal(data, &pyproject) != nil {
		return nil
	}
	tool, ok := pyproject["tool"].(map[string]interface{})
	if !ok {
		return nil
	}
	poetry, ok := tool["poetry"].(map[string]interface{})
	if !ok {
		return nil
	}
	build, ok := poetry["build"].(map[string]interface{})
	if !ok {
		return nil
	}
	if targetDir, ok := build["target-dir"].(string); ok {
		return []string{asPattern(targetDir)}
	}
	return nil
}

func asPattern(dir string) string {
	return "**/" + dir + "/**"
}

// quotedValueAfter finds marker in content and returns the first quoted
// string following it, e.g. quotedValueAfter(`outDir: 'dist'`, "outDir")
// returns ("dist", true).
func quotedValueAfter(content, marker string) (string, bool) {
	idx := strings.Index(content, marker)
	if idx == -1 {
		return "", false
	}
	rest := content[idx+len(marker):]
	colon := strings.Index(rest, ":")
	if colon == -1 {
		return "", false
	}
	rest = rest[colon+1:]
	for _, quote := range []string{"'", "\""} {
		parts := strings.SplitN(rest, quote, 3)
		if len(parts) >= 3 {
			if v := strings.TrimSpace(parts[1]); v != "" {
				return v, true
			}
		}
	}
	return "", false
}

// DeduplicatePatterns removes duplicate exclusion patterns, preserving
// first-seen order.
func DeduplicatePatterns(patterns []string) []string {
	seen := make(map[string]bool, len(patterns))
	result := make([]string, 0, len(patterns))
	for _, p := range patterns {
		if !seen[p] {
			seen[p] = true
			result = append(result, p)
		}
	}
	return result
}
