package config

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
)

// gitignorePattern is one parsed line of a .gitignore file.
type gitignorePattern struct {
	pattern   string
	negate    bool
	directory bool
	absolute  bool
}

// GitignoreParser turns a .gitignore file into doublestar exclusion globs,
// the same shape Config.Exclude and the build-output detector produce.
// codenav never re-implements git's own ignore matching: discoverFiles
// excludes files with doublestar.Match over these globs directly.
type GitignoreParser struct {
	patterns []gitignorePattern
}

// NewGitignoreParser creates a new gitignore parser.
func NewGitignoreParser() *GitignoreParser {
	return &GitignoreParser{}
}

// LoadGitignore loads patterns from rootPath/.gitignore. A missing file is
// not an error — most projects won't have one.
func (gp *GitignoreParser) LoadGitignore(rootPath string) error {
	file, err := os.Open(filepath.Join(rootPath, ".gitignore"))
	if err != nil {
		return nil
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		gp.patterns = append(gp.patterns, parseGitignoreLine(line))
	}
	return scanner.Err()
}

// parseGitignoreLine strips a pattern's !, trailing /, and leading / into
// gitignorePattern's modifier fields and returns the cleaned pattern.
func parseGitignoreLine(line string) gitignorePattern {
	var p gitignorePattern

	if strings.HasPrefix(line, "!") {
		p.negate = true
		line = line[1:]
	}
	if strings.HasSuffix(line, "/") {
		p.directory = true
		line = strings.TrimSuffix(line, "/")
	}
	if strings.HasPrefix(line, "/") {
		p.absolute = true
		line = line[1:]
	}

	p.pattern = line
	return p
}

// GetExclusionPatterns returns gitignore patterns rewritten as doublestar
// exclusion globs. Negation patterns are skipped: codenav's exclude list
// is a flat set of globs with no notion of un-excluding a nested path.
func (gp *GitignoreParser) GetExclusionPatterns() []string {
	var exclusions []string
	for _, pattern := range gp.patterns {
		if pattern.negate {
			continue
		}
		exclusions = append(exclusions, convertToGlobPattern(pattern))
	}
	return exclusions
}

// convertToGlobPattern converts a gitignore pattern to a doublestar
// exclusion glob.
func convertToGlobPattern(pattern gitignorePattern) string {
	p := pattern.pattern

	if pattern.directory {
		if pattern.absolute {
			return p + "/**"
		}
		return "**/" + p + "/**"
	}

	if pattern.absolute {
		return p
	}
	return "**/" + p
}
