package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGitignoreParser_GetExclusionPatterns(t *testing.T) {
	tests := []struct {
		name     string
		pattern  string
		expected string
	}{
		{"plain file", "*.log", "**/*.log"},
		{"dotfile", ".DS_Store", "**/.DS_Store"},
		{"relative directory", "node_modules/", "**/node_modules/**"},
		{"absolute directory", "/build/", "build/**"},
		{"absolute file", "/config.json", "config.json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gp := NewGitignoreParser()
			gp.patterns = append(gp.patterns, parseGitignoreLine(tt.pattern))
			exclusions := gp.GetExclusionPatterns()
			require.Len(t, exclusions, 1)
			assert.Equal(t, tt.expected, exclusions[0])
		})
	}
}

func TestGitignoreParser_GetExclusionPatterns_SkipsNegations(t *testing.T) {
	gp := NewGitignoreParser()
	for _, line := range []string{"*.log", "!important.log", "dist/"} {
		gp.patterns = append(gp.patterns, parseGitignoreLine(line))
	}

	exclusions := gp.GetExclusionPatterns()
	for _, exclusion := range exclusions {
		assert.False(t, strings.HasPrefix(exclusion, "!"))
	}
	assert.ElementsMatch(t, []string{"**/*.log", "**/dist/**"}, exclusions)
}

func TestGitignoreParser_LoadGitignore(t *testing.T) {
	root := t.TempDir()
	content := "# comment\n\nnode_modules/\n*.log\n!keep.log\n/dist\n"
	require.NoError(t, os.WriteFile(filepath.Join(root, ".gitignore"), []byte(content), 0644))

	gp := NewGitignoreParser()
	require.NoError(t, gp.LoadGitignore(root))

	assert.ElementsMatch(t,
		[]string{"**/node_modules/**", "**/*.log", "dist"},
		gp.GetExclusionPatterns())
}

func TestGitignoreParser_LoadGitignore_MissingFileIsNotError(t *testing.T) {
	gp := NewGitignoreParser()
	assert.NoError(t, gp.LoadGitignore(t.TempDir()))
	assert.Empty(t, gp.GetExclusionPatterns())
}
