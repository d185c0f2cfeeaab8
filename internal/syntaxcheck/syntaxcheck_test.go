package syntaxcheck

import (
	"testing"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riftline/codenav/internal/langid"
	"github.com/riftline/codenav/internal/treepool"
)

func TestCheckContent_MalformedJavaReportsErrorOnLineOne(t *testing.T) {
	pool := treepool.New()
	content := []byte("class Foo { void m( { } }")

	issues, err := CheckContent(content, func(b []byte) (*sitter.Tree, error) {
		return pool.Parse(b, langid.Java)
	})
	require.NoError(t, err)
	require.NotEmpty(t, issues)
	assert.Equal(t, 1, issues[0].Line)
}

func TestCheck_CleanFileHasNoIssues(t *testing.T) {
	pool := treepool.New()
	content := []byte("package main\n\nfunc main() {}\n")
	tree, err := pool.Parse(content, langid.Go)
	require.NoError(t, err)

	assert.Empty(t, Check(tree, content))
	assert.Equal(t, "no syntax issues found", Summary(Check(tree, content)))
}

func TestCheck_CapsAtMaxErrors(t *testing.T) {
	pool := treepool.New()
	var content []byte
	for i := 0; i < MaxErrors+5; i++ {
		content = append(content, []byte("class ( { } }\n")...)
	}
	tree, err := pool.Parse(content, langid.Java)
	require.NoError(t, err)

	issues := Check(tree, content)
	assert.LessOrEqual(t, len(issues), MaxErrors)
}
