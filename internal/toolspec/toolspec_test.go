package toolspec

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riftline/codenav/internal/session"
)

func newTestSession(t *testing.T) *session.Context {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "main.go"), []byte(
		"package main\n\nfunc greet() string {\n\treturn \"hi\"\n}\n\nfunc main() {\n\tgreet()\n}\n"), 0644))
	sess, err := session.New(root)
	require.NoError(t, err)
	require.NoError(t, sess.Build(context.Background()))
	t.Cleanup(func() { sess.Close() })
	return sess
}

func TestRegistry_ListsAllTwelveTools(t *testing.T) {
	sess := newTestSession(t)
	tools := Registry(sess)

	names := make(map[string]bool, len(tools))
	for _, tool := range tools {
		names[tool.Name] = true
		assert.NotNil(t, tool.InputSchema)
		assert.NotNil(t, tool.Execute)
	}

	for _, want := range []string{
		"find_definition", "find_references", "hover", "list_symbols",
		"check_syntax", "rename", "inline", "extract_method",
		"extract_variable", "move_symbol", "wrap_code", "generate_boilerplate",
	} {
		assert.True(t, names[want], "missing tool %q", want)
	}
}

func TestFindDefinitionTool_Execute(t *testing.T) {
	sess := newTestSession(t)
	tools := Registry(sess)

	var findDef Tool
	for _, tool := range tools {
		if tool.Name == "find_definition" {
			findDef = tool
		}
	}
	require.NotEmpty(t, findDef.Name)

	root := sess.Root
	raw, err := json.Marshal(map[string]any{
		"file":   filepath.Join(root, "main.go"),
		"line":   8,
		"column": 2,
	})
	require.NoError(t, err)

	result, err := findDef.Execute(context.Background(), raw)
	require.NoError(t, err)
	assert.NotNil(t, result)
}

func TestExtractMethodTool_Execute(t *testing.T) {
	sess := newTestSession(t)
	tools := Registry(sess)

	var extractMethod Tool
	for _, tool := range tools {
		if tool.Name == "extract_method" {
			extractMethod = tool
		}
	}
	require.NotEmpty(t, extractMethod.Name)

	root := sess.Root
	raw, err := json.Marshal(map[string]any{
		"file":       filepath.Join(root, "main.go"),
		"startLine":  3,
		"endLine":    5,
		"methodName": "sayHi",
	})
	require.NoError(t, err)

	result, err := extractMethod.Execute(context.Background(), raw)
	require.NoError(t, err)
	assert.NotNil(t, result)
}

func TestCheckSyntaxTool_MissingFileParam(t *testing.T) {
	sess := newTestSession(t)
	tools := Registry(sess)

	var checkSyntax Tool
	for _, tool := range tools {
		if tool.Name == "check_syntax" {
			checkSyntax = tool
		}
	}
	require.NotEmpty(t, checkSyntax.Name)

	_, err := checkSyntax.Execute(context.Background(), nil)
	assert.Error(t, err)
}
