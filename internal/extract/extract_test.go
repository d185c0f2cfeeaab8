package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riftline/codenav/internal/langid"
	"github.com/riftline/codenav/internal/treepool"
)

func parseFixture(t *testing.T, id langid.ID, content string) ([]byte, treepool.ParseResult) {
	t.Helper()
	pool := treepool.New()
	result, err := pool.ParseWithContent("Foo."+string(id), id, []byte(content))
	require.NoError(t, err)
	return []byte(content), result
}

func TestDefinitions_Java_ClassAndMethod(t *testing.T) {
	src := "package a;\nclass Foo {\n    int bar(int x) {\n        return x;\n    }\n}\n"
	content, result := parseFixture(t, langid.Java, src)

	defs, err := Definitions("Foo.java", result.Tree, content, langid.Java)
	require.NoError(t, err)

	var found struct {
		class  bool
		method bool
	}
	for _, d := range defs {
		switch d.Name {
		case "Foo":
			found.class = true
			assert.Equal(t, "Foo", d.Name)
		case "bar":
			found.method = true
			assert.Equal(t, "Foo", d.ParentName)
			require.Len(t, d.Parameters, 1)
			assert.Equal(t, "x", d.Parameters[0].Name)
			assert.Equal(t, "int", d.Parameters[0].Type)
		}
	}
	assert.True(t, found.class, "expected a Foo class definition")
	assert.True(t, found.method, "expected a bar method definition")
}

func TestDefinitions_Python_FunctionWithDefaultParameter(t *testing.T) {
	src := "def greet(name, greeting=\"Hello\"):\n    return greeting + name\n"
	content, result := parseFixture(t, langid.Python, src)

	defs, err := Definitions("greet.py", result.Tree, content, langid.Python)
	require.NoError(t, err)

	require.Len(t, defs, 1)
	greet := defs[0]
	assert.Equal(t, "greet", greet.Name)
	require.Len(t, greet.Parameters, 2)
	assert.Equal(t, "name", greet.Parameters[0].Name)
	assert.Equal(t, "greeting", greet.Parameters[1].Name)
}

func TestSymbolAt_ReturnsInnermostMatch(t *testing.T) {
	src := "package a;\nclass Foo {\n    int bar(int x) {\n        return x;\n    }\n}\n"
	content, result := parseFixture(t, langid.Java, src)

	sym, ok := SymbolAt("Foo.java", result.Tree, content, langid.Java, 3, 9)
	require.True(t, ok)
	assert.Equal(t, "bar", sym.Name)
}

func TestReferences_MatchesIdentifierLeavesByName(t *testing.T) {
	src := "package a;\nclass Foo {\n    int bar(int x) {\n        return x;\n    }\n}\n"
	_, result := parseFixture(t, langid.Java, src)

	refs := References("Foo.java", result.Tree, []byte(src), "x")
	assert.Len(t, refs, 2)
}

func TestSupported(t *testing.T) {
	assert.True(t, Supported(langid.Java))
	assert.True(t, Supported(langid.Python))
}
