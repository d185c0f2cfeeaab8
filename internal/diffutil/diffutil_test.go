package diffutil

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUnified_IdenticalInputsYieldEmptyString(t *testing.T) {
	for _, x := range []string{"", "a\n", "a\nb\nc\n", "no trailing newline"} {
		assert.Equal(t, "", Unified("a.txt", "a.txt", x, x))
	}
}

func TestUnified_TrailingNewlineScenario(t *testing.T) {
	diff := Unified("a.txt", "a.txt", "a\nb\nc\n", "a\nB\nc\n")

	lines := strings.Split(diff, "\n")
	a := assert.New(t)
	a.Contains(lines, "@@ -1,3 +1,3 @@")
	a.Contains(lines, " a")
	a.Contains(lines, "-b")
	a.Contains(lines, "+B")
	a.Contains(lines, " c")
	a.NotContains(diff, "@@ -1,4 +1,4 @@")
}

func TestUnified_NoTrailingNewlineSameHunkShape(t *testing.T) {
	withNewline := Unified("a.txt", "a.txt", "a\nb\nc\n", "a\nB\nc\n")
	withoutNewline := Unified("a.txt", "a.txt", "a\nb\nc", "a\nB\nc")
	assert.Equal(t, withNewline, withoutNewline)
}

func TestUnified_Headers(t *testing.T) {
	diff := Unified("old.go", "new.go", "a\n", "b\n")
	assert.True(t, strings.HasPrefix(diff, "--- old.go\n+++ new.go\n"))
}

func TestSplitKeepEmpty(t *testing.T) {
	assert.Nil(t, splitKeepEmpty(""))
	assert.Equal(t, []string{"a"}, splitKeepEmpty("a"))
	assert.Equal(t, []string{"a", "b"}, splitKeepEmpty("a\nb"))
	assert.Equal(t, []string{"a", "b"}, splitKeepEmpty("a\nb\n"))
	assert.Equal(t, []string{"a", "b", ""}, splitKeepEmpty("a\nb\n\n"))
}
