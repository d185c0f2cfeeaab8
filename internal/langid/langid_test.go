package langid

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetect_ByExtension(t *testing.T) {
	tests := []struct {
		path string
		want ID
	}{
		{"Foo.java", Java},
		{"main.go", Go},
		{"app.tsx", TSX},
		{"app.ts", TypeScript},
		{"app.js", JavaScript},
		{"lib.h", C},
		{"lib.hpp", Cpp},
		{"script.py", Python},
		{"Main.CS", CSharp},
		{"index.html", HTML},
		{"unknown.xyz", ID("")},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Detect(tt.path), tt.path)
	}
}

func TestDetect_HClaimedByCNotCpp(t *testing.T) {
	assert.Equal(t, C, Detect("widget.h"))
}

func TestDetectWithContent_ShebangFallback(t *testing.T) {
	assert.Equal(t, Python, DetectWithContent("script", []byte("#!/usr/bin/env python3\nprint(1)\n")))
	assert.Equal(t, JavaScript, DetectWithContent("script", []byte("#!/usr/bin/env node\n")))
	assert.Equal(t, ID(""), DetectWithContent("script", []byte("no shebang here\n")))
}

func TestDetectWithContent_ExtensionWinsOverShebang(t *testing.T) {
	assert.Equal(t, Go, DetectWithContent("main.go", []byte("#!/usr/bin/env python3\n")))
}

func TestPrimaryExtension(t *testing.T) {
	assert.Equal(t, ".java", PrimaryExtension(Java))
	assert.Equal(t, ".js", PrimaryExtension(JavaScript))
	assert.Equal(t, "", PrimaryExtension(ID("nope")))
}

func TestGlobPattern(t *testing.T) {
	assert.Equal(t, "**/*.go", GlobPattern(Go))
	assert.Equal(t, "**/*.{js,jsx,mjs,cjs}", GlobPattern(JavaScript))
	assert.Equal(t, "", GlobPattern(ID("nope")))
}

func TestExtensions(t *testing.T) {
	assert.Equal(t, []string{".cpp", ".cc", ".cxx", ".hpp", ".hh", ".hxx"}, Extensions(Cpp))
}

func TestLanguages_CoversAllThirteen(t *testing.T) {
	assert.Len(t, Languages(), 13)
}
