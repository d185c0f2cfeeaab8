package extract

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_c "github.com/tree-sitter/tree-sitter-c/bindings/go"

	"github.com/riftline/codenav/internal/langid"
)

func init() {
	register(langid.C, &LanguageSpec{
		Lang: sitter.NewLanguage(tree_sitter_c.Language()),
		// Plain C has no classes or namespaces, unlike the C++ grammar this
		// query is adapted from.
		Query: `
			(function_definition declarator: (function_declarator declarator: (identifier) @function.name)) @function
			(struct_specifier name: (type_identifier) @struct.name) @struct
			(enum_specifier name: (type_identifier) @enum.name) @enum
			(preproc_include) @import
		`,
	})
}
