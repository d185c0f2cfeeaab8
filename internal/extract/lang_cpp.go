package extract

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_cpp "github.com/tree-sitter/tree-sitter-cpp/bindings/go"

	"github.com/riftline/codenav/internal/langid"
)

func init() {
	register(langid.Cpp, &LanguageSpec{
		Lang: sitter.NewLanguage(tree_sitter_cpp.Language()),
		Query: `
			(function_definition declarator: (function_declarator declarator: (identifier) @function.name)) @function
			(class_specifier name: (type_identifier) @class.name) @class
			(struct_specifier name: (type_identifier) @struct.name) @struct
			(enum_specifier name: (type_identifier) @enum.name) @enum
			(namespace_definition name: (namespace_identifier) @namespace.name) @namespace
			(preproc_include) @import
			(using_declaration) @import
		`,
	})
}
