package extract

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_kotlin "github.com/tree-sitter-grammars/tree-sitter-kotlin/bindings/go"

	"github.com/riftline/codenav/internal/langid"
)

func init() {
	register(langid.Kotlin, &LanguageSpec{
		Lang: sitter.NewLanguage(tree_sitter_kotlin.Language()),
		Query: `
			(class_declaration (type_identifier) @class.name) @class
			(object_declaration (type_identifier) @object.name) @object
			(function_declaration (simple_identifier) @function.name) @function
			(property_declaration (variable_declaration (simple_identifier) @variable.name)) @variable
			(import_header (identifier) @import.path) @import
		`,
	})
}
