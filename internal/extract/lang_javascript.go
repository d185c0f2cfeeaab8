package extract

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"

	"github.com/riftline/codenav/internal/langid"
)

func init() {
	register(langid.JavaScript, &LanguageSpec{
		Lang: sitter.NewLanguage(tree_sitter_javascript.Language()),
		Query: `
			(function_declaration name: (identifier) @function.name) @function
			(generator_function_declaration name: (identifier) @function.name) @function
			(variable_declarator
				name: (identifier) @function.name
				value: [(arrow_function) (function_expression) (generator_function)]) @function
			(variable_declarator
				name: (identifier) @variable.name) @variable
			(method_definition name: (property_identifier) @method.name) @method
			(class_declaration name: (identifier) @class.name) @class
			(import_statement source: (string) @import.source) @import
		`,
	})
}
