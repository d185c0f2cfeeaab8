package extract

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_go "github.com/tree-sitter/tree-sitter-go/bindings/go"

	"github.com/riftline/codenav/internal/langid"
)

func init() {
	register(langid.Go, &LanguageSpec{
		Lang: sitter.NewLanguage(tree_sitter_go.Language()),
		Query: `
			(function_declaration name: (identifier) @function.name) @function
			(method_declaration
				receiver: (parameter_list) @method.receiver
				name: (field_identifier) @method.name) @method
			(type_declaration
				(type_spec name: (type_identifier) @type.name)) @type
			(const_declaration
				(const_spec name: (identifier) @constant.name)) @constant
			(var_declaration
				(var_spec name: (identifier) @variable.name)) @variable
			(import_spec path: (interpreted_string_literal) @import.path) @import
		`,
	})
}
