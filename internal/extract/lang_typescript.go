package extract

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"

	"github.com/riftline/codenav/internal/langid"
)

const typescriptQuery = `
	(function_declaration name: (identifier) @function.name) @function
	(generator_function_declaration name: (identifier) @function.name) @function
	(method_definition name: (property_identifier) @method.name) @method
	(function_expression name: (identifier) @function.name) @function
	(class_declaration name: (type_identifier) @class.name) @class
	(interface_declaration name: (type_identifier) @interface.name) @interface
	(type_alias_declaration name: (type_identifier) @type.name) @type
	(enum_declaration name: (identifier) @enum.name) @enum
	(import_statement source: (string) @import.source) @import
`

func init() {
	register(langid.TypeScript, &LanguageSpec{
		Lang:  sitter.NewLanguage(tree_sitter_typescript.LanguageTypescript()),
		Query: typescriptQuery,
	})
	register(langid.TSX, &LanguageSpec{
		Lang:  sitter.NewLanguage(tree_sitter_typescript.LanguageTSX()),
		Query: typescriptQuery,
	})
}
