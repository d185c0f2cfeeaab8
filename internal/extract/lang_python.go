package extract

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_python "github.com/tree-sitter/tree-sitter-python/bindings/go"

	"github.com/riftline/codenav/internal/langid"
)

func init() {
	register(langid.Python, &LanguageSpec{
		Lang: sitter.NewLanguage(tree_sitter_python.Language()),
		Query: `
			(class_definition
				body: (block
					(function_definition name: (identifier) @method.name))) @method
			(function_definition name: (identifier) @function.name) @function
			(class_definition name: (identifier) @class.name) @class
			(import_statement) @import
			(import_from_statement) @import
		`,
	})
}
