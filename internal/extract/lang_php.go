package extract

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_php "github.com/tree-sitter/tree-sitter-php/bindings/go"

	"github.com/riftline/codenav/internal/langid"
)

func init() {
	register(langid.PHP, &LanguageSpec{
		Lang: sitter.NewLanguage(tree_sitter_php.LanguagePHP()),
		Query: `
			(class_declaration name: (name) @class.name) @class
			(interface_declaration name: (name) @interface.name) @interface
			(trait_declaration name: (name) @trait.name) @trait
			(enum_declaration name: (name) @enum.name) @enum
			(function_definition name: (name) @function.name) @function
			(method_declaration name: (name) @method.name) @method
			(namespace_definition name: (namespace_name) @namespace.name) @namespace
			(namespace_use_declaration) @import
			(property_declaration) @property
			(const_declaration) @constant
		`,
	})
}
