package extract

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_rust "github.com/tree-sitter/tree-sitter-rust/bindings/go"

	"github.com/riftline/codenav/internal/langid"
)

func init() {
	register(langid.Rust, &LanguageSpec{
		Lang: sitter.NewLanguage(tree_sitter_rust.Language()),
		Query: `
			(impl_item
				body: (declaration_list
					(function_item name: (identifier) @method.name))) @method
			(trait_item
				body: (declaration_list
					(function_item name: (identifier) @method.name))) @method
			(function_item name: (identifier) @function.name) @function
			(struct_item name: (type_identifier) @struct.name) @struct
			(enum_item name: (type_identifier) @enum.name) @enum
			(trait_item name: (type_identifier) @interface.name) @interface
			(type_item name: (type_identifier) @type.name) @type
			(use_declaration) @import
			(mod_item name: (identifier) @module.name) @module
		`,
	})
}
