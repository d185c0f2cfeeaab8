package extract

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_java "github.com/tree-sitter/tree-sitter-java/bindings/go"

	"github.com/riftline/codenav/internal/langid"
)

func init() {
	register(langid.Java, &LanguageSpec{
		Lang: sitter.NewLanguage(tree_sitter_java.Language()),
		Query: `
			(method_declaration name: (identifier) @method.name) @method
			(constructor_declaration name: (identifier) @constructor.name) @constructor
			(class_declaration name: (identifier) @class.name) @class
			(record_declaration name: (identifier) @class.name) @class
			(interface_declaration name: (identifier) @interface.name) @interface
			(enum_declaration name: (identifier) @enum.name) @enum
			(field_declaration declarator: (variable_declarator name: (identifier) @field.name)) @field
			(import_declaration) @import
			(package_declaration) @package
			(annotation_type_declaration name: (identifier) @annotation.name) @annotation
		`,
	})
}
