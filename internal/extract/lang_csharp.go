package extract

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_csharp "github.com/tree-sitter/tree-sitter-c-sharp/bindings/go"

	"github.com/riftline/codenav/internal/langid"
)

func init() {
	register(langid.CSharp, &LanguageSpec{
		Lang: sitter.NewLanguage(tree_sitter_csharp.Language()),
		Query: `
			(method_declaration name: (identifier) @method.name) @method
			(constructor_declaration name: (identifier) @constructor.name) @constructor
			(class_declaration name: (identifier) @class.name) @class
			(interface_declaration name: (identifier) @interface.name) @interface
			(struct_declaration name: (identifier) @struct.name) @struct
			(record_declaration name: (identifier) @record.name) @record
			(enum_declaration name: (identifier) @enum.name) @enum
			(property_declaration name: (identifier) @property.name) @property
			(field_declaration
				(variable_declaration
					(variable_declarator (identifier) @field.name))) @field
			(using_directive (qualified_name) @using.name) @using
			(using_directive (identifier) @using.name) @using
			(namespace_declaration name: (qualified_name) @namespace.name) @namespace
			(namespace_declaration name: (identifier) @namespace.name) @namespace
			(delegate_declaration name: (identifier) @delegate.name) @delegate
			(event_field_declaration
				(variable_declaration
					(variable_declarator (identifier) @event.name))) @event
		`,
	})
}
