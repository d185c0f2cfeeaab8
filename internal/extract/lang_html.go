package extract

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_html "github.com/tree-sitter/tree-sitter-html/bindings/go"

	"github.com/riftline/codenav/internal/langid"
	"github.com/riftline/codenav/internal/symbols"
)

func init() {
	// HTML is outline-only: elements carrying an id attribute are surfaced as
	// REFERENCE symbols so the resolver can still jump to "#header" style
	// anchors; HTML has no definitions in the sense the other languages do.
	register(langid.HTML, &LanguageSpec{
		Lang: sitter.NewLanguage(tree_sitter_html.Language()),
		Query: `
			((element
				(start_tag
					(attribute
						(attribute_name) @_attr
						[(quoted_attribute_value (attribute_value) @element.name)
						 (attribute_value) @element.name]))) @element
			 (#eq? @_attr "id"))
		`,
		CaptureKind: map[string]symbols.Kind{
			"element": symbols.KindReference,
		},
	})
}
