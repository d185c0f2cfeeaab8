// Package extract implements spec.md §4.D: turning a parsed tree into the
// symbols.Info values the index and resolver operate on. Each supported
// language is described by a LanguageSpec: a tree-sitter query string plus a
// table mapping that query's top-level capture names to symbols.Kind. This
// follows the teacher's own query-driven extraction
// (internal/parser/parser_language_setup.go + the QueryCursor.Matches loop
// in internal/parser/parser.go) rather than a hand-rolled walk per language.
package extract

import (
	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/riftline/codenav/internal/langid"
	"github.com/riftline/codenav/internal/symbols"
)

// LanguageSpec binds one language's extraction query and its capture-name to
// Kind mapping. A definition capture's declared name comes from its
// "<capture>.name" sub-capture (e.g. "function.name") when the query has
// one; the parameter list is found on the definition node itself.
type LanguageSpec struct {
	Lang          *sitter.Language
	Query         string
	CaptureKind   map[string]symbols.Kind
	compiledQuery *sitter.Query
}

var registry = map[langid.ID]*LanguageSpec{}

func register(id langid.ID, spec *LanguageSpec) {
	registry[id] = spec
}

// commonCaptureKind covers the capture names shared across every language's
// query; a LanguageSpec's own CaptureKind table is consulted first, this one
// as a fallback so new languages don't need to repeat the obvious mappings.
var commonCaptureKind = map[string]symbols.Kind{
	"function":    symbols.KindFunction,
	"method":      symbols.KindMethod,
	"constructor": symbols.KindConstructor,
	"class":       symbols.KindClass,
	"interface":   symbols.KindInterface,
	"struct":      symbols.KindStruct,
	"enum":        symbols.KindEnum,
	"trait":       symbols.KindTrait,
	"object":      symbols.KindObject,
	"field":       symbols.KindField,
	"property":    symbols.KindProperty,
	"variable":    symbols.KindVariable,
	"constant":    symbols.KindConstant,
	"import":      symbols.KindImport,
	"package":     symbols.KindPackage,
	"module":      symbols.KindModule,
	"using":       symbols.KindImport,
	"namespace":   symbols.KindNamespace,
	"annotation":  symbols.KindAnnotation,
	"record":      symbols.KindClass,
	"delegate":    symbols.KindFunction,
	"event":       symbols.KindEvent,
	"type":        symbols.KindClass,
}

func kindFor(spec *LanguageSpec, capture string) (symbols.Kind, bool) {
	if k, ok := spec.CaptureKind[capture]; ok {
		return k, true
	}
	if k, ok := commonCaptureKind[capture]; ok {
		return k, true
	}
	return symbols.KindUnknown, false
}

func compiled(id langid.ID) (*sitter.Query, *LanguageSpec, bool) {
	spec, ok := registry[id]
	if !ok || spec.Lang == nil {
		return nil, nil, false
	}
	if spec.compiledQuery == nil {
		q, _ := sitter.NewQuery(spec.Lang, spec.Query)
		// The go-tree-sitter binding can return a typed-nil error on success;
		// the only reliable signal is whether q itself is non-nil.
		if q == nil {
			return nil, nil, false
		}
		spec.compiledQuery = q
	}
	return spec.compiledQuery, spec, true
}
