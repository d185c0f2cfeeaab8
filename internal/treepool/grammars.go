package treepool

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_c "github.com/tree-sitter/tree-sitter-c/bindings/go"
	tree_sitter_csharp "github.com/tree-sitter/tree-sitter-c-sharp/bindings/go"
	tree_sitter_cpp "github.com/tree-sitter/tree-sitter-cpp/bindings/go"
	tree_sitter_go "github.com/tree-sitter/tree-sitter-go/bindings/go"
	tree_sitter_html "github.com/tree-sitter/tree-sitter-html/bindings/go"
	tree_sitter_java "github.com/tree-sitter/tree-sitter-java/bindings/go"
	tree_sitter_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	tree_sitter_kotlin "github.com/tree-sitter-grammars/tree-sitter-kotlin/bindings/go"
	tree_sitter_php "github.com/tree-sitter/tree-sitter-php/bindings/go"
	tree_sitter_python "github.com/tree-sitter/tree-sitter-python/bindings/go"
	tree_sitter_rust "github.com/tree-sitter/tree-sitter-rust/bindings/go"
	tree_sitter_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"

	"github.com/riftline/codenav/internal/langid"
)

// grammarFor returns the tree-sitter Language for id, or nil if codenav has
// no grammar binding for it. Kept as one switch with a case per langid.ID
// (not a map built at init from a loop); the compiler does not check that
// every ID has a case, and an ID without one falls to default and gets nil.
func grammarFor(id langid.ID) *sitter.Language {
	switch id {
	case langid.Java:
		return sitter.NewLanguage(tree_sitter_java.Language())
	case langid.Kotlin:
		return sitter.NewLanguage(tree_sitter_kotlin.Language())
	case langid.JavaScript:
		return sitter.NewLanguage(tree_sitter_javascript.Language())
	case langid.TypeScript:
		return sitter.NewLanguage(tree_sitter_typescript.LanguageTypescript())
	case langid.TSX:
		return sitter.NewLanguage(tree_sitter_typescript.LanguageTSX())
	case langid.Python:
		return sitter.NewLanguage(tree_sitter_python.Language())
	case langid.Go:
		return sitter.NewLanguage(tree_sitter_go.Language())
	case langid.Rust:
		return sitter.NewLanguage(tree_sitter_rust.Language())
	case langid.C:
		return sitter.NewLanguage(tree_sitter_c.Language())
	case langid.Cpp:
		return sitter.NewLanguage(tree_sitter_cpp.Language())
	case langid.CSharp:
		return sitter.NewLanguage(tree_sitter_csharp.Language())
	case langid.PHP:
		return sitter.NewLanguage(tree_sitter_php.LanguagePHP())
	case langid.HTML:
		return sitter.NewLanguage(tree_sitter_html.Language())
	default:
		return nil
	}
}
