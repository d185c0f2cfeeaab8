package extract

import (
	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/riftline/codenav/internal/errs"
	"github.com/riftline/codenav/internal/langid"
	"github.com/riftline/codenav/internal/symbols"
)

// Supported reports whether extract has a LanguageSpec registered for id.
func Supported(id langid.ID) bool {
	_, ok := registry[id]
	return ok
}

// Definitions runs id's extraction query over tree and returns every symbol
// it defines, per spec.md §4.D. path is stamped onto each Location.
func Definitions(path string, tree *sitter.Tree, content []byte, id langid.ID) ([]symbols.Info, error) {
	query, spec, ok := compiled(id)
	if !ok {
		return nil, errs.New(errs.RefactorLanguageNotSupported, "no extraction query registered for language "+string(id))
	}

	qc := sitter.NewQueryCursor()
	defer qc.Close()
	matches := qc.Matches(query, tree.RootNode(), content)
	captureNames := query.CaptureNames()

	var out []symbols.Info
	namedCaptures := make(map[string]*sitter.Node, 4)
	for {
		match := matches.Next()
		if match == nil {
			break
		}
		for k := range namedCaptures {
			delete(namedCaptures, k)
		}
		for i := range match.Captures {
			c := &match.Captures[i]
			namedCaptures[captureNames[c.Index]] = &c.Node
		}

		for i := range match.Captures {
			c := &match.Captures[i]
			capture := captureNames[c.Index]
			if capture == "" || containsDot(capture) {
				continue // sub-captures like "function.name" are consumed via namedCaptures
			}
			kind, ok := kindFor(spec, capture)
			if !ok {
				continue
			}
			info := buildInfo(path, &c.Node, content, capture, kind, namedCaptures)
			if info.Name == "" {
				continue
			}
			out = append(out, info)
		}
	}
	return out, nil
}

func containsDot(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] == '.' {
			return true
		}
	}
	return false
}

func buildInfo(path string, n *sitter.Node, content []byte, capture string, kind symbols.Kind, named map[string]*sitter.Node) symbols.Info {
	nameNode := named[capture+".name"]
	var name string
	if nameNode != nil {
		name = nodeText(nameNode, content)
	} else {
		name = fallbackName(n, content)
	}

	info := symbols.Info{
		Name:     name,
		Kind:     kind,
		Location: nodeLocation(path, n),
	}

	if symbols.IsDefinitionKind(kind) {
		info.ParentName = enclosingDefinitionName(n, content, containerKinds)
		if params := findParameterList(n); params != nil {
			info.Parameters = parameterNames(params, content)
		}
		doc, style := leadingComment(n, content)
		if style == symbols.DocstringNone {
			doc, style = pythonDocstring(n, content)
		}
		info.Documentation = doc
		info.DocstringStyle = style
		info.Signature = nodeText(n, content)
	}

	return info
}

// fallbackName recovers a name for captures that have no dedicated
// ".name" sub-capture (import/package/namespace statements whose query only
// tags the whole statement), by taking the first string or identifier-like
// descendant's text.
func fallbackName(n *sitter.Node, content []byte) string {
	for i := uint(0); i < n.NamedChildCount(); i++ {
		c := n.NamedChild(i)
		switch c.Kind() {
		case "string", "interpreted_string_literal", "identifier", "scoped_identifier",
			"qualified_name", "namespace_name", "dotted_name", "string_literal":
			return nodeText(c, content)
		}
	}
	return nodeText(n, content)
}

// SymbolAt returns the innermost definitions query match whose location
// contains (line, column), per spec.md's "symbol at position" lookups.
func SymbolAt(path string, tree *sitter.Tree, content []byte, id langid.ID, line, column int) (symbols.Info, bool) {
	defs, err := Definitions(path, tree, content, id)
	if err != nil {
		return symbols.Info{}, false
	}
	var best symbols.Info
	found := false
	for _, d := range defs {
		if !containsPosition(d.Location, line, column) {
			continue
		}
		if !found || smaller(d.Location, best.Location) {
			best = d
			found = true
		}
	}
	return best, found
}

func containsPosition(loc symbols.Location, line, column int) bool {
	if line < loc.StartLine || line > loc.EndLine {
		return false
	}
	if line == loc.StartLine && column < loc.StartColumn {
		return false
	}
	if line == loc.EndLine && column > loc.EndColumn {
		return false
	}
	return true
}

func smaller(a, b symbols.Location) bool {
	spanA := (a.EndLine-a.StartLine)*100000 + (a.EndColumn - a.StartColumn)
	spanB := (b.EndLine-b.StartLine)*100000 + (b.EndColumn - b.StartColumn)
	return spanA < spanB
}

// References scans tree for every identifier-shaped leaf whose text equals
// name, returning one Location per occurrence. This is a textual-identity
// pass rather than a scope-aware one: spec.md's resolver narrows the result
// set afterward using file/directory/project scoping.
func References(path string, tree *sitter.Tree, content []byte, name string) []symbols.Location {
	var out []symbols.Location
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if isIdentifierLeaf(n.Kind()) && nodeText(n, content) == name {
			out = append(out, nodeLocation(path, n))
		}
		for i := uint(0); i < n.ChildCount(); i++ {
			walk(n.Child(i))
		}
	}
	walk(tree.RootNode())
	return out
}

func isIdentifierLeaf(kind string) bool {
	switch kind {
	case "identifier", "field_identifier", "type_identifier", "property_identifier",
		"simple_identifier", "name", "namespace_identifier":
		return true
	default:
		return false
	}
}
