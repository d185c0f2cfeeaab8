package extract

import (
	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/riftline/codenav/internal/symbols"
)

func nodeText(n *sitter.Node, content []byte) string {
	if n == nil {
		return ""
	}
	return n.Utf8Text(content)
}

func nodeLocation(path string, n *sitter.Node) symbols.Location {
	start := n.StartPosition()
	end := n.EndPosition()
	return symbols.NewLocation(path, int(start.Row)+1, int(start.Column)+1, int(end.Row)+1, int(end.Column)+1)
}

// leadingComment walks backwards over a definition node's previous siblings,
// collecting contiguous comment nodes immediately above it, and returns their
// joined text plus a best-guess DocstringStyle.
func leadingComment(n *sitter.Node, content []byte) (string, symbols.DocstringStyle) {
	var lines []string
	cur := n.PrevSibling()
	lastRow := n.StartPosition().Row
	for cur != nil && cur.Kind() == "comment" {
		if lastRow-cur.EndPosition().Row > 1 {
			break
		}
		lines = append([]string{nodeText(cur, content)}, lines...)
		lastRow = cur.StartPosition().Row
		cur = cur.PrevSibling()
	}
	if len(lines) == 0 {
		return "", symbols.DocstringNone
	}
	style := symbols.DocstringLine
	if len(lines) > 0 && len(lines[0]) > 1 && lines[0][1] == '*' {
		style = symbols.DocstringJavadoc
	}
	joined := lines[0]
	for _, l := range lines[1:] {
		joined += "\n" + l
	}
	return joined, style
}

// pythonDocstring returns a def/class body's leading string-expression
// statement, if any, matching Python's triple-quote docstring convention.
func pythonDocstring(defNode *sitter.Node, content []byte) (string, symbols.DocstringStyle) {
	body := childByFieldOrType(defNode, "body", "block")
	if body == nil || body.NamedChildCount() == 0 {
		return "", symbols.DocstringNone
	}
	first := body.NamedChild(0)
	if first.Kind() != "expression_statement" || first.NamedChildCount() == 0 {
		return "", symbols.DocstringNone
	}
	str := first.NamedChild(0)
	if str.Kind() != "string" {
		return "", symbols.DocstringNone
	}
	return nodeText(str, content), symbols.DocstringTripleQuote
}

func childByFieldOrType(n *sitter.Node, field, kind string) *sitter.Node {
	if n == nil {
		return nil
	}
	if c := n.ChildByFieldName(field); c != nil {
		return c
	}
	for i := uint(0); i < n.NamedChildCount(); i++ {
		c := n.NamedChild(i)
		if c.Kind() == kind {
			return c
		}
	}
	return nil
}

// enclosingDefinitionName walks up from n looking for the nearest ancestor
// that is itself one of kinds, returning the text of its "name" field. Used
// to populate ParentName on methods/fields nested in a class/struct/impl.
func enclosingDefinitionName(n *sitter.Node, content []byte, kinds map[string]bool) string {
	cur := n.Parent()
	for cur != nil {
		if kinds[cur.Kind()] {
			name := cur.ChildByFieldName("name")
			if name != nil {
				return nodeText(name, content)
			}
		}
		cur = cur.Parent()
	}
	return ""
}

var containerKinds = map[string]bool{
	"class_declaration":      true,
	"class_definition":       true,
	"class_specifier":        true,
	"interface_declaration":  true,
	"struct_declaration":     true,
	"struct_specifier":       true,
	"struct_item":            true,
	"enum_declaration":       true,
	"enum_specifier":         true,
	"enum_item":              true,
	"trait_declaration":      true,
	"trait_item":             true,
	"impl_item":              true,
	"record_declaration":     true,
	"object_declaration":     true,
}

// parameterNames does a shallow scan of a parameter-list-shaped node,
// collecting each named child's first identifier-like leaf as the parameter
// name and the remaining text as its type. This is intentionally generic
// (not a per-language grammar walk) since parameter lists vary subtly across
// all thirteen grammars but share the same overall shape.
func parameterNames(paramList *sitter.Node, content []byte) []symbols.ParameterInfo {
	if paramList == nil {
		return nil
	}
	var out []symbols.ParameterInfo
	for i := uint(0); i < paramList.NamedChildCount(); i++ {
		p := paramList.NamedChild(i)
		kind := p.Kind()
		if kind == "comment" {
			continue
		}
		name := p.ChildByFieldName("name")
		pattern := p.ChildByFieldName("pattern")
		typ := p.ChildByFieldName("type")
		varargs := kind == "variadic_parameter" || kind == "spread_parameter"
		switch {
		case name != nil:
			out = append(out, symbols.ParameterInfo{Name: nodeText(name, content), Type: nodeText(typ, content), IsVarargs: varargs})
		case pattern != nil:
			out = append(out, symbols.ParameterInfo{Name: nodeText(pattern, content), Type: nodeText(typ, content), IsVarargs: varargs})
		case p.NamedChildCount() > 0:
			out = append(out, symbols.ParameterInfo{Name: nodeText(p.NamedChild(0), content), Type: nodeText(typ, content), IsVarargs: varargs})
		default:
			out = append(out, symbols.ParameterInfo{Name: nodeText(p, content), IsVarargs: varargs})
		}
	}
	return out
}

func findParameterList(defNode *sitter.Node) *sitter.Node {
	if c := defNode.ChildByFieldName("parameters"); c != nil {
		return c
	}
	for i := uint(0); i < defNode.NamedChildCount(); i++ {
		c := defNode.NamedChild(i)
		switch c.Kind() {
		case "parameter_list", "parameters", "formal_parameters", "parameter_list_optional":
			return c
		}
	}
	return nil
}
