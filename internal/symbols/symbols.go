// Package symbols defines the immutable value types shared by every other
// package in codenav: locations, symbol kinds, parameters, and the
// SymbolInfo records the extractor, index, and resolver all speak.
package symbols

import (
	"path/filepath"
	"strings"
)

// Kind is the closed enumeration of symbol kinds codenav recognizes.
type Kind string

const (
	KindClass         Kind = "CLASS"
	KindInterface     Kind = "INTERFACE"
	KindEnum          Kind = "ENUM"
	KindStruct        Kind = "STRUCT"
	KindTrait         Kind = "TRAIT"
	KindObject        Kind = "OBJECT"
	KindMethod        Kind = "METHOD"
	KindFunction      Kind = "FUNCTION"
	KindConstructor   Kind = "CONSTRUCTOR"
	KindField         Kind = "FIELD"
	KindProperty      Kind = "PROPERTY"
	KindVariable      Kind = "VARIABLE"
	KindParameter     Kind = "PARAMETER"
	KindConstant      Kind = "CONSTANT"
	KindImport        Kind = "IMPORT"
	KindPackage       Kind = "PACKAGE"
	KindModule        Kind = "MODULE"
	KindNamespace     Kind = "NAMESPACE"
	KindTypeParameter Kind = "TYPE_PARAMETER"
	KindAnnotation    Kind = "ANNOTATION"
	KindReference     Kind = "REFERENCE"
	KindEvent         Kind = "EVENT"
	KindUnknown       Kind = "UNKNOWN"
)

// definitionKinds is the subset of Kind that denotes a place where a name is
// introduced. The resolver filters on this set; order matches spec.md's
// "first twelve through CONSTANT" definition.
var definitionKinds = map[Kind]bool{
	KindClass:       true,
	KindInterface:   true,
	KindEnum:        true,
	KindStruct:      true,
	KindTrait:       true,
	KindObject:      true,
	KindMethod:      true,
	KindFunction:    true,
	KindConstructor: true,
	KindField:       true,
	KindProperty:    true,
	KindVariable:    true,
	KindConstant:    true,
}

// IsDefinitionKind reports whether k is a member of the definition-kinds set.
func IsDefinitionKind(k Kind) bool {
	return definitionKinds[k]
}

// Location is a 1-based, path-normalized source range.
type Location struct {
	Path        string
	StartLine   int
	StartColumn int
	EndLine     int
	EndColumn   int
}

// NewLocation normalizes path to an absolute, cleaned form before storing it,
// since equality and hashing of Location both depend on that normalization.
func NewLocation(path string, startLine, startColumn, endLine, endColumn int) Location {
	return Location{
		Path:        normalizePath(path),
		StartLine:   startLine,
		StartColumn: startColumn,
		EndLine:     endLine,
		EndColumn:   endColumn,
	}
}

// SingleLine builds a one-row Location spanning [startColumn, endColumn).
func SingleLine(path string, line, startColumn, endColumn int) Location {
	return NewLocation(path, line, startColumn, line, endColumn)
}

// Point builds a zero-span Location at a single position.
func Point(path string, line, column int) Location {
	return NewLocation(path, line, column, line, column)
}

func normalizePath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}
	return filepath.Clean(abs)
}

// Key returns a string suitable for use as a map key or hash input; it is
// stable for any two Locations that compare equal.
func (l Location) Key() string {
	var b strings.Builder
	b.WriteString(l.Path)
	b.WriteByte(':')
	writeInt(&b, l.StartLine)
	b.WriteByte(':')
	writeInt(&b, l.StartColumn)
	b.WriteByte(':')
	writeInt(&b, l.EndLine)
	b.WriteByte(':')
	writeInt(&b, l.EndColumn)
	return b.String()
}

func writeInt(b *strings.Builder, v int) {
	if v == 0 {
		b.WriteByte('0')
		return
	}
	neg := v < 0
	if neg {
		v = -v
		b.WriteByte('-')
	}
	var digits [20]byte
	i := len(digits)
	for v > 0 {
		i--
		digits[i] = byte('0' + v%10)
		v /= 10
	}
	b.Write(digits[i:])
}

// Less orders Locations by (path, startLine, startColumn) for deterministic
// result ordering across parallel fan-outs.
func (l Location) Less(other Location) bool {
	if l.Path != other.Path {
		return l.Path < other.Path
	}
	if l.StartLine != other.StartLine {
		return l.StartLine < other.StartLine
	}
	return l.StartColumn < other.StartColumn
}

// ParameterInfo describes one formal parameter of a function or method.
type ParameterInfo struct {
	Name       string
	Type       string
	IsVarargs  bool
}

// NormalizedType strips generic arguments and package qualifiers so
// signatures from different call sites can be compared textually.
func (p ParameterInfo) NormalizedType() string {
	return normalizeTypeText(p.Type)
}

func normalizeTypeText(t string) string {
	t = strings.TrimSpace(t)
	if t == "" {
		return ""
	}
	// Strip generic argument lists: Foo<Bar, Baz> -> Foo
	if idx := strings.IndexByte(t, '<'); idx >= 0 {
		t = t[:idx]
	}
	if idx := strings.IndexByte(t, '['); idx >= 0 {
		// Go-style generics/slice sugar: []int -> int, Foo[Bar] -> Foo
		if strings.HasPrefix(t, "[]") {
			t = t[2:]
		} else {
			t = t[:idx]
		}
	}
	// Strip package qualifiers: pkg.Type -> Type, ns::Type -> Type
	if idx := strings.LastIndexByte(t, '.'); idx >= 0 {
		t = t[idx+1:]
	}
	if idx := strings.LastIndex(t, "::"); idx >= 0 {
		t = t[idx+2:]
	}
	return strings.TrimSpace(t)
}

// DocstringStyle tags how a SymbolInfo's Documentation was written in source,
// so a refactor that duplicates the declaration can re-render it natively.
type DocstringStyle string

const (
	DocstringNone        DocstringStyle = ""
	DocstringJavadoc     DocstringStyle = "javadoc"
	DocstringTripleQuote DocstringStyle = "triple-quote"
	DocstringLine        DocstringStyle = "line"
)

// Info is the extractor's output value: one declared or referenced symbol.
type Info struct {
	Name           string
	Kind           Kind
	Type           string
	Signature      string
	Parameters     []ParameterInfo
	Documentation  string
	DocstringStyle DocstringStyle
	Location       Location
	ParentName     string
}

// QualifiedName returns ParentName + "." + Name when ParentName is set,
// otherwise Name.
func (s Info) QualifiedName() string {
	if s.ParentName == "" {
		return s.Name
	}
	return s.ParentName + "." + s.Name
}

// NormalizedParameterSignature renders "(T1, T2, …)" with generics and
// package prefixes stripped from each parameter type, for overload
// disambiguation.
func (s Info) NormalizedParameterSignature() string {
	var b strings.Builder
	b.WriteByte('(')
	for i, p := range s.Parameters {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(p.NormalizedType())
	}
	b.WriteByte(')')
	return b.String()
}

// MatchesParameterSignature compares the normalized forms of s and a
// caller-supplied pattern like "(int, String)" after stripping whitespace.
func (s Info) MatchesParameterSignature(pattern string) bool {
	strip := func(v string) string { return strings.Join(strings.Fields(v), "") }
	return strip(s.NormalizedParameterSignature()) == strip(pattern)
}

// WithDocumentation returns a copy of s with Documentation/DocstringStyle set.
func (s Info) WithDocumentation(doc string, style DocstringStyle) Info {
	s.Documentation = doc
	s.DocstringStyle = style
	return s
}

// WithSignature returns a copy of s with Signature set.
func (s Info) WithSignature(sig string) Info {
	s.Signature = sig
	return s
}

// WithType returns a copy of s with Type set.
func (s Info) WithType(t string) Info {
	s.Type = t
	return s
}

// WithParameters returns a copy of s with Parameters set.
func (s Info) WithParameters(params []ParameterInfo) Info {
	cp := make([]ParameterInfo, len(params))
	copy(cp, params)
	s.Parameters = cp
	return s
}

// Valid reports whether s satisfies the basic SymbolInfo invariants: a
// non-empty name, an absolute location path, and (if StartLine == EndLine)
// StartColumn <= EndColumn.
func (s Info) Valid() bool {
	if s.Name == "" {
		return false
	}
	if !filepath.IsAbs(s.Location.Path) {
		return false
	}
	if s.Location.StartLine > s.Location.EndLine {
		return false
	}
	if s.Location.StartLine == s.Location.EndLine && s.Location.StartColumn > s.Location.EndColumn {
		return false
	}
	return true
}
