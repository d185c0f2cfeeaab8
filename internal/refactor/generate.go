package refactor

import (
	"fmt"
	"os"
	"strings"

	"github.com/riftline/codenav/internal/diffutil"
	"github.com/riftline/codenav/internal/errs"
	"github.com/riftline/codenav/internal/langid"
	"github.com/riftline/codenav/internal/treepool"
)

func init() {
	register(generateOp{})
}

// GenerateKind is the closed set of boilerplate kinds spec.md §4.I.7 names.
type GenerateKind string

const (
	GenerateGetter       GenerateKind = "getter"
	GenerateSetter       GenerateKind = "setter"
	GenerateAccessors    GenerateKind = "accessors"
	GenerateConstructor  GenerateKind = "constructor"
	GenerateBuilder      GenerateKind = "builder"
	GenerateEqualsHash   GenerateKind = "equals_hashcode"
	GenerateToString     GenerateKind = "toString"
)

// generateOp implements spec.md §4.I.7: insert boilerplate members (getter/
// setter/constructor/builder/equals+hashCode/toString) into a class body,
// skipping members that already exist by name.
type generateOp struct{}

func (generateOp) Name() string { return "generate" }

func (generateOp) ValidateParams(p Params) error {
	if _, ok := p.str("file"); !ok {
		return errs.New(errs.ParamMissing, "file is required")
	}
	kind, ok := p.str("kind")
	if !ok {
		return errs.New(errs.ParamMissing, "kind is required")
	}
	if !validGenerateKind(GenerateKind(kind)) {
		return errs.New(errs.ParamInvalid, "unrecognized generate kind "+kind)
	}
	if _, ok := p.str("className"); !ok {
		return errs.New(errs.ParamMissing, "className is required")
	}
	if v, ok := p["fields"]; !ok || v == nil {
		return errs.New(errs.ParamMissing, "fields is required")
	}
	return nil
}

func validGenerateKind(k GenerateKind) bool {
	switch k {
	case GenerateGetter, GenerateSetter, GenerateAccessors, GenerateConstructor,
		GenerateBuilder, GenerateEqualsHash, GenerateToString:
		return true
	}
	return false
}

func (generateOp) Preview(p Params, rc *Context) (Result, error) { return doGenerate(p, rc, false) }
func (generateOp) Execute(p Params, rc *Context) (Result, error) { return doGenerate(p, rc, true) }

func fieldNames(p Params) []string {
	v, ok := p["fields"]
	if !ok {
		return nil
	}
	switch fs := v.(type) {
	case []string:
		return fs
	case []any:
		out := make([]string, 0, len(fs))
		for _, f := range fs {
			if s, ok := f.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

func doGenerate(p Params, rc *Context, execute bool) (Result, error) {
	file, _ := p.str("file")
	kind, _ := p.str("kind")
	className, _ := p.str("className")
	fields := fieldNames(p)
	id := langid.Detect(file)

	original, err := os.ReadFile(file)
	if err != nil {
		return Result{}, errs.Wrap(errs.FileNotReadable, err).WithContext("path", file)
	}
	content := string(original)

	members := renderMembers(id, GenerateKind(kind), className, fields)
	var skipped []string
	var toInsert []string
	for _, m := range members {
		if m.anchor != "" && strings.Contains(content, m.anchor) {
			skipped = append(skipped, m.anchor)
			continue
		}
		toInsert = append(toInsert, m.text)
	}
	if len(toInsert) == 0 {
		return Result{}, errs.New(errs.ParamConflict, "every requested member already exists in "+className)
	}

	insertAt := classBodyInsertionPoint(content, className)
	if insertAt < 0 {
		return Result{}, errs.New(errs.SymbolNotFound, "could not find class body for "+className).
			WithContext("className", className)
	}

	block := "\n" + strings.Join(toInsert, "\n\n") + "\n"
	updated := content[:insertAt] + block + content[insertAt:]

	fc := FileChange{
		Path:        file,
		Occurrences: len(toInsert),
		UnifiedDiff: diffutil.Unified(file, file, content, updated),
		LineCount:   strings.Count(updated, "\n") + 1,
	}
	if len(skipped) > 0 {
		fc.Warning = "skipped already-present member(s): " + strings.Join(skipped, ", ")
	}

	if !execute {
		return Result{Status: StatusPreview, Changes: []FileChange{fc},
			Message: fmt.Sprintf("would generate %s for %s", kind, className)}, nil
	}

	tx := rc.Tx.Begin([]string{file})
	if _, err := tx.Backup(file); err != nil {
		tx.Rollback()
		return Result{}, err
	}
	if err := tx.Write(file, []byte(updated)); err != nil {
		tx.Rollback()
		return Result{}, err
	}
	fc.CRC32C = treepool.CRC32C([]byte(updated))
	tx.Commit()
	return Result{Status: StatusSuccess, TransactionID: tx.ID, Changes: []FileChange{fc},
		Message: fmt.Sprintf("generated %s for %s", kind, className)}, nil
}

type generatedMember struct {
	anchor string
	text   string
}

func classBodyInsertionPoint(content, className string) int {
	idx := strings.Index(content, "class "+className)
	if idx < 0 {
		idx = strings.Index(content, "struct "+className)
	}
	if idx < 0 {
		return -1
	}
	brace := strings.IndexByte(content[idx:], '{')
	if brace < 0 {
		return -1
	}
	return idx + brace + 1
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func renderMembers(id langid.ID, kind GenerateKind, className string, fields []string) []generatedMember {
	switch kind {
	case GenerateGetter:
		var out []generatedMember
		for _, f := range fields {
			out = append(out, generatedMember{anchor: "get" + capitalize(f), text: renderGetter(id, f)})
		}
		return out
	case GenerateSetter:
		var out []generatedMember
		for _, f := range fields {
			out = append(out, generatedMember{anchor: "set" + capitalize(f), text: renderSetter(id, f)})
		}
		return out
	case GenerateAccessors:
		var out []generatedMember
		for _, f := range fields {
			out = append(out, generatedMember{anchor: "get" + capitalize(f), text: renderGetter(id, f)})
			out = append(out, generatedMember{anchor: "set" + capitalize(f), text: renderSetter(id, f)})
		}
		return out
	case GenerateConstructor:
		return []generatedMember{{anchor: className + "(" + strings.Join(fields, ", "), text: renderConstructor(id, className, fields)}}
	case GenerateBuilder:
		return []generatedMember{{anchor: "class Builder", text: renderBuilder(id, className, fields)}}
	case GenerateEqualsHash:
		return []generatedMember{{anchor: "equals(Object", text: renderEqualsHash(id, className, fields)}}
	case GenerateToString:
		return []generatedMember{{anchor: "toString()", text: renderToString(id, className, fields)}}
	default:
		return nil
	}
}

func renderGetter(id langid.ID, field string) string {
	switch id {
	case langid.Java, langid.CSharp:
		return fmt.Sprintf("    public Object get%s() {\n        return %s;\n    }", capitalize(field), field)
	case langid.Kotlin:
		return fmt.Sprintf("    fun get%s() = %s", capitalize(field), field)
	case langid.Python:
		return fmt.Sprintf("    @property\n    def %s(self):\n        return self._%s", field, field)
	default:
		return fmt.Sprintf("func (v *%s) Get%s() interface{} {\n\treturn v.%s\n}", "", capitalize(field), field)
	}
}

func renderSetter(id langid.ID, field string) string {
	switch id {
	case langid.Java, langid.CSharp:
		return fmt.Sprintf("    public void set%s(Object %s) {\n        this.%s = %s;\n    }", capitalize(field), field, field, field)
	case langid.Kotlin:
		return fmt.Sprintf("    fun set%s(value: Any) { %s = value }", capitalize(field), field)
	case langid.Python:
		return fmt.Sprintf("    @%s.setter\n    def %s(self, value):\n        self._%s = value", field, field, field)
	default:
		return fmt.Sprintf("func (v *%s) Set%s(value interface{}) {\n\tv.%s = value\n}", "", capitalize(field), field)
	}
}

func renderConstructor(id langid.ID, className string, fields []string) string {
	switch id {
	case langid.Python:
		var b strings.Builder
		b.WriteString("    def __init__(self, " + strings.Join(fields, ", ") + "):\n")
		for _, f := range fields {
			b.WriteString("        self." + f + " = " + f + "\n")
		}
		return strings.TrimRight(b.String(), "\n")
	default:
		var b strings.Builder
		b.WriteString("    public " + className + "(" + strings.Join(fields, ", ") + ") {\n")
		for _, f := range fields {
			b.WriteString("        this." + f + " = " + f + ";\n")
		}
		b.WriteString("    }")
		return b.String()
	}
}

func renderBuilder(id langid.ID, className string, fields []string) string {
	var b strings.Builder
	b.WriteString("    public static class Builder {\n")
	for _, f := range fields {
		b.WriteString("        private Object " + f + ";\n")
	}
	for _, f := range fields {
		b.WriteString(fmt.Sprintf("        public Builder %s(Object %s) { this.%s = %s; return this; }\n", f, f, f, f))
	}
	b.WriteString("        public " + className + " build() { return new " + className + "(" + strings.Join(fields, ", ") + "); }\n")
	b.WriteString("    }")
	return b.String()
}

func renderEqualsHash(id langid.ID, className string, fields []string) string {
	var b strings.Builder
	b.WriteString("    @Override\n    public boolean equals(Object o) {\n")
	b.WriteString("        if (this == o) return true;\n")
	b.WriteString("        if (!(o instanceof " + className + ")) return false;\n")
	b.WriteString("        " + className + " other = (" + className + ") o;\n")
	conds := make([]string, len(fields))
	for i, f := range fields {
		conds[i] = "java.util.Objects.equals(" + f + ", other." + f + ")"
	}
	b.WriteString("        return " + strings.Join(conds, " && ") + ";\n    }\n\n")
	b.WriteString("    @Override\n    public int hashCode() {\n")
	b.WriteString("        return java.util.Objects.hash(" + strings.Join(fields, ", ") + ");\n    }")
	return b.String()
}

func renderToString(id langid.ID, className string, fields []string) string {
	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = f + "=\" + " + f + " + \""
	}
	return "    @Override\n    public String toString() {\n        return \"" + className + "{" + strings.Join(parts, ", ") + "}\";\n    }"
}
