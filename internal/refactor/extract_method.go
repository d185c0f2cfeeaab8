package refactor

import (
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"

	"github.com/riftline/codenav/internal/diffutil"
	"github.com/riftline/codenav/internal/errs"
	"github.com/riftline/codenav/internal/langid"
	"github.com/riftline/codenav/internal/treepool"
)

func init() {
	register(extractMethodOp{})
}

// extractMethodOp implements spec.md §4.I.3: lift a contiguous line range
// into a new method, inferring parameters as (identifiers used in the
// range) ∩ (identifiers assigned before the range), sorted alphabetically,
// and replacing the range with a call to the new method.
type extractMethodOp struct{}

func (extractMethodOp) Name() string { return "extract_method" }

func (extractMethodOp) ValidateParams(p Params) error {
	if _, ok := p.str("file"); !ok {
		return errs.New(errs.ParamMissing, "file is required")
	}
	if _, ok := p.str("methodName"); !ok {
		return errs.New(errs.ParamMissing, "methodName is required")
	}
	if _, ok := p.intVal("startLine"); !ok {
		return errs.New(errs.ParamMissing, "startLine is required")
	}
	if _, ok := p.intVal("endLine"); !ok {
		return errs.New(errs.ParamMissing, "endLine is required")
	}
	return nil
}

func (extractMethodOp) Preview(p Params, rc *Context) (Result, error) {
	return doExtractMethod(p, rc, false)
}
func (extractMethodOp) Execute(p Params, rc *Context) (Result, error) {
	return doExtractMethod(p, rc, true)
}

var identifierPattern = regexp.MustCompile(`[A-Za-z_][A-Za-z0-9_]*`)
var assignmentPattern = regexp.MustCompile(`\b([A-Za-z_][A-Za-z0-9_]*)\s*(:=|=)[^=]`)

func doExtractMethod(p Params, rc *Context, execute bool) (Result, error) {
	file, _ := p.str("file")
	methodName, _ := p.str("methodName")
	startLine, _ := p.intVal("startLine")
	endLine, _ := p.intVal("endLine")
	id := langid.Detect(file)

	original, err := os.ReadFile(file)
	if err != nil {
		return Result{}, errs.Wrap(errs.FileNotReadable, err).WithContext("path", file)
	}
	lines := strings.Split(string(original), "\n")
	if startLine < 1 || endLine > len(lines) || startLine > endLine {
		return Result{}, errs.New(errs.ParamOutOfRange, "startLine/endLine out of range").WithContext("path", file)
	}

	body := lines[startLine-1 : endLine]
	before := lines[:startLine-1]

	declaredBefore := map[string]bool{}
	for _, l := range before {
		for _, m := range assignmentPattern.FindAllStringSubmatch(l, -1) {
			declaredBefore[m[1]] = true
		}
	}
	usedInBody := map[string]bool{}
	declaredInBody := map[string]bool{}
	for _, l := range body {
		for _, name := range identifierPattern.FindAllString(l, -1) {
			if isKeyword(name) {
				continue
			}
			usedInBody[name] = true
		}
		for _, m := range assignmentPattern.FindAllStringSubmatch(l, -1) {
			declaredInBody[m[1]] = true
		}
	}

	var params []string
	for name := range usedInBody {
		if declaredBefore[name] && !declaredInBody[name] {
			params = append(params, name)
		}
	}
	sort.Strings(params)

	indent := leadingWhitespace(body[0])
	bodyText := strings.Join(body, "\n")
	methodText := renderMethod(id, methodName, params, bodyText, indent)
	callText := indent + renderCall(id, methodName, params) + statementTerminator(id)

	newLines := append([]string(nil), lines[:startLine-1]...)
	newLines = append(newLines, callText)
	newLines = append(newLines, lines[endLine:]...)
	newLines = append(newLines, "", methodText)
	updated := strings.Join(newLines, "\n")

	fc := FileChange{
		Path:        file,
		Occurrences: 1,
		Details: []ChangeDetail{
			{Line: startLine, Before: bodyText, After: callText},
		},
		UnifiedDiff: diffutil.Unified(file, file, string(original), updated),
		LineCount:   len(newLines),
	}

	if len(params) == 0 {
		fc.Warning = "no free variables inferred; verify the extracted range has no external dependencies"
	}

	if !execute {
		return Result{Status: StatusPreview, Changes: []FileChange{fc},
			Message: fmt.Sprintf("would extract lines %d-%d into %s(%s)", startLine, endLine, methodName, strings.Join(params, ", "))}, nil
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
		Message: fmt.Sprintf("extracted lines %d-%d into %s", startLine, endLine, methodName)}, nil
}

func isKeyword(s string) bool {
	switch s {
	case "if", "else", "for", "while", "return", "func", "def", "fn", "var", "let", "const",
		"true", "false", "nil", "null", "None", "self", "this", "import", "package", "class",
		"public", "private", "protected", "static", "void", "int", "string", "bool", "break", "continue":
		return true
	}
	return false
}

func statementTerminator(id langid.ID) string {
	switch id {
	case langid.Go, langid.Python, langid.Kotlin:
		return ""
	default:
		return ";"
	}
}

func renderCall(id langid.ID, name string, params []string) string {
	args := strings.Join(params, ", ")
	switch id {
	case langid.Python:
		return "self." + name + "(" + args + ")"
	default:
		return name + "(" + args + ")"
	}
}

// renderMethod emits a new top-level function/method per language, in the
// simplest form each language accepts (untyped parameters where the
// language allows it, since static types aren't inferable from text alone).
func renderMethod(id langid.ID, name string, params []string, body, indent string) string {
	switch id {
	case langid.Go:
		return "func " + name + "(" + strings.Join(params, ", ") + ") {\n" + body + "\n}"
	case langid.Python:
		sig := append([]string{"self"}, params...)
		return "def " + name + "(" + strings.Join(sig, ", ") + "):\n" + body
	case langid.Rust:
		return "fn " + name + "(" + strings.Join(params, ", ") + ") {\n" + body + "\n}"
	case langid.JavaScript, langid.TypeScript, langid.TSX:
		return "function " + name + "(" + strings.Join(params, ", ") + ") {\n" + body + "\n}"
	case langid.Kotlin:
		return "fun " + name + "(" + strings.Join(params, ", ") + ") {\n" + body + "\n}"
	case langid.Java, langid.CSharp:
		return indent + "private void " + name + "(" + strings.Join(params, ", ") + ") {\n" + body + "\n" + indent + "}"
	case langid.C, langid.Cpp:
		return "void " + name + "(" + strings.Join(params, ", ") + ") {\n" + body + "\n}"
	case langid.PHP:
		return "function " + name + "(" + strings.Join(params, ", ") + ") {\n" + body + "\n}"
	default:
		return name + "(" + strings.Join(params, ", ") + ") {\n" + body + "\n}"
	}
}
