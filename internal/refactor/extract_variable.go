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
	register(extractVariableOp{})
}

// extractVariableOp implements spec.md §4.I.4: pull a single-line expression
// out into a new local variable, inserting the declaration immediately
// above the extraction line and optionally replacing every other textual
// occurrence of the same expression on that line (replaceAll).
type extractVariableOp struct{}

func (extractVariableOp) Name() string { return "extract_variable" }

func (extractVariableOp) ValidateParams(p Params) error {
	if _, ok := p.str("file"); !ok {
		return errs.New(errs.ParamMissing, "file is required")
	}
	if _, ok := p.str("expression"); !ok {
		return errs.New(errs.ParamMissing, "expression is required")
	}
	if _, ok := p.str("variableName"); !ok {
		return errs.New(errs.ParamMissing, "variableName is required")
	}
	if _, ok := p.intVal("line"); !ok {
		return errs.New(errs.ParamMissing, "line is required")
	}
	return nil
}

func (extractVariableOp) Preview(p Params, rc *Context) (Result, error) {
	return doExtractVariable(p, rc, false)
}
func (extractVariableOp) Execute(p Params, rc *Context) (Result, error) {
	return doExtractVariable(p, rc, true)
}

func doExtractVariable(p Params, rc *Context, execute bool) (Result, error) {
	file, _ := p.str("file")
	expr, _ := p.str("expression")
	varName, _ := p.str("variableName")
	line, _ := p.intVal("line")
	replaceAll := p.boolVal("replaceAll")

	original, err := os.ReadFile(file)
	if err != nil {
		return Result{}, errs.Wrap(errs.FileNotReadable, err).WithContext("path", file)
	}
	lines := strings.Split(string(original), "\n")
	if line < 1 || line > len(lines) {
		return Result{}, errs.New(errs.ParamOutOfRange, "line is out of range").WithContext("path", file)
	}
	target := lines[line-1]
	if !strings.Contains(target, expr) {
		return Result{}, errs.New(errs.PatternNotFound, "expression not found on the given line").
			WithContext("path", file, "expression", expr)
	}

	indent := leadingWhitespace(target)
	decl := declarationSyntax(langid.Detect(file), varName, expr)

	replaced := target
	if replaceAll {
		replaced = strings.ReplaceAll(target, expr, varName)
	} else {
		replaced = strings.Replace(target, expr, varName, 1)
	}

	newLines := append([]string(nil), lines[:line-1]...)
	newLines = append(newLines, indent+decl, replaced)
	newLines = append(newLines, lines[line:]...)
	updated := strings.Join(newLines, "\n")

	occurrences := 1
	if replaceAll {
		occurrences = strings.Count(target, expr)
	}

	fc := FileChange{
		Path:        file,
		Occurrences: occurrences,
		Details: []ChangeDetail{
			{Line: line, Before: target, After: indent + decl + "\n" + replaced},
		},
		UnifiedDiff: diffutil.Unified(file, file, string(original), updated),
		LineCount:   len(newLines),
	}

	if !execute {
		return Result{Status: StatusPreview, Changes: []FileChange{fc},
			Message: fmt.Sprintf("would extract %q into %s", expr, varName)}, nil
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
		Message: fmt.Sprintf("extracted %q into %s", expr, varName)}, nil
}

func leadingWhitespace(line string) string {
	i := 0
	for i < len(line) && (line[i] == ' ' || line[i] == '\t') {
		i++
	}
	return line[:i]
}

// declarationSyntax renders "<name> = <expr>" (or language-appropriate
// equivalent) for the extracted variable, grounded on each language's
// idiomatic local-declaration form.
func declarationSyntax(id langid.ID, name, expr string) string {
	switch id {
	case langid.Go:
		return name + " := " + expr
	case langid.Python:
		return name + " = " + expr
	case langid.Rust:
		return "let " + name + " = " + expr + ";"
	case langid.JavaScript, langid.TypeScript, langid.TSX:
		return "const " + name + " = " + expr + ";"
	case langid.Java, langid.CSharp:
		return "var " + name + " = " + expr + ";"
	case langid.Kotlin:
		return "val " + name + " = " + expr
	case langid.C, langid.Cpp:
		return "auto " + name + " = " + expr + ";"
	case langid.PHP:
		return "$" + strings.TrimPrefix(name, "$") + " = " + expr + ";"
	default:
		return name + " = " + expr
	}
}
