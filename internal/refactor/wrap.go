package refactor

import (
	"fmt"
	"os"
	"strings"

	"github.com/riftline/codenav/internal/diffutil"
	"github.com/riftline/codenav/internal/errs"
	"github.com/riftline/codenav/internal/treepool"
)

func init() {
	register(wrapOp{})
}

// WrapKind is the closed set of wrapper shapes spec.md §4.I.6 names.
type WrapKind string

const (
	WrapTryCatch        WrapKind = "try_catch"
	WrapTryFinally      WrapKind = "try_finally"
	WrapTryWithResource WrapKind = "try_with_resources"
	WrapIf              WrapKind = "if"
	WrapIfElse          WrapKind = "if_else"
	WrapFor             WrapKind = "for"
	WrapForeach         WrapKind = "foreach"
	WrapWhile           WrapKind = "while"
	WrapSynchronized    WrapKind = "synchronized"
	WrapCustom          WrapKind = "custom"
)

// wrapOp implements spec.md §4.I.6: indentation-aware wrapping of a
// contiguous line range inside one of a closed set of control/exception
// constructs.
type wrapOp struct{}

func (wrapOp) Name() string { return "wrap" }

func (wrapOp) ValidateParams(p Params) error {
	if _, ok := p.str("file"); !ok {
		return errs.New(errs.ParamMissing, "file is required")
	}
	kind, ok := p.str("kind")
	if !ok {
		return errs.New(errs.ParamMissing, "kind is required")
	}
	if !validWrapKind(WrapKind(kind)) {
		return errs.New(errs.ParamInvalid, "unrecognized wrap kind "+kind).
			WithSolution("use one of: try_catch, try_finally, try_with_resources, if, if_else, for, foreach, while, synchronized, custom")
	}
	if _, ok := p.intVal("startLine"); !ok {
		return errs.New(errs.ParamMissing, "startLine is required")
	}
	if _, ok := p.intVal("endLine"); !ok {
		return errs.New(errs.ParamMissing, "endLine is required")
	}
	if kind == string(WrapCustom) {
		if _, ok := p.str("header"); !ok {
			return errs.New(errs.ParamMissing, "header is required for kind=custom")
		}
	}
	return nil
}

func validWrapKind(k WrapKind) bool {
	switch k {
	case WrapTryCatch, WrapTryFinally, WrapTryWithResource, WrapIf, WrapIfElse,
		WrapFor, WrapForeach, WrapWhile, WrapSynchronized, WrapCustom:
		return true
	}
	return false
}

func (wrapOp) Preview(p Params, rc *Context) (Result, error) { return doWrap(p, rc, false) }
func (wrapOp) Execute(p Params, rc *Context) (Result, error) { return doWrap(p, rc, true) }

func doWrap(p Params, rc *Context, execute bool) (Result, error) {
	file, _ := p.str("file")
	kind, _ := p.str("kind")
	startLine, _ := p.intVal("startLine")
	endLine, _ := p.intVal("endLine")

	original, err := os.ReadFile(file)
	if err != nil {
		return Result{}, errs.Wrap(errs.FileNotReadable, err).WithContext("path", file)
	}
	lines := strings.Split(string(original), "\n")
	if startLine < 1 || endLine > len(lines) || startLine > endLine {
		return Result{}, errs.New(errs.ParamOutOfRange, "startLine/endLine out of range").WithContext("path", file)
	}

	indent := leadingWhitespace(lines[startLine-1])
	innerIndent := indent + "\t"
	body := lines[startLine-1 : endLine]
	for i, l := range body {
		body[i] = innerIndent + strings.TrimPrefix(l, indent)
	}

	header, footer := wrapHeaderFooter(WrapKind(kind), p, indent)

	newLines := append([]string(nil), lines[:startLine-1]...)
	newLines = append(newLines, header)
	newLines = append(newLines, body...)
	newLines = append(newLines, footer)
	newLines = append(newLines, lines[endLine:]...)
	updated := strings.Join(newLines, "\n")

	fc := FileChange{
		Path:        file,
		Occurrences: 1,
		Details: []ChangeDetail{
			{Line: startLine, Before: strings.Join(lines[startLine-1:endLine], "\n"), After: header + "\n" + strings.Join(body, "\n") + "\n" + footer},
		},
		UnifiedDiff: diffutil.Unified(file, file, string(original), updated),
		LineCount:   len(newLines),
	}

	if !execute {
		return Result{Status: StatusPreview, Changes: []FileChange{fc},
			Message: fmt.Sprintf("would wrap lines %d-%d in %s", startLine, endLine, kind)}, nil
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
		Message: fmt.Sprintf("wrapped lines %d-%d in %s", startLine, endLine, kind)}, nil
}

// wrapHeaderFooter renders the opening/closing lines for kind, falling back
// to per-option defaults spec.md §4.I.6 calls for (catch Exception,
// condition "true", iteration variable "i").
func wrapHeaderFooter(kind WrapKind, p Params, indent string) (string, string) {
	exceptionType, _ := p.str("exceptionType")
	if exceptionType == "" {
		exceptionType = "Exception"
	}
	condition, _ := p.str("condition")
	if condition == "" {
		condition = "true"
	}
	iterVar, _ := p.str("iterationVariable")
	if iterVar == "" {
		iterVar = "i"
	}
	resource, _ := p.str("resource")
	collection, _ := p.str("collection")
	item, _ := p.str("item")
	if item == "" {
		item = "item"
	}

	switch kind {
	case WrapTryCatch:
		return indent + "try {", indent + "} catch (" + exceptionType + " e) {\n" + indent + "}"
	case WrapTryFinally:
		return indent + "try {", indent + "} finally {\n" + indent + "}"
	case WrapTryWithResource:
		return indent + "try (" + resource + ") {", indent + "}"
	case WrapIf:
		return indent + "if (" + condition + ") {", indent + "}"
	case WrapIfElse:
		return indent + "if (" + condition + ") {", indent + "} else {\n" + indent + "}"
	case WrapFor:
		return indent + "for (int " + iterVar + " = 0; " + iterVar + " < n; " + iterVar + "++) {", indent + "}"
	case WrapForeach:
		return indent + "for (var " + item + " : " + collection + ") {", indent + "}"
	case WrapWhile:
		return indent + "while (" + condition + ") {", indent + "}"
	case WrapSynchronized:
		lockOn, _ := p.str("lockOn")
		if lockOn == "" {
			lockOn = "this"
		}
		return indent + "synchronized (" + lockOn + ") {", indent + "}"
	case WrapCustom:
		header, _ := p.str("header")
		footer, _ := p.str("footer")
		if footer == "" {
			footer = indent + "}"
		}
		return indent + header, footer
	default:
		return indent + "{", indent + "}"
	}
}
