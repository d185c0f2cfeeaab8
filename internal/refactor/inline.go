package refactor

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/riftline/codenav/internal/diffutil"
	"github.com/riftline/codenav/internal/errs"
	"github.com/riftline/codenav/internal/resolver"
	"github.com/riftline/codenav/internal/symbols"
	"github.com/riftline/codenav/internal/treepool"
)

func init() {
	register(inlineOp{})
}

// inlineOp implements spec.md §4.I.2: inline a variable or constant's value
// (or a single-statement function body) at its usages, replacing on word
// boundaries and optionally deleting the now-unused declaration.
type inlineOp struct{}

func (inlineOp) Name() string { return "inline" }

func (inlineOp) ValidateParams(p Params) error {
	if _, ok := p.str("file"); !ok {
		return errs.New(errs.ParamMissing, "file is required")
	}
	_, hasName := p.str("name")
	_, hasLine := p.intVal("line")
	if !hasName && !hasLine {
		return errs.New(errs.ParamMissing, "either name or line/column is required")
	}
	return nil
}

func (inlineOp) Preview(p Params, rc *Context) (Result, error) { return doInline(p, rc, false) }
func (inlineOp) Execute(p Params, rc *Context) (Result, error) { return doInline(p, rc, true) }

func doInline(p Params, rc *Context, execute bool) (Result, error) {
	file, _ := p.str("file")
	deleteDecl := !p.has("deleteDeclaration") || p.boolVal("deleteDeclaration")

	sym, err := locateRenameTarget(p, rc, file)
	if err != nil {
		return Result{}, err
	}

	declPath := sym.Location.Path
	declBytes, err := os.ReadFile(declPath)
	if err != nil {
		return Result{}, errs.Wrap(errs.FileNotReadable, err).WithContext("path", declPath)
	}
	declLines := strings.Split(string(declBytes), "\n")
	if sym.Location.StartLine < 1 || sym.Location.EndLine > len(declLines) {
		return Result{}, errs.New(errs.SymbolNotFound, "declaration location out of range").
			WithContext("path", declPath)
	}
	declText := strings.Join(declLines[sym.Location.StartLine-1:sym.Location.EndLine], "\n")

	value, ok := extractAssignedValue(declText, sym.Name)
	if !ok {
		return Result{}, errs.New(errs.ChangeConflict, "cannot inline "+sym.Name+": no single-expression value found").
			WithSolution("inline only supports a single assignment or single-expression body")
	}
	if strings.Contains(strings.TrimSpace(value), ";") || strings.Count(value, "\n") > 0 {
		return Result{}, errs.New(errs.ChangeConflict, "cannot inline "+sym.Name+": body has multiple statements")
	}

	locs, err := rc.Resolver.FindReferencesByName(rc.Ctx, declPath, sym.Name, resolver.ScopeProject, false)
	if err != nil {
		return Result{}, err
	}
	if len(locs) == 0 {
		return Result{}, errs.New(errs.SymbolNotFound, "no usages found for "+sym.Name)
	}

	byFile := map[string][]symbols.Location{}
	for _, l := range locs {
		byFile[l.Path] = append(byFile[l.Path], l)
	}
	paths := make([]string, 0, len(byFile))
	for path := range byFile {
		paths = append(paths, path)
	}
	if deleteDecl {
		if _, seen := byFile[declPath]; !seen {
			paths = append(paths, declPath)
		}
	}
	sort.Strings(paths)

	var tx *Transaction
	if execute {
		tx = rc.Tx.Begin(paths)
	}

	var changes []FileChange
	for _, path := range paths {
		original, err := os.ReadFile(path)
		if err != nil {
			if tx != nil {
				tx.Rollback()
			}
			return Result{}, errs.Wrap(errs.FileNotReadable, err).WithContext("path", path)
		}
		lines := strings.Split(string(original), "\n")

		sites := append([]symbols.Location(nil), byFile[path]...)
		sort.Slice(sites, func(i, j int) bool {
			if sites[i].StartLine != sites[j].StartLine {
				return sites[i].StartLine > sites[j].StartLine
			}
			return sites[i].StartColumn > sites[j].StartColumn
		})

		var details []ChangeDetail
		for _, loc := range sites {
			idx := loc.StartLine - 1
			if idx < 0 || idx >= len(lines) {
				continue
			}
			line := lines[idx]
			// Location columns are 1-based; convert to byte offsets into line.
			start, end := loc.StartColumn-1, loc.EndColumn-1
			if start < 0 || end > len(line) || start > end || line[start:end] != sym.Name {
				continue
			}
			replaced := line[:start] + "(" + value + ")" + line[end:]
			details = append(details, ChangeDetail{Line: loc.StartLine, Column: loc.StartColumn, Before: line, After: replaced})
			lines[idx] = replaced
		}

		if path == declPath && deleteDecl {
			start, end := sym.Location.StartLine-1, sym.Location.EndLine
			if start >= 0 && end <= len(lines) {
				details = append(details, ChangeDetail{Line: sym.Location.StartLine, Before: declText, After: ""})
				lines = append(lines[:start], lines[end:]...)
			}
		}
		if len(details) == 0 {
			continue
		}

		updated := strings.Join(lines, "\n")
		fc := FileChange{
			Path: path, Occurrences: len(details), Details: details,
			UnifiedDiff: diffutil.Unified(path, path, string(original), updated),
			LineCount:   len(lines),
		}
		if execute {
			if _, err := tx.Backup(path); err != nil {
				tx.Rollback()
				return Result{}, err
			}
			if err := tx.Write(path, []byte(updated)); err != nil {
				tx.Rollback()
				return Result{}, err
			}
			fc.CRC32C = treepool.CRC32C([]byte(updated))
		}
		changes = append(changes, fc)
	}

	if execute {
		tx.Commit()
		return Result{Status: StatusSuccess, TransactionID: tx.ID, Changes: changes,
			Message: fmt.Sprintf("inlined %s into %d file(s)", sym.Name, len(changes))}, nil
	}
	return Result{Status: StatusPreview, Changes: changes,
		Message: fmt.Sprintf("would inline %s into %d file(s)", sym.Name, len(changes))}, nil
}

// extractAssignedValue pulls the right-hand side out of a declaration's
// text for name, handling "name = expr", "name: Type = expr", "let name =
// expr", and Go's "name := expr" shapes uniformly by taking the text after
// the first "=" that follows name on the declaration.
func extractAssignedValue(declText, name string) (string, bool) {
	idx := strings.Index(declText, name)
	if idx < 0 {
		return "", false
	}
	rest := declText[idx+len(name):]
	eq := strings.IndexByte(rest, '=')
	if eq < 0 {
		return "", false
	}
	value := rest[eq+1:]
	value = strings.TrimSuffix(strings.TrimSpace(value), ";")
	value = strings.TrimSpace(value)
	if value == "" {
		return "", false
	}
	return value, true
}

func (p Params) has(key string) bool {
	_, ok := p[key]
	return ok
}
