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
	register(renameOp{})
}

// renameOp implements spec.md §4.I.1: locate the symbol at (file,line,column)
// or by name, find every reference across the requested scope, integrity-
// guard each site against the file's on-disk text, and replace bottom-up
// per file so earlier column offsets in a line are never invalidated by a
// later replacement on the same line.
type renameOp struct{}

func (renameOp) Name() string { return "rename" }

func (renameOp) ValidateParams(p Params) error {
	if _, ok := p.str("newName"); !ok {
		return errs.New(errs.ParamMissing, "newName is required").
			WithSolution("supply newName as a non-empty identifier")
	}
	file, hasFile := p.str("file")
	_, hasName := p.str("name")
	if !hasFile {
		return errs.New(errs.ParamMissing, "file is required")
	}
	if _, hasLine := p.intVal("line"); !hasLine && !hasName {
		return errs.New(errs.ParamMissing, "either line/column or name is required").
			WithContext("file", file)
	}
	return nil
}

func (renameOp) Preview(p Params, rc *Context) (Result, error) {
	return doRename(p, rc, false)
}

func (renameOp) Execute(p Params, rc *Context) (Result, error) {
	return doRename(p, rc, true)
}

func doRename(p Params, rc *Context, execute bool) (Result, error) {
	file, _ := p.str("file")
	newName, _ := p.str("newName")
	scopeStr, _ := p.str("scope")
	if scopeStr == "" {
		scopeStr = string(resolver.ScopeProject)
	}

	sym, err := locateRenameTarget(p, rc, file)
	if err != nil {
		return Result{}, err
	}
	if sym.Name == newName {
		return Result{}, errs.New(errs.ParamInvalid, "newName is identical to the current name").
			WithContext("name", newName)
	}

	locs, err := rc.Resolver.FindReferencesByName(rc.Ctx, sym.Location.Path, sym.Name, resolver.Scope(scopeStr), true)
	if err != nil {
		return Result{}, err
	}
	if len(locs) == 0 {
		return Result{}, errs.New(errs.SymbolNotFound, "no references found for "+sym.Name).
			WithContext("name", sym.Name)
	}

	byFile := map[string][]symbols.Location{}
	for _, l := range locs {
		byFile[l.Path] = append(byFile[l.Path], l)
	}
	paths := make([]string, 0, len(byFile))
	for path := range byFile {
		paths = append(paths, path)
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

		siteLocs := append([]symbols.Location(nil), byFile[path]...)
		sort.Slice(siteLocs, func(i, j int) bool {
			if siteLocs[i].StartLine != siteLocs[j].StartLine {
				return siteLocs[i].StartLine > siteLocs[j].StartLine
			}
			return siteLocs[i].StartColumn > siteLocs[j].StartColumn
		})

		lines := strings.Split(string(original), "\n")
		var details []ChangeDetail
		for _, loc := range siteLocs {
			idx := loc.StartLine - 1
			if idx < 0 || idx >= len(lines) {
				continue
			}
			line := lines[idx]
			// Location columns are 1-based; convert to byte offsets into line.
			start, end := loc.StartColumn-1, loc.EndColumn-1
			if start < 0 || end > len(line) || start > end {
				continue
			}
			if line[start:end] != sym.Name {
				return Result{}, errs.New(errs.ChangeExternal,
					fmt.Sprintf("on-disk text at %s:%d:%d no longer matches %q", path, loc.StartLine, loc.StartColumn, sym.Name)).
					WithContext("path", path)
			}
			replaced := line[:start] + newName + line[end:]
			details = append(details, ChangeDetail{
				Line: loc.StartLine, Column: loc.StartColumn,
				Before: line, After: replaced,
			})
			lines[idx] = replaced
		}
		if len(details) == 0 {
			continue
		}

		updated := strings.Join(lines, "\n")
		diff := diffutil.Unified(path, path, string(original), updated)
		fc := FileChange{
			Path:        path,
			Occurrences: len(details),
			Details:     details,
			UnifiedDiff: diff,
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
			if rc.Access != nil {
				rc.Access.OnRead(path, []byte(updated))
			}
		}
		changes = append(changes, fc)
	}

	if execute {
		tx.Commit()
		return Result{Status: StatusSuccess, TransactionID: tx.ID, Changes: changes,
			Message: fmt.Sprintf("renamed %s to %s across %d file(s)", sym.Name, newName, len(changes))}, nil
	}
	return Result{Status: StatusPreview, Changes: changes,
		Message: fmt.Sprintf("would rename %s to %s across %d file(s)", sym.Name, newName, len(changes))}, nil
}

func locateRenameTarget(p Params, rc *Context, file string) (symbols.Info, error) {
	if name, ok := p.str("name"); ok {
		if rc.Index != nil {
			matches := rc.Index.FindDefinitions(name)
			switch len(matches) {
			case 0:
				return symbols.Info{}, errs.New(errs.SymbolNotFound, "no definition found for "+name).
					WithContext("name", name)
			case 1:
				return matches[0], nil
			default:
				return symbols.Info{}, symbolAmbiguousError(name, matches)
			}
		}
		sym, err := rc.Resolver.FindDefinitionByName(rc.Ctx, file, name)
		if err != nil {
			return symbols.Info{}, err
		}
		return sym, nil
	}

	line, _ := p.intVal("line")
	column, _ := p.intVal("column")
	return rc.Resolver.FindDefinition(rc.Ctx, file, line, column)
}

func symbolAmbiguousError(name string, matches []symbols.Info) error {
	suggestions := make([]string, 0, len(matches))
	for _, m := range matches {
		suggestions = append(suggestions, fmt.Sprintf("%s:%d (%s)", m.Location.Path, m.Location.StartLine, m.Kind))
	}
	return errs.New(errs.SymbolAmbiguous, fmt.Sprintf("%d definitions found for %s", len(matches), name)).
		WithSolution("disambiguate with file/line/column, candidates: %candidates%", "candidates", strings.Join(suggestions, "; "))
}
