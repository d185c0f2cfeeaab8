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
	register(moveOp{})
}

// moveOp implements spec.md §4.I.5: relocate a symbol's declaration from
// its source file to a destination file. Reference sites in other files,
// including imports and qualified names, are not rewritten; their count is
// reported in a warning on the source file's change.
type moveOp struct{}

func (moveOp) Name() string { return "move" }

func (moveOp) ValidateParams(p Params) error {
	if _, ok := p.str("file"); !ok {
		return errs.New(errs.ParamMissing, "file is required")
	}
	if _, ok := p.str("destinationFile"); !ok {
		return errs.New(errs.ParamMissing, "destinationFile is required")
	}
	_, hasName := p.str("name")
	_, hasLine := p.intVal("line")
	if !hasName && !hasLine {
		return errs.New(errs.ParamMissing, "either name or line/column is required")
	}
	return nil
}

func (moveOp) Preview(p Params, rc *Context) (Result, error) { return doMove(p, rc, false) }
func (moveOp) Execute(p Params, rc *Context) (Result, error) { return doMove(p, rc, true) }

func doMove(p Params, rc *Context, execute bool) (Result, error) {
	file, _ := p.str("file")
	dest, _ := p.str("destinationFile")

	sym, err := locateRenameTarget(p, rc, file)
	if err != nil {
		return Result{}, err
	}
	srcPath := sym.Location.Path
	if srcPath == dest {
		return Result{}, errs.New(errs.ParamInvalid, "destinationFile is identical to the symbol's current file")
	}

	srcBytes, err := os.ReadFile(srcPath)
	if err != nil {
		return Result{}, errs.Wrap(errs.FileNotReadable, err).WithContext("path", srcPath)
	}
	srcLines := strings.Split(string(srcBytes), "\n")
	if sym.Location.StartLine < 1 || sym.Location.EndLine > len(srcLines) {
		return Result{}, errs.New(errs.SymbolNotFound, "declaration location out of range")
	}
	declText := strings.Join(srcLines[sym.Location.StartLine-1:sym.Location.EndLine], "\n")

	newSrcLines := append([]string(nil), srcLines[:sym.Location.StartLine-1]...)
	newSrcLines = append(newSrcLines, srcLines[sym.Location.EndLine:]...)
	updatedSrc := strings.Join(newSrcLines, "\n")

	destBytes, err := os.ReadFile(dest)
	destExisted := err == nil
	if err != nil && !os.IsNotExist(err) {
		return Result{}, errs.Wrap(errs.FileNotReadable, err).WithContext("path", dest)
	}
	updatedDest := strings.TrimRight(string(destBytes), "\n")
	if updatedDest != "" {
		updatedDest += "\n\n"
	}
	updatedDest += declText + "\n"

	locs, err := rc.Resolver.FindReferencesByName(rc.Ctx, srcPath, sym.Name, resolver.ScopeProject, false)
	if err != nil {
		return Result{}, err
	}
	byFile := map[string][]symbols.Location{}
	for _, l := range locs {
		if l.Path == srcPath {
			continue
		}
		byFile[l.Path] = append(byFile[l.Path], l)
	}

	changes := []FileChange{
		{Path: srcPath, Occurrences: 1, UnifiedDiff: diffutil.Unified(srcPath, srcPath, string(srcBytes), updatedSrc), LineCount: len(newSrcLines)},
		{Path: dest, Occurrences: 1, UnifiedDiff: diffutil.Unified(dest, dest, string(destBytes), updatedDest), LineCount: strings.Count(updatedDest, "\n") + 1},
	}
	if len(byFile) > 0 {
		changes[0].Warning = fmt.Sprintf("%d reference site(s) in other files were not updated: fully-qualified import rewrites are project-specific", len(byFile))
	}

	if !execute {
		return Result{Status: StatusPreview, Changes: changes,
			Message: fmt.Sprintf("would move %s from %s to %s", sym.Name, srcPath, dest)}, nil
	}

	paths := []string{srcPath, dest}
	sort.Strings(paths)
	tx := rc.Tx.Begin(paths)
	if _, err := tx.Backup(srcPath); err != nil {
		tx.Rollback()
		return Result{}, err
	}
	if destExisted {
		if _, err := tx.Backup(dest); err != nil {
			tx.Rollback()
			return Result{}, err
		}
	}
	if err := tx.Write(srcPath, []byte(updatedSrc)); err != nil {
		tx.Rollback()
		return Result{}, err
	}
	if err := tx.Write(dest, []byte(updatedDest)); err != nil {
		tx.Rollback()
		return Result{}, err
	}
	changes[0].CRC32C = treepool.CRC32C([]byte(updatedSrc))
	changes[1].CRC32C = treepool.CRC32C([]byte(updatedDest))
	tx.Commit()
	return Result{Status: StatusSuccess, TransactionID: tx.ID, Changes: changes,
		Message: fmt.Sprintf("moved %s from %s to %s", sym.Name, srcPath, dest)}, nil
}
