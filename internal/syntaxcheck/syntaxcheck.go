// Package syntaxcheck walks a parsed tree looking for tree-sitter's own
// ERROR and MISSING nodes, per spec.md §4.E: codenav never runs a real
// compiler, it reports what the grammar itself could not make sense of.
package syntaxcheck

import (
	"bufio"
	"bytes"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// MaxErrors caps how many syntax problems a single check reports; files with
// pervasive damage would otherwise drown the caller in noise.
const MaxErrors = 5

// maxContextWidth is the cap on how much of the offending line is echoed
// back in an Issue's Context field.
const maxContextWidth = 80

// Severity distinguishes a hard parse error from a node the grammar expected
// but the source never supplied.
type Severity string

const (
	SeverityError   Severity = "ERROR"
	SeverityMissing Severity = "MISSING"
)

// Issue is one syntax problem found in a parsed file.
type Issue struct {
	Severity Severity
	Line     int
	Column   int
	NodeKind string
	Context  string
}

// Check walks tree reporting up to MaxErrors issues in source order.
func Check(tree *sitter.Tree, content []byte) []Issue {
	var issues []Issue
	lines := splitLines(content)

	var walk func(n *sitter.Node) bool
	walk = func(n *sitter.Node) bool {
		if len(issues) >= MaxErrors {
			return false
		}
		if n.IsMissing() {
			issues = append(issues, newIssue(SeverityMissing, n, lines))
		} else if n.IsError() {
			issues = append(issues, newIssue(SeverityError, n, lines))
			return true // don't descend into an ERROR node's garbled children
		}
		for i := uint(0); i < n.ChildCount() && len(issues) < MaxErrors; i++ {
			if !walk(n.Child(i)) {
				continue
			}
		}
		return true
	}
	walk(tree.RootNode())
	return issues
}

// CheckContent parses content fresh with parse and checks the result; a
// convenience for callers that have a Parse func but no tree yet.
func CheckContent(content []byte, parse func([]byte) (*sitter.Tree, error)) ([]Issue, error) {
	tree, err := parse(content)
	if err != nil {
		return nil, err
	}
	return Check(tree, content), nil
}

func newIssue(sev Severity, n *sitter.Node, lines []string) Issue {
	pos := n.StartPosition()
	line := int(pos.Row) + 1
	col := int(pos.Column) + 1
	return Issue{
		Severity: sev,
		Line:     line,
		Column:   col,
		NodeKind: n.Kind(),
		Context:  contextLine(lines, int(pos.Row), col),
	}
}

func contextLine(lines []string, row, col int) string {
	if row < 0 || row >= len(lines) {
		return ""
	}
	line := lines[row]
	if len(line) <= maxContextWidth {
		return line
	}
	start := col - maxContextWidth/2
	if start < 0 {
		start = 0
	}
	end := start + maxContextWidth
	if end > len(line) {
		end = len(line)
		start = end - maxContextWidth
		if start < 0 {
			start = 0
		}
	}
	prefix, suffix := "", ""
	if start > 0 {
		prefix = "…"
	}
	if end < len(line) {
		suffix = "…"
	}
	return prefix + line[start:end] + suffix
}

func splitLines(content []byte) []string {
	var lines []string
	scanner := bufio.NewScanner(bytes.NewReader(content))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	return lines
}

// Summary renders issues as a short human-readable block, one line per
// issue, for CLI/tool-response output.
func Summary(issues []Issue) string {
	if len(issues) == 0 {
		return "no syntax issues found"
	}
	var b strings.Builder
	for _, iss := range issues {
		b.WriteString(string(iss.Severity))
		b.WriteString(" at ")
		writeIntTo(&b, iss.Line)
		b.WriteByte(':')
		writeIntTo(&b, iss.Column)
		b.WriteString(" (")
		b.WriteString(iss.NodeKind)
		b.WriteString("): ")
		b.WriteString(iss.Context)
		b.WriteByte('\n')
	}
	return strings.TrimRight(b.String(), "\n")
}

func writeIntTo(b *strings.Builder, v int) {
	if v == 0 {
		b.WriteByte('0')
		return
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
