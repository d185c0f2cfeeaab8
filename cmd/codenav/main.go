// Command codenav is the CLI front end over the navigation resolver and
// refactoring engine: one session.Context per invocation, one subcommand
// per spec.md §6 operation.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/riftline/codenav/internal/refactor"
	"github.com/riftline/codenav/internal/resolver"
	"github.com/riftline/codenav/internal/session"
	"github.com/riftline/codenav/internal/syntaxcheck"
	"github.com/riftline/codenav/internal/toolspec"
	"github.com/riftline/codenav/internal/version"
)

func main() {
	app := &cli.App{
		Name:                   "codenav",
		Usage:                  "Multi-language code navigation and refactoring",
		Version:                version.Version,
		UseShortOptionHandling: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "root",
				Aliases: []string{"r"},
				Usage:   "Project root directory",
				Value:   ".",
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "def",
				Usage: "Find the definition of the symbol at file:line:column",
				Flags: locationFlags(),
				Action: withSession(func(c *cli.Context, sess *session.Context) error {
					loc := parseLocation(c)
					info, err := sess.Resolver.FindDefinition(c.Context, loc.file, loc.line, loc.column)
					if err != nil {
						return err
					}
					return printJSON(info)
				}),
			},
			{
				Name:  "refs",
				Usage: "Find every reference to the symbol at file:line:column",
				Flags: append(locationFlags(),
					&cli.StringFlag{Name: "scope", Value: "project", Usage: "file, directory, or project"},
					&cli.BoolFlag{Name: "include-declaration"},
				),
				Action: withSession(func(c *cli.Context, sess *session.Context) error {
					loc := parseLocation(c)
					scope := resolver.Scope(c.String("scope"))
					locs, err := sess.Resolver.FindReferences(c.Context, loc.file, loc.line, loc.column, scope, c.Bool("include-declaration"))
					if err != nil {
						return err
					}
					return printJSON(locs)
				}),
			},
			{
				Name:  "hover",
				Usage: "Show the signature and kind of the symbol at file:line:column",
				Flags: locationFlags(),
				Action: withSession(func(c *cli.Context, sess *session.Context) error {
					loc := parseLocation(c)
					info, err := sess.Resolver.Hover(c.Context, loc.file, loc.line, loc.column)
					if err != nil {
						return err
					}
					return printJSON(info)
				}),
			},
			{
				Name:      "symbols",
				Usage:     "List every symbol defined in a file",
				ArgsUsage: "<file>",
				Action: withSession(func(c *cli.Context, sess *session.Context) error {
					if c.NArg() < 1 {
						return errors.New("usage: codenav symbols <file>")
					}
					list, err := sess.Resolver.ListSymbols(c.Args().First())
					if err != nil {
						return err
					}
					return printJSON(list)
				}),
			},
			{
				Name:      "check",
				Usage:     "Report tree-sitter ERROR/MISSING nodes in a file",
				ArgsUsage: "<file>",
				Action: withSession(func(c *cli.Context, sess *session.Context) error {
					if c.NArg() < 1 {
						return errors.New("usage: codenav check <file>")
					}
					result, err := sess.Pool.ParseFile(c.Args().First(), "")
					if err != nil {
						return err
					}
					issues := syntaxcheck.Check(result.Tree, result.Content)
					fmt.Println(syntaxcheck.Summary(issues))
					if c.Bool("json") {
						return printJSON(issues)
					}
					for _, issue := range issues {
						fmt.Printf("  %s:%d:%d: %s\n", c.Args().First(), issue.Line, issue.Column, issue.Message)
					}
					return nil
				}),
				Flags: []cli.Flag{&cli.BoolFlag{Name: "json"}},
			},
			refactorCommand("rename", "rename", "Rename a symbol everywhere it is referenced", []cli.Flag{
				&cli.StringFlag{Name: "file"},
				&cli.IntFlag{Name: "line"},
				&cli.StringFlag{Name: "name"},
				&cli.StringFlag{Name: "new-name", Required: true},
				&cli.StringFlag{Name: "scope"},
			}, func(c *cli.Context) refactor.Params {
				return paramsFrom(c, map[string]string{"file": "file", "name": "name", "scope": "scope", "newName": "new-name"}, map[string]string{"line": "line"})
			}),
			refactorCommand("inline", "inline", "Inline a local variable's value into its usage sites", []cli.Flag{
				&cli.StringFlag{Name: "file", Required: true},
				&cli.IntFlag{Name: "line", Required: true},
				&cli.StringFlag{Name: "name", Required: true},
				&cli.BoolFlag{Name: "delete-declaration", Value: true},
			}, func(c *cli.Context) refactor.Params {
				p := paramsFrom(c, map[string]string{"file": "file", "name": "name"}, map[string]string{"line": "line"})
				p["deleteDeclaration"] = c.Bool("delete-declaration")
				return p
			}),
			refactorCommand("extract-method", "extract_method", "Extract a line range into a new method", []cli.Flag{
				&cli.StringFlag{Name: "file", Required: true},
				&cli.IntFlag{Name: "start-line", Required: true},
				&cli.IntFlag{Name: "end-line", Required: true},
				&cli.StringFlag{Name: "method-name", Required: true},
			}, func(c *cli.Context) refactor.Params {
				return paramsFrom(c, map[string]string{"file": "file", "methodName": "method-name"}, map[string]string{"startLine": "start-line", "endLine": "end-line"})
			}),
			refactorCommand("extract-variable", "extract_variable", "Extract an expression into a new local variable", []cli.Flag{
				&cli.StringFlag{Name: "file", Required: true},
				&cli.IntFlag{Name: "line", Required: true},
				&cli.StringFlag{Name: "expression", Required: true},
				&cli.StringFlag{Name: "variable-name", Required: true},
				&cli.BoolFlag{Name: "replace-all"},
			}, func(c *cli.Context) refactor.Params {
				p := paramsFrom(c, map[string]string{"file": "file", "expression": "expression", "variableName": "variable-name"}, map[string]string{"line": "line"})
				p["replaceAll"] = c.Bool("replace-all")
				return p
			}),
			refactorCommand("move", "move", "Move a top-level declaration from one file to another", []cli.Flag{
				&cli.StringFlag{Name: "file", Required: true},
				&cli.IntFlag{Name: "line"},
				&cli.StringFlag{Name: "name"},
				&cli.StringFlag{Name: "destination-file", Required: true},
			}, func(c *cli.Context) refactor.Params {
				return paramsFrom(c, map[string]string{"file": "file", "name": "name", "destinationFile": "destination-file"}, map[string]string{"line": "line"})
			}),
			refactorCommand("wrap", "wrap", "Wrap a line range in a control-flow or exception-handling construct", []cli.Flag{
				&cli.StringFlag{Name: "file", Required: true},
				&cli.IntFlag{Name: "start-line", Required: true},
				&cli.IntFlag{Name: "end-line", Required: true},
				&cli.StringFlag{Name: "kind", Required: true},
				&cli.StringFlag{Name: "header"},
				&cli.StringFlag{Name: "footer"},
				&cli.StringFlag{Name: "exception-type"},
				&cli.StringFlag{Name: "condition"},
				&cli.StringFlag{Name: "iteration-variable"},
				&cli.StringFlag{Name: "resource"},
				&cli.StringFlag{Name: "collection"},
				&cli.StringFlag{Name: "item"},
				&cli.StringFlag{Name: "lock-on"},
			}, func(c *cli.Context) refactor.Params {
				return paramsFrom(c,
					map[string]string{
						"file": "file", "kind": "kind", "header": "header", "footer": "footer",
						"exceptionType": "exception-type", "condition": "condition",
						"iterationVariable": "iteration-variable", "resource": "resource",
						"collection": "collection", "item": "item", "lockOn": "lock-on",
					},
					map[string]string{"startLine": "start-line", "endLine": "end-line"})
			}),
			refactorCommand("generate", "generate", "Generate boilerplate members for a class or struct", []cli.Flag{
				&cli.StringFlag{Name: "file", Required: true},
				&cli.IntFlag{Name: "line"},
				&cli.StringFlag{Name: "class-name", Required: true},
				&cli.StringFlag{Name: "kind", Required: true},
				&cli.StringSliceFlag{Name: "field"},
			}, func(c *cli.Context) refactor.Params {
				p := paramsFrom(c, map[string]string{"file": "file", "kind": "kind", "className": "class-name"}, map[string]string{"line": "line"})
				p["fields"] = c.StringSlice("field")
				return p
			}),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// withSession builds a session.Context over --root, runs fn, then closes it.
func withSession(fn func(c *cli.Context, sess *session.Context) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		sess, err := session.New(c.String("root"))
		if err != nil {
			return err
		}
		defer sess.Close()
		if err := sess.Build(c.Context); err != nil {
			return err
		}
		return fn(c, sess)
	}
}

type location struct {
	file   string
	line   int
	column int
}

func locationFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "file", Required: true},
		&cli.IntFlag{Name: "line", Required: true},
		&cli.IntFlag{Name: "column", Required: true},
	}
}

func parseLocation(c *cli.Context) location {
	return location{file: c.String("file"), line: c.Int("line"), column: c.Int("column")}
}

// toolNameForShort maps a refactor.Operation short name to the toolspec
// Tool name that wraps it, since the CLI command name, the refactor short
// name, and the MCP tool name diverge (e.g. "move" / "move" / "move_symbol").
var toolNameForShort = map[string]string{
	"rename":           "rename",
	"inline":           "inline",
	"extract_method":   "extract_method",
	"extract_variable": "extract_variable",
	"move":             "move_symbol",
	"wrap":             "wrap_code",
	"generate":         "generate_boilerplate",
}

// refactorCommand builds a CLI command that executes a refactor.Operation
// through the same toolspec.Tool the MCP front end registers, so the CLI
// and MCP adapters run identical validation and transaction logic.
func refactorCommand(cmdName, shortName, usage string, flags []cli.Flag, buildParams func(*cli.Context) refactor.Params) *cli.Command {
	return &cli.Command{
		Name:  cmdName,
		Usage: usage,
		Flags: flags,
		Action: withSession(func(c *cli.Context, sess *session.Context) error {
			wantName := toolNameForShort[shortName]
			var tool toolspec.Tool
			for _, t := range toolspec.Registry(sess) {
				if t.Name == wantName {
					tool = t
					break
				}
			}
			if tool.Name == "" {
				return fmt.Errorf("no tool registered for %q", shortName)
			}
			raw, err := json.Marshal(buildParams(c))
			if err != nil {
				return err
			}
			result, err := tool.Execute(c.Context, raw)
			if err != nil {
				return err
			}
			return printJSON(result)
		}),
	}
}

// paramsFrom assembles a refactor.Params map from string and int CLI
// flags, skipping any optional flag the caller never set. Bool flags are
// assigned by the caller, since zero-value-vs-unset doesn't apply to them.
func paramsFrom(c *cli.Context, strs map[string]string, ints map[string]string) refactor.Params {
	p := refactor.Params{}
	for key, flag := range strs {
		if v := c.String(flag); v != "" {
			p[key] = v
		}
	}
	for key, flag := range ints {
		if c.IsSet(flag) {
			p[key] = c.Int(flag)
		}
	}
	return p
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
