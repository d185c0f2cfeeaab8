// Package toolspec is codenav's external interface, spec.md §6: a typed
// record of {name, description, input schema, executor} per operation,
// consumed by whatever dispatcher wires the core to a transport —
// illustrated by cmd/codenav-mcp, but toolspec itself has no transport
// dependency. Grounded on the teacher's internal/mcp/server.go
// registerTools()'s jsonschema.Schema literals, lifted out of the MCP
// server and decoupled from it so the schemas describe codenav's own
// operations rather than the teacher's search/context tools.
package toolspec

import (
	"context"
	"encoding/json"

	"github.com/google/jsonschema-go/jsonschema"

	"github.com/riftline/codenav/internal/errs"
	"github.com/riftline/codenav/internal/refactor"
	"github.com/riftline/codenav/internal/resolver"
	"github.com/riftline/codenav/internal/session"
	"github.com/riftline/codenav/internal/syntaxcheck"
)

// Tool is one named, schema-described, executable operation codenav
// exposes. Execute is handed the request's raw JSON arguments and returns
// a JSON-marshalable result or a *errs.Envelope.
type Tool struct {
	Name        string
	Description string
	InputSchema *jsonschema.Schema
	Execute     func(ctx context.Context, raw json.RawMessage) (any, error)
}

func stringSchema(desc string) *jsonschema.Schema {
	return &jsonschema.Schema{Type: "string", Description: desc}
}

func intSchema(desc string) *jsonschema.Schema {
	return &jsonschema.Schema{Type: "integer", Description: desc}
}

func boolSchema(desc string) *jsonschema.Schema {
	return &jsonschema.Schema{Type: "boolean", Description: desc}
}

// locationParams is the {file, line, column} triple every navigation tool
// keys off of.
type locationParams struct {
	File   string `json:"file"`
	Line   int    `json:"line"`
	Column int    `json:"column"`
}

func decode(raw json.RawMessage, v any) error {
	if len(raw) == 0 {
		return errs.New(errs.ParamMissing, "request body is required")
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return errs.Wrap(errs.ParamInvalid, err)
	}
	return nil
}

// Registry returns every tool codenav exposes, bound to sess's managers.
// Each call to a returned Tool's Execute runs against sess; callers that
// need per-request isolation should build a fresh session.Context first.
func Registry(sess *session.Context) []Tool {
	return []Tool{
		findDefinitionTool(sess),
		findReferencesTool(sess),
		hoverTool(sess),
		listSymbolsTool(sess),
		checkSyntaxTool(sess),
		renameTool(sess),
		inlineTool(sess),
		extractMethodTool(sess),
		extractVariableTool(sess),
		moveSymbolTool(sess),
		wrapCodeTool(sess),
		generateBoilerplateTool(sess),
	}
}

func findDefinitionTool(sess *session.Context) Tool {
	return Tool{
		Name:        "find_definition",
		Description: "Find the definition of the symbol at a file:line:column position.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"file":   stringSchema("Path to the source file"),
				"line":   intSchema("1-based line number"),
				"column": intSchema("1-based column number"),
			},
			Required: []string{"file", "line", "column"},
		},
		Execute: func(ctx context.Context, raw json.RawMessage) (any, error) {
			var p locationParams
			if err := decode(raw, &p); err != nil {
				return nil, err
			}
			return sess.Resolver.FindDefinition(ctx, p.File, p.Line, p.Column)
		},
	}
}

type referencesParams struct {
	locationParams
	Scope              string `json:"scope"`
	IncludeDeclaration bool   `json:"include_declaration"`
}

func findReferencesTool(sess *session.Context) Tool {
	return Tool{
		Name:        "find_references",
		Description: "Find every reference to the symbol at a file:line:column position, within a given scope.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"file":                stringSchema("Path to the source file"),
				"line":                intSchema("1-based line number"),
				"column":              intSchema("1-based column number"),
				"scope":               stringSchema("One of file, directory, project (default project)"),
				"include_declaration": boolSchema("Include the declaration site itself"),
			},
			Required: []string{"file", "line", "column"},
		},
		Execute: func(ctx context.Context, raw json.RawMessage) (any, error) {
			var p referencesParams
			if err := decode(raw, &p); err != nil {
				return nil, err
			}
			scope := resolver.Scope(p.Scope)
			if scope == "" {
				scope = resolver.ScopeProject
			}
			return sess.Resolver.FindReferences(ctx, p.File, p.Line, p.Column, scope, p.IncludeDeclaration)
		},
	}
}

func hoverTool(sess *session.Context) Tool {
	return Tool{
		Name:        "hover",
		Description: "Return the signature and kind of the symbol at a file:line:column position.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"file":   stringSchema("Path to the source file"),
				"line":   intSchema("1-based line number"),
				"column": intSchema("1-based column number"),
			},
			Required: []string{"file", "line", "column"},
		},
		Execute: func(ctx context.Context, raw json.RawMessage) (any, error) {
			var p locationParams
			if err := decode(raw, &p); err != nil {
				return nil, err
			}
			return sess.Resolver.Hover(ctx, p.File, p.Line, p.Column)
		},
	}
}

type fileParams struct {
	File string `json:"file"`
}

func listSymbolsTool(sess *session.Context) Tool {
	return Tool{
		Name:        "list_symbols",
		Description: "List every symbol defined in a file.",
		InputSchema: &jsonschema.Schema{
			Type:       "object",
			Properties: map[string]*jsonschema.Schema{"file": stringSchema("Path to the source file")},
			Required:   []string{"file"},
		},
		Execute: func(ctx context.Context, raw json.RawMessage) (any, error) {
			var p fileParams
			if err := decode(raw, &p); err != nil {
				return nil, err
			}
			return sess.Resolver.ListSymbols(p.File)
		},
	}
}

func checkSyntaxTool(sess *session.Context) Tool {
	return Tool{
		Name:        "check_syntax",
		Description: "Report tree-sitter ERROR/MISSING nodes in a file, up to 5 issues with context.",
		InputSchema: &jsonschema.Schema{
			Type:       "object",
			Properties: map[string]*jsonschema.Schema{"file": stringSchema("Path to the source file")},
			Required:   []string{"file"},
		},
		Execute: func(ctx context.Context, raw json.RawMessage) (any, error) {
			var p fileParams
			if err := decode(raw, &p); err != nil {
				return nil, err
			}
			result, err := sess.Pool.ParseFile(p.File, "")
			if err != nil {
				return nil, err
			}
			issues := syntaxcheck.Check(result.Tree, result.Content)
			return map[string]any{
				"issues":  issues,
				"summary": syntaxcheck.Summary(issues),
			}, nil
		},
	}
}

// refactorTool wraps one refactor.Operation (looked up by shortName) as a
// Tool whose Execute decodes raw JSON into a refactor.Params map and runs
// Execute (not Preview) against sess's own Transaction manager.
func refactorTool(sess *session.Context, name, shortName, description string, schema *jsonschema.Schema) Tool {
	return Tool{
		Name:        name,
		Description: description,
		InputSchema: schema,
		Execute: func(ctx context.Context, raw json.RawMessage) (any, error) {
			op, ok := refactor.Get(shortName)
			if !ok {
				return nil, errs.New(errs.InternalError, "refactoring operation not registered").
					WithContext("operation", shortName)
			}
			var params refactor.Params
			if err := decode(raw, &params); err != nil {
				return nil, err
			}
			if err := op.ValidateParams(params); err != nil {
				return nil, err
			}
			rc := sess.RefactorContext(ctx)
			return op.Execute(params, rc)
		},
	}
}

func renameTool(sess *session.Context) Tool {
	return refactorTool(sess, "rename", "rename",
		"Rename a symbol everywhere it is referenced.",
		&jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"file":    stringSchema("Path to a file containing the declaration (optional if name is unambiguous)"),
				"line":    intSchema("1-based line number of the declaration"),
				"name":    stringSchema("Symbol name to rename (used instead of file/line when unambiguous)"),
				"newName": stringSchema("The new name"),
				"scope":   stringSchema("One of file, directory, project"),
			},
			Required: []string{"newName"},
		})
}

func inlineTool(sess *session.Context) Tool {
	return refactorTool(sess, "inline", "inline",
		"Inline a local variable's value into its usage sites.",
		&jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"file":              stringSchema("Path to the source file"),
				"line":              intSchema("1-based line number of the declaration"),
				"name":              stringSchema("Variable name to inline"),
				"deleteDeclaration": boolSchema("Delete the now-unused declaration (default true)"),
			},
			Required: []string{"file", "line", "name"},
		})
}

func extractMethodTool(sess *session.Context) Tool {
	return refactorTool(sess, "extract_method", "extract_method",
		"Extract a line range into a new method or function, inferring parameters.",
		&jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"file":       stringSchema("Path to the source file"),
				"startLine":  intSchema("First line of the range to extract"),
				"endLine":    intSchema("Last line of the range to extract"),
				"methodName": stringSchema("Name for the new method"),
			},
			Required: []string{"file", "startLine", "endLine", "methodName"},
		})
}

func extractVariableTool(sess *session.Context) Tool {
	return refactorTool(sess, "extract_variable", "extract_variable",
		"Extract an expression into a new local variable declaration.",
		&jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"file":         stringSchema("Path to the source file"),
				"line":         intSchema("1-based line containing the expression"),
				"expression":   stringSchema("The expression text to extract"),
				"variableName": stringSchema("Name for the new variable"),
				"replaceAll":   boolSchema("Replace every occurrence on the line (default first only)"),
			},
			Required: []string{"file", "line", "expression", "variableName"},
		})
}

func moveSymbolTool(sess *session.Context) Tool {
	return refactorTool(sess, "move_symbol", "move",
		"Move a top-level declaration from one file to another.",
		&jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"file":            stringSchema("Source file path"),
				"line":            intSchema("1-based line of the declaration"),
				"name":            stringSchema("Declaration name"),
				"destinationFile": stringSchema("Destination file path"),
			},
			Required: []string{"file", "destinationFile"},
		})
}

func wrapCodeTool(sess *session.Context) Tool {
	return refactorTool(sess, "wrap_code", "wrap",
		"Wrap a line range in a control-flow or exception-handling construct.",
		&jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"file":              stringSchema("Path to the source file"),
				"startLine":         intSchema("First line of the range to wrap"),
				"endLine":           intSchema("Last line of the range to wrap"),
				"kind":              stringSchema("try_catch, try_finally, try_with_resources, if, if_else, for, foreach, while, synchronized, custom"),
				"exceptionType":     stringSchema("Exception/error type name, used by try_catch"),
				"condition":         stringSchema("Condition expression, used by if and if_else"),
				"iterationVariable": stringSchema("Loop variable name, used by for and foreach"),
				"resource":          stringSchema("Resource expression, used by try_with_resources"),
				"collection":        stringSchema("Collection expression, used by foreach"),
				"item":              stringSchema("Item variable name, used by foreach"),
				"lockOn":            stringSchema("Expression to synchronize on, used by synchronized"),
				"header":            stringSchema("Opening line text, required when kind=custom"),
				"footer":            stringSchema("Closing line text, required when kind=custom"),
			},
			Required: []string{"file", "startLine", "endLine", "kind"},
		})
}

func generateBoilerplateTool(sess *session.Context) Tool {
	return refactorTool(sess, "generate_boilerplate", "generate",
		"Generate getters, setters, constructors, builders, equals/hashCode, or toString for a class or struct.",
		&jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"file":      stringSchema("Path to the source file"),
				"line":      intSchema("1-based line of the class/struct declaration"),
				"className": stringSchema("Class or struct name"),
				"kind":      stringSchema("getter, setter, accessors, constructor, builder, equals_hashcode, toString"),
				"fields":    &jsonschema.Schema{Type: "array", Items: &jsonschema.Schema{Type: "string"}, Description: "Field names to generate members for"},
			},
			Required: []string{"file", "kind", "className", "fields"},
		})
}
