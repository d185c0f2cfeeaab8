// Command codenav-mcp adapts internal/toolspec's tool registry onto the
// Model Context Protocol over stdio, so any MCP client can drive codenav's
// navigation and refactoring operations directly. It carries no domain
// logic of its own — everything comes from toolspec and session.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/riftline/codenav/internal/session"
	"github.com/riftline/codenav/internal/toolspec"
	"github.com/riftline/codenav/internal/version"
)

func main() {
	root := flag.String("root", ".", "project root to index")
	flag.Parse()

	sess, err := session.New(*root, session.WithMCPLogging())
	if err != nil {
		fmt.Fprintf(os.Stderr, "codenav-mcp: %v\n", err)
		os.Exit(1)
	}
	defer sess.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := sess.Build(ctx); err != nil {
		sess.Log.Errorf("initial index build failed: %v", err)
		fmt.Fprintf(os.Stderr, "codenav-mcp: initial index build failed: %v\n", err)
		os.Exit(1)
	}

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "codenav-mcp",
		Version: version.Version,
	}, nil)

	for _, tool := range toolspec.Registry(sess) {
		server.AddTool(&mcp.Tool{
			Name:        tool.Name,
			Description: tool.Description,
			InputSchema: tool.InputSchema,
		}, adaptHandler(tool))
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		sess.Log.Printf("received shutdown signal")
		cancel()
	}()

	sess.Log.Printf("starting MCP server with stdio transport, root=%s", *root)
	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil {
		sess.Log.Errorf("server exited: %v", err)
		fmt.Fprintf(os.Stderr, "codenav-mcp: %v\n", err)
		os.Exit(1)
	}
}

// adaptHandler wraps a toolspec.Tool's transport-agnostic Execute as an MCP
// tool handler, marshaling its result into a single TextContent block.
func adaptHandler(tool toolspec.Tool) func(context.Context, *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		result, err := tool.Execute(ctx, req.Params.Arguments)
		if err != nil {
			return errorResult(err), nil
		}
		body, err := json.Marshal(result)
		if err != nil {
			return errorResult(err), nil
		}
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: string(body)}},
		}, nil
	}
}

func errorResult(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: err.Error()}},
	}
}
