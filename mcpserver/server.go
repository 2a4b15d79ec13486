// Package mcpserver publishes the tool registry over the Model Context Protocol.
package mcpserver

import (
	"context"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	contractx "github.com/tanpawarit/Northwind-Tool-Assistant/agent/contract"
	summarizerx "github.com/tanpawarit/Northwind-Tool-Assistant/agent/summarizer"
	toolx "github.com/tanpawarit/Northwind-Tool-Assistant/agent/tool"
	logx "github.com/tanpawarit/Northwind-Tool-Assistant/pkg/logger"
)

const (
	Name    = "northwind mcp"
	Version = "v1.0.0"
)

// New registers every catalog tool. Calls are routed through dispatcher, so
// MCP clients see the same marker text as the chat pipeline.
func New(registry *toolx.Registry, dispatcher contractx.Dispatcher) (*mcp.Server, error) {
	if registry == nil {
		return nil, errors.New("registry is required")
	}
	if dispatcher == nil {
		return nil, errors.New("dispatcher is required")
	}

	server := mcp.NewServer(&mcp.Implementation{Name: Name, Version: Version}, nil)
	for _, name := range registry.Names() {
		spec, ok := registry.Spec(name)
		if !ok {
			return nil, fmt.Errorf("%w: tool %q disappeared from the registry", contractx.ErrCatalog, name)
		}
		server.AddTool(&mcp.Tool{
			Name:        spec.Name,
			Description: spec.Description,
			InputSchema: InputSchema(spec.Params),
		}, handler(spec.Name, dispatcher))
	}
	return server, nil
}

// Serve runs the server over stdin/stdout until ctx ends or the client disconnects.
func Serve(ctx context.Context, server *mcp.Server) error {
	logx.From(ctx).Info().Str("server", Name).Msg("mcp server listening on stdio")
	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("mcp: serve stdio: %w", err)
	}
	return nil
}

// InputSchema describes tool parameters as a JSON Schema object. Every parameter is optional;
// missing ones surface as execution error markers.
func InputSchema(params map[string]contractx.ParamType) map[string]any {
	props := make(map[string]any, len(params))
	for name, typ := range params {
		props[name] = map[string]any{"type": string(typ)}
	}
	return map[string]any{
		"type":       "object",
		"properties": props,
	}
}

func handler(name string, dispatcher contractx.Dispatcher) mcp.ToolHandler {
	return func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var raw []byte
		if req != nil && req.Params != nil {
			raw = req.Params.Arguments
		}

		args, err := toolx.ParseArgs(raw)
		if err != nil {
			return textResult(toolx.ExecutionErrorMarker(name, err)), nil
		}
		return textResult(dispatcher.Dispatch(ctx, name, args)), nil
	}
}

func textResult(res contractx.Result) *mcp.CallToolResult {
	text, err := contractx.Text(res)
	if err != nil {
		text = summarizerx.FormatError(err)
	}
	_, failed := res.(contractx.ErrorMarker)
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
		IsError: failed || err != nil,
	}
}
