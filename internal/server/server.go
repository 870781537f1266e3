// Package server exposes the assistant's tool set over the Model
// Context Protocol, so MCP-capable assistants can call the email and
// calendar tools directly over stdio.
//
// The MCP surface reuses the same dispatcher as the hosted agent and
// inherits its error policy: backend failures come back as error
// results, not protocol failures.
package server

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/aide-assistant/aide/internal/tools"
)

// New builds an MCP server exposing every tool in the dispatcher.
func New(dispatcher *tools.Dispatcher, version string) (*mcpserver.MCPServer, error) {
	srv := mcpserver.NewMCPServer("aide", version,
		mcpserver.WithToolCapabilities(true),
	)

	for _, tool := range dispatcher.Tools() {
		mcpTool, err := toMCPTool(tool)
		if err != nil {
			return nil, fmt.Errorf("declare tool %s: %w", tool.Name(), err)
		}

		name := tool.Name()
		srv.AddTool(mcpTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleToolCall(ctx, dispatcher, name, request)
		})
	}

	return srv, nil
}

// ServeStdio blocks serving the MCP protocol on stdin/stdout.
func ServeStdio(srv *mcpserver.MCPServer) error {
	return mcpserver.ServeStdio(srv)
}

// toMCPTool translates a tool declaration into the MCP schema form.
func toMCPTool(tool tools.Tool) (mcp.Tool, error) {
	schema := tool.InputSchema()

	doc := map[string]any{
		"type":       "object",
		"properties": schema.Properties,
	}
	if len(schema.Required) > 0 {
		doc["required"] = schema.Required
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		return mcp.Tool{}, err
	}

	return mcp.NewToolWithRawSchema(tool.Name(), tool.Description(), raw), nil
}

func handleToolCall(ctx context.Context, dispatcher *tools.Dispatcher, name string, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := json.Marshal(request.GetArguments())
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("unreadable arguments: %v", err)), nil
	}

	result, isError := dispatcher.Dispatch(ctx, name, args)
	if isError {
		return mcp.NewToolResultError(result), nil
	}
	return mcp.NewToolResultText(result), nil
}
