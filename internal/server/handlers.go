package server

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"auto-api-agent/internal/workflow"
)

// toolHandler returns the handler for one generated endpoint tool. The
// dispatcher resolves context references in the arguments, performs the HTTP
// call and updates the context store.
func (s *Server) toolHandler(name string) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		result, err := s.dispatch.CallTool(ctx, name, request.GetArguments())
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return jsonResult(result)
	}
}

func (s *Server) listWorkflowsHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	names := s.pipeline.Engine.Names()
	summaries := make([]map[string]interface{}, 0, len(names))
	for _, name := range names {
		wf, ok := s.pipeline.Engine.Get(name)
		if !ok {
			continue
		}
		summaries = append(summaries, map[string]interface{}{
			"name":        wf.Name,
			"description": wf.Description,
			"steps":       len(wf.Steps),
		})
	}
	return jsonResult(summaries)
}

func (s *Server) runWorkflowHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := request.RequireString("workflowName")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	opts := workflow.Options{
		ContinueOnError: !request.GetBool("stopOnError", true),
	}
	report, err := s.pipeline.Engine.Execute(ctx, name, opts, s.store, s.dispatch)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(report)
}

// jsonResult marshals a tool response into an MCP text result
func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
