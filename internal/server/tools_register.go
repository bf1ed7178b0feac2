package server

import (
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"auto-api-agent/internal/tools"
)

// registerTools wires every generated endpoint tool plus the two workflow
// tools into the MCP server. Endpoint tools carry the schema derived from
// the document; workflow tools are fixed specs.
func (s *Server) registerTools() error {
	serverTools := make([]mcpserver.ServerTool, 0, len(s.pipeline.Defs)+2)
	for _, def := range s.pipeline.Defs {
		tool, err := tools.ToMCP(def)
		if err != nil {
			return err
		}
		serverTools = append(serverTools, mcpserver.ServerTool{
			Tool:    tool,
			Handler: s.toolHandler(def.Name),
		})
	}
	serverTools = append(serverTools,
		mcpserver.ServerTool{
			Tool:    listWorkflowsSpec(),
			Handler: s.listWorkflowsHandler,
		},
		mcpserver.ServerTool{
			Tool:    runWorkflowSpec(),
			Handler: s.runWorkflowHandler,
		},
	)
	s.mcp.AddTools(serverTools...)
	return nil
}

// listWorkflowsSpec returns the MCP tool specification for listing the
// synthesized workflows
func listWorkflowsSpec() mcp.Tool {
	return mcp.NewTool("list_workflows",
		mcp.WithDescription("Lists the multi-step CRUD workflows synthesized from the API documentation. Each workflow exercises one resource end to end: fetch dependencies, create, list, get, update when supported, delete."),
		mcp.WithTitleAnnotation("List Workflows"),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithIdempotentHintAnnotation(true),
	)
}

// runWorkflowSpec returns the MCP tool specification for executing a workflow
func runWorkflowSpec() mcp.Tool {
	return mcp.NewTool("run_workflow",
		mcp.WithDescription("Executes a synthesized workflow step by step against the live API. Steps share state through the context store, so created ids flow into later get, update and delete steps automatically. Returns a per-step report."),
		mcp.WithString("workflowName",
			mcp.Required(),
			mcp.Description("Name of the workflow to execute, as returned by list_workflows (e.g. posts_crud_workflow)"),
		),
		mcp.WithBoolean("stopOnError",
			mcp.Description("Stop at the first failing step (default true). Set to false to attempt every step regardless of failures."),
		),
		mcp.WithTitleAnnotation("Run Workflow"),
		mcp.WithDestructiveHintAnnotation(true),
	)
}
