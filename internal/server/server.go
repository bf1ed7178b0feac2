package server

import (
	mcpserver "github.com/mark3labs/mcp-go/server"

	"auto-api-agent/internal/config"
	"auto-api-agent/internal/contextstore"
	"auto-api-agent/internal/document"
	"auto-api-agent/internal/executor"
	"auto-api-agent/internal/httpclient"
	"auto-api-agent/internal/logger"
)

// Server exposes the generated tools and workflows over MCP
type Server struct {
	cfg      *config.Config
	mcp      *mcpserver.MCPServer
	pipeline *Pipeline
	store    contextstore.Store
	dispatch *executor.Dispatcher
	logger   *logger.Logger
}

// New builds the full pipeline from the document and wires every generated
// tool plus the workflow tools into an MCP server
func New(cfg *config.Config, doc *document.Document, log *logger.Logger) (*Server, error) {
	pipeline, err := BuildPipeline(cfg, doc, log)
	if err != nil {
		return nil, err
	}
	store, err := NewStore(cfg, log)
	if err != nil {
		return nil, err
	}
	client := httpclient.NewClient(cfg.Environment.BaseURL, cfg.HTTP, cfg.Environment.Auth, log.Logger)

	s := &Server{
		cfg:      cfg,
		pipeline: pipeline,
		store:    store,
		dispatch: executor.NewDispatcher(pipeline.Defs, client, store, log),
		logger:   log,
	}
	s.mcp = mcpserver.NewMCPServer(
		doc.Title(),
		doc.Version(),
		mcpserver.WithToolCapabilities(true),
		mcpserver.WithRecovery(),
	)
	if err := s.registerTools(); err != nil {
		return nil, err
	}
	return s, nil
}

// ServeStdio serves MCP over stdin/stdout until the client disconnects
func (s *Server) ServeStdio() error {
	return mcpserver.ServeStdio(s.mcp)
}
