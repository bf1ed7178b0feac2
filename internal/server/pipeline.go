package server

import (
	"fmt"
	"time"

	"auto-api-agent/internal/config"
	"auto-api-agent/internal/contextstore"
	"auto-api-agent/internal/document"
	"auto-api-agent/internal/endpoint"
	"auto-api-agent/internal/llm"
	"auto-api-agent/internal/logger"
	"auto-api-agent/internal/sample"
	"auto-api-agent/internal/schema"
	"auto-api-agent/internal/tools"
	"auto-api-agent/internal/workflow"
)

// Pipeline bundles everything derived from a loaded document: the endpoint
// registry, the exposed tool catalogue, and the synthesized CRUD workflows
type Pipeline struct {
	Registry  endpoint.Registry
	Defs      []tools.Definition
	Workflows map[string]*workflow.Workflow
	Engine    *workflow.Engine
}

// BuildPipeline derives all artifacts from the document in one pass
func BuildPipeline(cfg *config.Config, doc *document.Document, log *logger.Logger) (*Pipeline, error) {
	resolver := schema.NewResolver(doc.Raw, log.Logger)
	registry, err := endpoint.NewBuilder(doc, resolver).Build()
	if err != nil {
		return nil, err
	}

	var hints sample.HintProvider
	if cfg.LLM.Enabled && cfg.LLM.APIKey != "" {
		hints = llm.NewHinter(llm.Config{
			APIKey:      cfg.LLM.APIKey,
			Model:       cfg.LLM.Model,
			Temperature: cfg.LLM.Temperature,
			MaxTokens:   cfg.LLM.MaxTokens,
		}, log)
	}
	samples := sample.NewSynthesizer(registry, hints)
	workflows := workflow.NewSynthesizer(registry, samples).SynthesizeAll()

	return &Pipeline{
		Registry:  registry,
		Defs:      tools.Generate(registry),
		Workflows: workflows,
		Engine:    workflow.NewEngine(workflows, log.Logger),
	}, nil
}

// NewStore creates the context store selected by configuration
func NewStore(cfg *config.Config, log *logger.Logger) (contextstore.Store, error) {
	switch cfg.ContextStore.Backend {
	case "", "memory":
		return contextstore.NewMemoryStore(contextstore.MemoryConfig{
			MaxEntries: cfg.ContextStore.MaxEntries,
			TTL:        time.Duration(cfg.ContextStore.TTL) * time.Second,
		}), nil
	case "sql":
		db := cfg.ContextStore.Database
		return contextstore.NewSQLStore(contextstore.SQLConfig{
			Type:     db.Type,
			Host:     db.Host,
			Port:     db.Port,
			Database: db.Name,
			User:     db.User,
			Password: db.Password,
		}, log.Logger)
	}
	return nil, fmt.Errorf("unsupported context store backend: %s", cfg.ContextStore.Backend)
}
