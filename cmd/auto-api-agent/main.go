package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"auto-api-agent/internal/config"
	"auto-api-agent/internal/document"
	"auto-api-agent/internal/executor"
	"auto-api-agent/internal/httpclient"
	"auto-api-agent/internal/logger"
	"auto-api-agent/internal/reporter"
	"auto-api-agent/internal/server"
	"auto-api-agent/internal/workflow"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:   "auto-api-agent",
		Short: "Turns OpenAPI documentation into agent tools and executable CRUD workflows",
		Long: `auto-api-agent ingests an OpenAPI document and derives two artifacts from it:
a catalogue of agent-callable tools (one per endpoint operation) and a set of
multi-step CRUD workflows that exercise each resource end to end, resolving
foreign-key dependencies between resources automatically.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to the configuration file")

	root.AddCommand(
		newServeCmd(&configPath),
		newGenerateCmd(&configPath),
		newRunCmd(&configPath),
	)
	return root
}

func newServeCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the generated tools and workflows over MCP on stdio",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, doc, log, err := setup(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			defer log.Close()

			srv, err := server.New(cfg, doc, log)
			if err != nil {
				return fmt.Errorf("failed to create server: %w", err)
			}
			log.Info("serving MCP on stdio", "document", doc.Title(), "version", doc.Version())
			return srv.ServeStdio()
		},
	}
}

func newGenerateCmd(configPath *string) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate the tool catalogue and workflows without serving",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, doc, log, err := setup(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			defer log.Close()

			pipeline, err := server.BuildPipeline(cfg, doc, log)
			if err != nil {
				return err
			}

			catalogue := map[string]interface{}{
				"document":  map[string]string{"title": doc.Title(), "version": doc.Version()},
				"endpoints": pipeline.Registry.Names(),
				"tools":     pipeline.Defs,
				"workflows": pipeline.Workflows,
			}
			data, err := json.MarshalIndent(catalogue, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to encode catalogue: %w", err)
			}

			if out == "" {
				fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return nil
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return fmt.Errorf("failed to write catalogue: %w", err)
			}
			log.Info("wrote catalogue", "path", out, "tools", len(pipeline.Defs), "workflows", len(pipeline.Workflows))
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "", "write the catalogue to a file instead of stdout")
	return cmd
}

func newRunCmd(configPath *string) *cobra.Command {
	var continueOnError bool

	cmd := &cobra.Command{
		Use:   "run <workflow>",
		Short: "Execute one synthesized workflow against the live API",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, doc, log, err := setup(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			defer log.Close()

			pipeline, err := server.BuildPipeline(cfg, doc, log)
			if err != nil {
				return err
			}
			store, err := server.NewStore(cfg, log)
			if err != nil {
				return err
			}
			client := httpclient.NewClient(cfg.Environment.BaseURL, cfg.HTTP, cfg.Environment.Auth, log.Logger)
			dispatch := executor.NewDispatcher(pipeline.Defs, client, store, log)

			opts := workflow.Options{ContinueOnError: continueOnError}
			report, err := pipeline.Engine.Execute(cmd.Context(), args[0], opts, store, dispatch)
			if err != nil {
				return err
			}

			path, err := reporter.NewReporter(reporter.ReportingConfig{
				OutputDir: cfg.Reporting.OutputDir,
				Detailed:  cfg.Reporting.Detailed,
			}).WriteReport(report)
			if err != nil {
				return fmt.Errorf("failed to write report: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Workflow %s: %d succeeded, %d failed (report: %s)\n",
				report.Workflow, report.Succeeded, report.Failed, path)
			if report.Failed > 0 {
				return fmt.Errorf("workflow %s had %d failing steps", report.Workflow, report.Failed)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&continueOnError, "continue-on-error", false, "attempt every step even after a failure")
	return cmd
}

// setup loads configuration, opens the logger and obtains the OpenAPI
// document from the configured file, URL or live backend
func setup(ctx context.Context, configPath string) (*config.Config, *document.Document, *logger.Logger, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	log, err := logger.NewLogger(cfg.Logging.Dir)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	doc, err := loadDocument(ctx, cfg, log)
	if err != nil {
		log.Close()
		return nil, nil, nil, err
	}
	return cfg, doc, log, nil
}

func loadDocument(ctx context.Context, cfg *config.Config, log *logger.Logger) (*document.Document, error) {
	switch {
	case cfg.Spec.File != "":
		return document.LoadFile(cfg.Spec.File)
	case cfg.Spec.URL != "":
		return document.NewFetcher(cfg.Environment.BaseURL, log.Logger).FetchURL(ctx, cfg.Spec.URL)
	case cfg.Environment.BaseURL != "":
		return document.NewFetcher(cfg.Environment.BaseURL, log.Logger).Fetch(ctx)
	}
	return nil, fmt.Errorf("no OpenAPI document source configured: set spec.file, spec.url or environment.base_url")
}
