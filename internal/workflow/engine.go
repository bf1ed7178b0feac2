package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
)

// Dispatcher turns a single tool action into a backend call. The engine never
// performs I/O itself.
type Dispatcher interface {
	CallTool(ctx context.Context, action string, args map[string]interface{}) (interface{}, error)
}

// Options controls a single workflow execution. The zero value stops at the
// first failing step.
type Options struct {
	ContinueOnError bool
}

// StepResult records the outcome of one workflow step
type StepResult struct {
	Action   string      `json:"action"`
	Status   string      `json:"status"`
	Message  string      `json:"message,omitempty"`
	Response interface{} `json:"response,omitempty"`
}

// Report summarizes a workflow execution
type Report struct {
	Workflow  string       `json:"workflow"`
	Steps     []StepResult `json:"steps"`
	Succeeded int          `json:"succeeded"`
	Failed    int          `json:"failed"`
}

// Engine executes synthesized workflows strictly sequentially, threading step
// results through the shared context store
type Engine struct {
	workflows map[string]*Workflow
	logger    *slog.Logger
}

// NewEngine creates a new instance of Engine
func NewEngine(workflows map[string]*Workflow, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		workflows: workflows,
		logger:    logger,
	}
}

// Names returns the registered workflow names in sorted order
func (e *Engine) Names() []string {
	names := make([]string, 0, len(e.workflows))
	for name := range e.workflows {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Get returns a workflow definition by name
func (e *Engine) Get(name string) (*Workflow, bool) {
	wf, ok := e.workflows[name]
	return wf, ok
}

// Execute runs the named workflow through the dispatcher. Steps run one at a
// time; a failing step aborts the remainder unless ContinueOnError is set,
// and the partial report is always returned.
func (e *Engine) Execute(ctx context.Context, name string, opts Options, store Store, dispatch Dispatcher) (*Report, error) {
	wf, ok := e.workflows[name]
	if !ok {
		return nil, fmt.Errorf("unknown workflow: %s", name)
	}

	report := &Report{Workflow: name}
	for _, step := range wf.Steps {
		args := ResolveArgs(step.Args, store)
		saveKey, _ := args[KeySaveToContext].(string)
		delete(args, KeySaveToContext)

		result, err := dispatch.CallTool(ctx, step.Action, args)
		if err != nil {
			report.Failed++
			report.Steps = append(report.Steps, StepResult{
				Action:  step.Action,
				Status:  "failed",
				Message: err.Error(),
			})
			e.logger.Error("workflow step failed", "workflow", name, "action", step.Action, "error", err)
			if !opts.ContinueOnError {
				break
			}
			continue
		}

		report.Succeeded++
		report.Steps = append(report.Steps, StepResult{
			Action:   step.Action,
			Status:   "success",
			Message:  step.Description,
			Response: result,
		})
		if saveKey != "" {
			store.Set(saveKey, result)
		}
	}

	return report, nil
}
