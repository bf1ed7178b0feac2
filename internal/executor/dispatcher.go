package executor

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"auto-api-agent/internal/contextstore"
	"auto-api-agent/internal/endpoint"
	"auto-api-agent/internal/httpclient"
	"auto-api-agent/internal/logger"
	"auto-api-agent/internal/tools"
	"auto-api-agent/internal/workflow"
)

var pathParamPattern = regexp.MustCompile(`\{([^}]+)\}`)

// reservedArgKeys never become part of a request body
var reservedArgKeys = map[string]bool{
	"id":                           true,
	workflow.KeyData:               true,
	workflow.KeyQueryParams:        true,
	workflow.KeySaveToContext:      true,
	workflow.KeyFromContext:        true,
	workflow.KeyDynamicForeignKeys: true,
}

// Dispatcher resolves tool action names into HTTP requests against the
// backend. It implements the workflow engine's dispatcher collaborator and
// also serves direct tool calls from the agent, so it applies the same
// context resolution on its own.
type Dispatcher struct {
	defs   map[string]tools.Definition
	client *httpclient.Client
	store  contextstore.Store
	logger *logger.Logger
}

// NewDispatcher creates a new instance of Dispatcher
func NewDispatcher(defs []tools.Definition, client *httpclient.Client, store contextstore.Store, log *logger.Logger) *Dispatcher {
	index := make(map[string]tools.Definition, len(defs))
	for _, def := range defs {
		index[def.Name] = def
	}
	return &Dispatcher{
		defs:   index,
		client: client,
		store:  store,
		logger: log,
	}
}

// CallTool executes a single tool action and returns the response payload
func (d *Dispatcher) CallTool(ctx context.Context, action string, args map[string]interface{}) (interface{}, error) {
	def, ok := d.defs[action]
	if !ok {
		return nil, fmt.Errorf("unknown tool: %s", action)
	}

	args = workflow.ResolveArgs(args, d.store)
	saveKey, _ := args[workflow.KeySaveToContext].(string)

	path, err := d.buildPath(def, args)
	if err != nil {
		return nil, err
	}

	query, _ := args[workflow.KeyQueryParams].(map[string]interface{})

	var body interface{}
	switch def.Key {
	case endpoint.OpPost, endpoint.OpPut, endpoint.OpPatch:
		body = buildBody(def, args)
	}

	resp, err := d.client.Request(ctx, def.Method, path, query, body)
	d.logger.LogToolCall(action, args, resp, err)
	if err != nil {
		return nil, fmt.Errorf("%s failed: %w", action, err)
	}

	if saveKey != "" {
		d.store.Set(saveKey, resp.Data)
	}
	return resp.Data, nil
}

// buildPath substitutes path parameters from the arguments. Any parameter
// without a matching named argument falls back to the id argument; item
// operations on endpoints that only declared a collection template get the
// id appended.
func (d *Dispatcher) buildPath(def tools.Definition, args map[string]interface{}) (string, error) {
	path := def.Path
	itemOp := def.Key == endpoint.OpGet || def.Key == endpoint.OpPut ||
		def.Key == endpoint.OpPatch || def.Key == endpoint.OpDelete

	id, hasID := args["id"]

	if !strings.Contains(path, "{") {
		if itemOp {
			if !hasID {
				return "", fmt.Errorf("missing id argument for %s", def.Name)
			}
			path = strings.TrimSuffix(path, "/") + "/" + fmt.Sprint(id)
		}
		return path, nil
	}

	var missing string
	path = pathParamPattern.ReplaceAllStringFunc(path, func(match string) string {
		name := strings.Trim(match, "{}")
		if value, ok := args[name]; ok {
			return fmt.Sprint(value)
		}
		if hasID {
			return fmt.Sprint(id)
		}
		missing = name
		return match
	})
	if missing != "" {
		return "", fmt.Errorf("missing value for path parameter %q of %s", missing, def.Name)
	}
	return path, nil
}

// buildBody merges the raw data wrapper with the individually supplied
// fields; explicit fields win
func buildBody(def tools.Definition, args map[string]interface{}) map[string]interface{} {
	body := make(map[string]interface{})
	if data, ok := args[workflow.KeyData].(map[string]interface{}); ok {
		for field, value := range data {
			body[field] = value
		}
	}
	for field, value := range args {
		if reservedArgKeys[field] {
			continue
		}
		body[field] = value
	}
	if def.Key == endpoint.OpPost {
		delete(body, "id")
	}
	return body
}
