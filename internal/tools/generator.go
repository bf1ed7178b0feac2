package tools

import (
	"fmt"
	"strings"

	"auto-api-agent/internal/endpoint"
)

// Definition is one externally exposed tool: the agent-facing contract plus
// the invocation metadata the dispatcher needs to turn a call into HTTP
type Definition struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`

	Endpoint string                `json:"-"`
	Key      endpoint.OperationKey `json:"-"`
	Method   string                `json:"-"`
	Path     string                `json:"-"`
}

// exposeOrder fixes the order in which an endpoint's operations become tools
var exposeOrder = []endpoint.OperationKey{
	endpoint.OpGetCollection,
	endpoint.OpGet,
	endpoint.OpPost,
	endpoint.OpPut,
	endpoint.OpPatch,
	endpoint.OpDelete,
}

// postSuppressedFields are server-managed fields hidden from the create tool
var postSuppressedFields = map[string]bool{
	"id":        true,
	"createdAt": true,
	"updatedAt": true,
}

// Generate derives the externally exposed tool catalogue from the endpoint
// registry
func Generate(registry endpoint.Registry) []Definition {
	var defs []Definition
	for _, name := range registry.Names() {
		ep := registry[name]
		for _, key := range exposeOrder {
			if _, ok := ep.Operations[key]; ok {
				defs = append(defs, Describe(key, name, ep))
			}
		}
	}
	return defs
}

// Describe maps one endpoint operation to a tool definition
func Describe(key endpoint.OperationKey, endpointName string, ep *endpoint.Endpoint) Definition {
	singular := endpoint.Singularize(endpointName)

	var name, description string
	switch key {
	case endpoint.OpGetCollection:
		name = "list_" + endpointName
		description = fmt.Sprintf("List all %s", endpointName)
	case endpoint.OpGet:
		name = "get_" + singular
		description = fmt.Sprintf("Get a single %s by ID", singular)
	case endpoint.OpPost:
		name = "create_" + singular
		description = fmt.Sprintf("Create a new %s", singular)
	case endpoint.OpPut:
		name = "update_" + singular
		description = fmt.Sprintf("Update an existing %s by ID", singular)
	case endpoint.OpPatch:
		name = "patch_" + singular
		description = fmt.Sprintf("Apply a partial update to a %s by ID", singular)
	case endpoint.OpDelete:
		name = "delete_" + singular
		description = fmt.Sprintf("Delete a %s by ID", singular)
	default:
		name = strings.ToLower(string(key)) + "_" + endpointName
		description = fmt.Sprintf("Call %s on %s", key, endpointName)
	}

	op := ep.Operations[key]
	if op != nil {
		if op.Summary != "" {
			description = op.Summary
		} else if op.Description != "" {
			description = op.Description
		}
	}

	def := Definition{
		Name:        name,
		Description: description,
		InputSchema: inputSchema(key, singular, ep),
		Endpoint:    endpointName,
		Key:         key,
		Method:      method(key),
		Path:        ep.Path,
	}
	if op != nil {
		def.Path = op.Path
	}
	return def
}

// inputSchema builds the JSON-Schema-like input contract for one tool
func inputSchema(key endpoint.OperationKey, singular string, ep *endpoint.Endpoint) map[string]interface{} {
	props := make(map[string]interface{})

	if isItemOp(key) {
		props["id"] = map[string]interface{}{
			"type":        "string",
			"description": fmt.Sprintf("ID of the %s", singular),
		}
	}

	if key == endpoint.OpPost || key == endpoint.OpPut || key == endpoint.OpPatch {
		if epProps, ok := ep.Schema["properties"].(map[string]interface{}); ok {
			for field, prop := range epProps {
				if key == endpoint.OpPost && postSuppressedFields[field] {
					continue
				}
				props[field] = prop
			}
		}
		props["data"] = map[string]interface{}{
			"type":        "object",
			"description": "Raw request body; individual fields override its entries",
		}
	}

	props["queryParams"] = map[string]interface{}{
		"type":        "object",
		"description": "Query parameters appended to the request URL",
	}
	props["saveToContext"] = map[string]interface{}{
		"type":        "string",
		"description": "Context key to store the response under for later steps",
	}
	props["fromContext"] = map[string]interface{}{
		"type":        "string",
		"description": "Context key of a prior response to merge into this call",
	}

	return map[string]interface{}{
		"type":       "object",
		"properties": props,
	}
}

// isItemOp reports whether the operation targets a single resource by ID
func isItemOp(key endpoint.OperationKey) bool {
	switch key {
	case endpoint.OpGet, endpoint.OpPut, endpoint.OpPatch, endpoint.OpDelete:
		return true
	}
	return false
}

// method maps an operation key back to its HTTP verb
func method(key endpoint.OperationKey) string {
	if key == endpoint.OpGetCollection {
		return "GET"
	}
	return string(key)
}
