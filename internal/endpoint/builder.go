package endpoint

import (
	"fmt"
	"sort"
	"strings"

	"auto-api-agent/internal/document"
	"auto-api-agent/internal/schema"
)

var httpVerbs = []string{"get", "post", "put", "patch", "delete"}

// Builder converts the document's path table into an endpoint registry
type Builder struct {
	doc      *document.Document
	resolver *schema.Resolver
}

// NewBuilder creates a new instance of Builder
func NewBuilder(doc *document.Document, resolver *schema.Resolver) *Builder {
	return &Builder{
		doc:      doc,
		resolver: resolver,
	}
}

// Build constructs the endpoint registry from the document. Multiple path
// templates (collection and item paths) merge into one endpoint per name.
func (b *Builder) Build() (Registry, error) {
	paths := b.doc.Paths()
	if len(paths) == 0 {
		return nil, fmt.Errorf("invalid OpenAPI document: no paths defined")
	}

	templates := make([]string, 0, len(paths))
	for template := range paths {
		templates = append(templates, template)
	}
	sort.Strings(templates)

	registry := make(Registry)
	for _, template := range templates {
		item, ok := paths[template].(map[string]interface{})
		if !ok {
			continue
		}
		b.mergePathItem(registry, template, item)
	}

	return registry, nil
}

// mergePathItem folds one (template, pathItem) pair into the registry
func (b *Builder) mergePathItem(registry Registry, template string, item map[string]interface{}) {
	name := EndpointName(template)

	ep, ok := registry[name]
	if !ok {
		ep = &Endpoint{
			Name:       name,
			Path:       template,
			Methods:    make(map[string]bool),
			Operations: make(map[OperationKey]*Operation),
		}
		registry[name] = ep
	}

	// The collection template is canonical whenever one exists
	if !EndsInParam(template) && EndsInParam(ep.Path) {
		ep.Path = template
	}

	for _, verb := range httpVerbs {
		raw, ok := item[verb].(map[string]interface{})
		if !ok {
			continue
		}

		method := strings.ToUpper(verb)
		ep.Methods[method] = true

		key := OperationKey(method)
		if method == "GET" && !EndsInParam(template) {
			key = OpGetCollection
		}
		if _, exists := ep.Operations[key]; exists {
			continue
		}

		op := b.buildOperation(method, template, raw)
		ep.Operations[key] = op

		// The representative schema comes from the first POST or PUT
		// request body and is never overwritten once set
		if ep.Schema == nil && op.RequestBody != nil && (method == "POST" || method == "PUT") {
			ep.Schema = op.RequestBody
		}
	}
}

// buildOperation normalizes one verb entry of a path item
func (b *Builder) buildOperation(method, template string, raw map[string]interface{}) *Operation {
	op := &Operation{
		Path:         template,
		Method:       method,
		IsCollection: !EndsInParam(template),
	}

	if id, ok := raw["operationId"].(string); ok && id != "" {
		op.OperationID = id
	} else {
		op.OperationID = GenerateOperationID(method, template)
	}
	if summary, ok := raw["summary"].(string); ok {
		op.Summary = summary
	}
	if description, ok := raw["description"].(string); ok {
		op.Description = description
	}
	if params, ok := raw["parameters"].([]interface{}); ok {
		op.Parameters = params
	}
	if responses, ok := raw["responses"].(map[string]interface{}); ok {
		op.Responses = responses
	}
	op.RequestBody = b.requestBodySchema(raw)

	return op
}

// requestBodySchema extracts and resolves the JSON request body schema of an
// operation, if it declares one
func (b *Builder) requestBodySchema(raw map[string]interface{}) map[string]interface{} {
	body, ok := raw["requestBody"].(map[string]interface{})
	if !ok {
		return nil
	}
	content, ok := body["content"].(map[string]interface{})
	if !ok {
		return nil
	}
	media, ok := content["application/json"].(map[string]interface{})
	if !ok {
		// Fall back to the first declared content type
		for _, v := range content {
			if m, ok := v.(map[string]interface{}); ok {
				media = m
				break
			}
		}
		if media == nil {
			return nil
		}
	}
	node, ok := media["schema"].(map[string]interface{})
	if !ok {
		return nil
	}
	return b.resolver.Resolve(node)
}
