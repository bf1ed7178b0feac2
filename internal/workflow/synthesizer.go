package workflow

import (
	"fmt"

	"auto-api-agent/internal/endpoint"
	"auto-api-agent/internal/sample"
)

// serverManagedFields are populated by the backend and excluded from
// synthesized request payloads
var serverManagedFields = []string{"id", "createdAt", "updatedAt"}

// Synthesizer assembles CRUD workflows from the endpoint registry
type Synthesizer struct {
	registry endpoint.Registry
	samples  *sample.Synthesizer
}

// NewSynthesizer creates a new instance of Synthesizer
func NewSynthesizer(registry endpoint.Registry, samples *sample.Synthesizer) *Synthesizer {
	return &Synthesizer{
		registry: registry,
		samples:  samples,
	}
}

// SynthesizeAll derives one CRUD workflow per eligible endpoint, keyed by
// workflow name
func (s *Synthesizer) SynthesizeAll() map[string]*Workflow {
	workflows := make(map[string]*Workflow)
	for _, name := range s.registry.Names() {
		if wf := s.synthesize(s.registry[name]); wf != nil {
			workflows[wf.Name] = wf
		}
	}
	return workflows
}

// synthesize builds the workflow for one endpoint, or nil when the endpoint
// does not expose the full list/get/create/delete quartet
func (s *Synthesizer) synthesize(ep *endpoint.Endpoint) *Workflow {
	required := []endpoint.OperationKey{
		endpoint.OpGetCollection,
		endpoint.OpGet,
		endpoint.OpPost,
		endpoint.OpDelete,
	}
	for _, key := range required {
		if _, ok := ep.Operations[key]; !ok {
			return nil
		}
	}

	singular := endpoint.Singularize(ep.Name)
	createdKey := "created_" + singular

	payload := s.payloadFor(ep.Schema, ep.Name)
	deps := sample.AnalyzeDependencies(payload)

	var steps []Step

	// Dependency-fetch steps, one per distinct foreign-key target
	for _, dep := range sample.DedupeByTarget(deps) {
		steps = append(steps, Step{
			Action:      "list_" + dep.TargetEndpoint,
			Description: fmt.Sprintf("Fetch existing %s to satisfy foreign key references", dep.TargetEndpoint),
			Args: map[string]interface{}{
				KeySaveToContext: "existing_" + dep.TargetEndpoint,
			},
		})
	}

	// Create
	createArgs := make(map[string]interface{}, len(payload)+3)
	for field, value := range payload {
		createArgs[field] = value
	}
	createArgs[KeyData] = payload
	if fks := sample.DedupeByMarker(deps); len(fks) > 0 {
		createArgs[KeyDynamicForeignKeys] = fks
	}
	createArgs[KeySaveToContext] = createdKey
	steps = append(steps, Step{
		Action:      "create_" + singular,
		Description: fmt.Sprintf("Create a new %s with sample data", singular),
		Args:        createArgs,
	})

	// List, as a verification step
	steps = append(steps, Step{
		Action:      "list_" + ep.Name,
		Description: fmt.Sprintf("List all %s to verify the new %s appears", ep.Name, singular),
	})

	// Get
	steps = append(steps, Step{
		Action:      "get_" + singular,
		Description: fmt.Sprintf("Fetch the created %s by its ID", singular),
		Args: map[string]interface{}{
			KeyFromContext: createdKey,
		},
	})

	// Update, only when PUT or PATCH exists and the update payload carries at
	// least one field beyond the raw-data wrapper
	if step, ok := s.updateStep(ep, singular, createdKey); ok {
		steps = append(steps, step)
	}

	// Delete
	steps = append(steps, Step{
		Action:      "delete_" + singular,
		Description: fmt.Sprintf("Delete the created %s", singular),
		Args: map[string]interface{}{
			KeyFromContext: createdKey,
		},
	})

	return &Workflow{
		Name:        ep.Name + "_crud_workflow",
		Description: fmt.Sprintf("Complete CRUD lifecycle for %s: create a %s, verify it, update it when supported, then delete it", ep.Name, singular),
		Steps:       steps,
	}
}

// updateStep builds the conditional update step. PUT is preferred over PATCH;
// the step action matches the operation that is actually present.
func (s *Synthesizer) updateStep(ep *endpoint.Endpoint, singular, createdKey string) (Step, bool) {
	key := endpoint.OpPut
	action := "update_" + singular
	op, ok := ep.Operations[key]
	if !ok {
		key = endpoint.OpPatch
		action = "patch_" + singular
		op, ok = ep.Operations[key]
	}
	if !ok {
		return Step{}, false
	}

	schema := op.RequestBody
	if schema == nil {
		schema = ep.Schema
	}
	payload := s.payloadFor(schema, ep.Name)
	if len(payload) == 0 {
		return Step{}, false
	}

	args := make(map[string]interface{}, len(payload)+2)
	for field, value := range payload {
		args[field] = value
	}
	args[KeyData] = payload
	args[KeyFromContext] = createdKey

	return Step{
		Action:      action,
		Description: fmt.Sprintf("Update the created %s with new sample data", singular),
		Args:        args,
	}, true
}

// payloadFor synthesizes a request payload for the given schema, dropping
// server-managed fields
func (s *Synthesizer) payloadFor(schema map[string]interface{}, endpointName string) map[string]interface{} {
	payload := s.samples.Object(schema, endpointName)
	for _, field := range serverManagedFields {
		delete(payload, field)
	}
	return payload
}
