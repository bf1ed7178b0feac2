package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"auto-api-agent/internal/document"
	"auto-api-agent/internal/endpoint"
	"auto-api-agent/internal/sample"
	"auto-api-agent/internal/schema"
	"auto-api-agent/internal/workflow"
)

func TestPublishedDocumentEndpointNames(t *testing.T) {
	doc := &document.Document{Raw: openAPIDocument()}

	registry, err := endpoint.NewBuilder(doc, schema.NewResolver(doc.Raw, nil)).Build()
	require.NoError(t, err)

	assert.Equal(t, []string{"posts", "users"}, registry.Names(),
		"resource paths sit at the root so names match foreign-key targets")
	require.True(t, registry.Has("users"))
}

func TestPublishedDocumentDrivesForeignKeyResolution(t *testing.T) {
	doc := &document.Document{Raw: openAPIDocument()}

	registry, err := endpoint.NewBuilder(doc, schema.NewResolver(doc.Raw, nil)).Build()
	require.NoError(t, err)

	samples := sample.NewSynthesizer(registry, nil)
	workflows := workflow.NewSynthesizer(registry, samples).SynthesizeAll()

	wf, ok := workflows["posts_crud_workflow"]
	require.True(t, ok)

	// The authorId foreign key is detected against the users endpoint, so
	// the workflow opens by caching existing users
	first := wf.Steps[0]
	assert.Equal(t, "list_users", first.Action)
	assert.Equal(t, "existing_users", first.Args[workflow.KeySaveToContext])

	var create *workflow.Step
	for i := range wf.Steps {
		if wf.Steps[i].Action == "create_post" {
			create = &wf.Steps[i]
		}
	}
	require.NotNil(t, create)
	assert.Equal(t, "DYNAMIC_USERS_ID", create.Args["authorId"])
}
