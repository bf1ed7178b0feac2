package server

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"auto-api-agent/internal/config"
	"auto-api-agent/internal/contextstore"
	"auto-api-agent/internal/document"
	"auto-api-agent/internal/logger"
)

const blogDoc = `{
  "openapi": "3.0.3",
  "info": {"title": "Blog API", "version": "1.0.0"},
  "paths": {
    "/users": {
      "get": {"responses": {"200": {"description": "OK"}}},
      "post": {
        "requestBody": {"content": {"application/json": {"schema": {"$ref": "#/components/schemas/User"}}}},
        "responses": {"201": {"description": "Created"}}
      }
    },
    "/users/{userId}": {
      "get": {"responses": {"200": {"description": "OK"}}},
      "delete": {"responses": {"204": {"description": "No Content"}}}
    },
    "/posts": {
      "get": {"responses": {"200": {"description": "OK"}}},
      "post": {
        "requestBody": {"content": {"application/json": {"schema": {"$ref": "#/components/schemas/Post"}}}},
        "responses": {"201": {"description": "Created"}}
      }
    },
    "/posts/{postId}": {
      "get": {"responses": {"200": {"description": "OK"}}},
      "delete": {"responses": {"204": {"description": "No Content"}}}
    }
  },
  "components": {
    "schemas": {
      "User": {
        "type": "object",
        "required": ["name"],
        "properties": {
          "id": {"type": "string", "format": "uuid", "readOnly": true},
          "name": {"type": "string"}
        }
      },
      "Post": {
        "type": "object",
        "required": ["title", "authorId"],
        "properties": {
          "id": {"type": "string", "format": "uuid", "readOnly": true},
          "title": {"type": "string"},
          "authorId": {"type": "string", "format": "uuid"}
        }
      }
    }
  }
}`

func testSetup(t *testing.T) (*config.Config, *document.Document, *logger.Logger) {
	t.Helper()
	doc, err := document.Load([]byte(blogDoc))
	require.NoError(t, err)

	log, err := logger.NewLogger(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { log.Close() })

	cfg, err := config.LoadConfig(t.TempDir() + "/none.yaml")
	require.NoError(t, err)
	return cfg, doc, log
}

func TestBuildPipeline(t *testing.T) {
	cfg, doc, log := testSetup(t)

	pipeline, err := BuildPipeline(cfg, doc, log)
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"posts", "users"}, pipeline.Registry.Names())

	names := make(map[string]bool)
	for _, def := range pipeline.Defs {
		names[def.Name] = true
	}
	for _, expected := range []string{
		"list_users", "get_user", "create_user", "delete_user",
		"list_posts", "get_post", "create_post", "delete_post",
	} {
		assert.True(t, names[expected], "missing tool %s", expected)
	}

	require.Contains(t, pipeline.Workflows, "posts_crud_workflow")
	require.Contains(t, pipeline.Workflows, "users_crud_workflow")

	// The posts workflow resolved its author dependency against users
	posts := pipeline.Workflows["posts_crud_workflow"]
	assert.Equal(t, "list_users", posts.Steps[0].Action)
}

func TestNewStoreBackends(t *testing.T) {
	cfg, _, log := testSetup(t)

	store, err := NewStore(cfg, log)
	require.NoError(t, err)
	_, ok := store.(*contextstore.MemoryStore)
	assert.True(t, ok)

	cfg.ContextStore.Backend = "etcd"
	_, err = NewStore(cfg, log)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported context store backend")
}

func TestNewWiresEverything(t *testing.T) {
	cfg, doc, log := testSetup(t)
	cfg.Environment.BaseURL = "http://localhost:8080"

	srv, err := New(cfg, doc, log)
	require.NoError(t, err)
	require.NotNil(t, srv.mcp)
	assert.NotEmpty(t, srv.pipeline.Defs)
	assert.NotNil(t, srv.dispatch)
}

func TestWorkflowToolSpecs(t *testing.T) {
	list := listWorkflowsSpec()
	assert.Equal(t, "list_workflows", list.Name)

	run := runWorkflowSpec()
	assert.Equal(t, "run_workflow", run.Name)
	require.Contains(t, run.InputSchema.Properties, "workflowName")
	assert.Contains(t, run.InputSchema.Required, "workflowName")
	assert.Contains(t, run.InputSchema.Properties, "stopOnError")
}
