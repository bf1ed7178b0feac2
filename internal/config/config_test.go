package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaultsWhenFileAbsent(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 30, cfg.HTTP.Timeout)
	assert.Equal(t, 3, cfg.HTTP.Retry.Attempts)
	assert.Equal(t, 1, cfg.HTTP.Retry.Delay)
	assert.Equal(t, "memory", cfg.ContextStore.Backend)
	assert.Equal(t, 256, cfg.ContextStore.MaxEntries)
	assert.Equal(t, "gpt-4o-mini", cfg.LLM.Model)
	assert.Equal(t, 256, cfg.LLM.MaxTokens)
	assert.Equal(t, "logs", cfg.Logging.Dir)
	assert.Equal(t, "reports", cfg.Reporting.OutputDir)
}

func TestLoadConfigFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte(`
spec:
  file: openapi.json
environment:
  base_url: http://localhost:8080
  auth:
    type: bearer
    token: file-token
http:
  timeout: 10
context_store:
  backend: sql
  database:
    type: postgres
    host: db.internal
    port: 5432
    name: agent
llm:
  enabled: true
  temperature: 0.4
`)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "openapi.json", cfg.Spec.File)
	assert.Equal(t, "http://localhost:8080", cfg.Environment.BaseURL)
	assert.Equal(t, "file-token", cfg.Environment.Auth.Token)
	assert.Equal(t, 10, cfg.HTTP.Timeout)
	assert.Equal(t, "sql", cfg.ContextStore.Backend)
	assert.Equal(t, "postgres", cfg.ContextStore.Database.Type)
	assert.True(t, cfg.LLM.Enabled)
	assert.Equal(t, 0.4, cfg.LLM.Temperature)

	// Absent values still get defaults
	assert.Equal(t, 3, cfg.HTTP.Retry.Attempts)
}

func TestLoadConfigEnvOverridesSecrets(t *testing.T) {
	t.Setenv("AUTH_TOKEN", "env-token")
	t.Setenv("OPENAI_API_KEY", "env-key")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "env-token", cfg.Environment.Auth.Token)
	assert.Equal(t, "env-key", cfg.LLM.APIKey)
}

func TestLoadConfigRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("spec: [not: closed"), 0o644))

	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file")
}
