package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, "server:\n  port: \"9000\"\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, 1000, cfg.Cache.Capacity)
	assert.InDelta(t, 0.8, cfg.Cache.SimilarityThreshold, 1e-9)
	assert.InDelta(t, 0.7, cfg.LLM.Generation.Temperature, 1e-9)
	assert.Equal(t, 1000, cfg.LLM.Generation.MaxTokens)
	assert.Equal(t, DefaultDegradedPrefix, cfg.Cache.DegradedPrefix)
	assert.Empty(t, cfg.Database.MySQL.DSN)
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
cache:
  capacity: 5
  similarity_threshold: 0.5
llm:
  model: "deepseek-chat"
  generation:
    temperature: 0.2
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.Cache.Capacity)
	assert.InDelta(t, 0.5, cfg.Cache.SimilarityThreshold, 1e-9)
	assert.Equal(t, "deepseek-chat", cfg.LLM.Model)
	assert.InDelta(t, 0.2, cfg.LLM.Generation.Temperature, 1e-9)
	assert.Equal(t, 1000, cfg.LLM.Generation.MaxTokens)
}

func TestLoadEnvOverride(t *testing.T) {
	path := writeConfig(t, "llm:\n  api_key: \"from-file\"\n")
	t.Setenv("IRIS_LLM_API_KEY", "from-env")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.LLM.APIKey)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
