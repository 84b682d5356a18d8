package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.ApplyDefaults()

	assert.Equal(t, 0.65, cfg.Engine.ResolveThreshold)
	assert.Equal(t, 5, cfg.Engine.RetrievalLimit)
	assert.Equal(t, 4, cfg.Engine.Concurrency)
	assert.Equal(t, "artifacts.db", cfg.Artifacts.Path)
	assert.NotEmpty(t, cfg.Intent.Components)
}

func TestApplyEnv_OverridesFileValues(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "openai")
	t.Setenv("LLM_MODEL", "gpt-4o")
	t.Setenv("ARTIFACTS_PATH", "/data/artifacts.db")
	t.Setenv("MEMGRAPH_URI", "bolt://graph:7687")

	cfg := &Config{}
	cfg.ApplyDefaults()
	cfg.LLM.Provider = "ollama"
	cfg.ApplyEnv()

	assert.Equal(t, "openai", cfg.LLM.Provider)
	assert.Equal(t, "gpt-4o", cfg.LLM.Model)
	assert.Equal(t, "/data/artifacts.db", cfg.Artifacts.Path)
	assert.Equal(t, "bolt://graph:7687", cfg.Memgraph.URI)
}

func TestApplyEnv_UnsetVarsKeepFileValues(t *testing.T) {
	t.Setenv("LLM_MODEL", "")

	cfg := &Config{}
	cfg.ApplyDefaults()
	cfg.LLM.Model = "from-file"
	cfg.ApplyEnv()

	assert.Equal(t, "from-file", cfg.LLM.Model)
}
