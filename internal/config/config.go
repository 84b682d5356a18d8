package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

type IntentPrompts struct {
	Components string `toml:"components"`
}

type LLMConfig struct {
	Provider       string `toml:"provider"`
	Model          string `toml:"model"`
	EmbeddingModel string `toml:"embedding_model"`
	APIKey         string `toml:"api_key"`
	BaseURL        string `toml:"base_url"`
}

type MemgraphConfig struct {
	URI      string `toml:"uri"`
	User     string `toml:"user"`
	Password string `toml:"password"`
}

type ArtifactsConfig struct {
	Path string `toml:"path"`
}

type EngineConfig struct {
	ResolveThreshold float64 `toml:"resolve_threshold"`
	RetrievalLimit   int     `toml:"retrieval_limit"`
	Concurrency      int     `toml:"concurrency"`
}

type Config struct {
	LLM       LLMConfig       `toml:"llm"`
	Memgraph  MemgraphConfig  `toml:"memgraph"`
	Artifacts ArtifactsConfig `toml:"artifacts"`
	Engine    EngineConfig    `toml:"engine"`
	Intent    IntentPrompts   `toml:"intent"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}

	cfg.ApplyDefaults()
	return &cfg, nil
}

// ApplyDefaults fills unset engine and prompt values.
func (c *Config) ApplyDefaults() {
	if c.Engine.ResolveThreshold == 0 {
		c.Engine.ResolveThreshold = 0.65
	}
	if c.Engine.RetrievalLimit == 0 {
		c.Engine.RetrievalLimit = 5
	}
	if c.Engine.Concurrency == 0 {
		c.Engine.Concurrency = 4
	}
	if c.Artifacts.Path == "" {
		c.Artifacts.Path = "artifacts.db"
	}
	if c.Intent.Components == "" {
		c.Intent.Components = DefaultIntentPrompt
	}
}

// ApplyEnv layers environment-variable overrides onto the config.
// Env vars win over file values.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("LLM_PROVIDER"); v != "" {
		c.LLM.Provider = v
	}
	if v := os.Getenv("LLM_MODEL"); v != "" {
		c.LLM.Model = v
	}
	if v := os.Getenv("LLM_EMBEDDING_MODEL"); v != "" {
		c.LLM.EmbeddingModel = v
	}
	if v := os.Getenv("LLM_API_KEY"); v != "" {
		c.LLM.APIKey = v
	}
	if v := os.Getenv("LLM_BASE_URL"); v != "" {
		c.LLM.BaseURL = v
	}
	if v := os.Getenv("ARTIFACTS_PATH"); v != "" {
		c.Artifacts.Path = v
	}
	if v := os.Getenv("MEMGRAPH_URI"); v != "" {
		c.Memgraph.URI = v
	}
	if v := os.Getenv("MEMGRAPH_USER"); v != "" {
		c.Memgraph.User = v
	}
	if v := os.Getenv("MEMGRAPH_PASSWORD"); v != "" {
		c.Memgraph.Password = v
	}
}

// DefaultIntentPrompt asks the LLM for the structured component list
// the validation boundary expects. %s is the user requirement text.
const DefaultIntentPrompt = `You are an SAP integration-flow architect.
Read the requirement below and list the integration components it needs.

Return ONLY a JSON object of this shape:
{
  "components": [
    {
      "type": "ContentModifier",
      "quantity": 1,
      "explicitly_mentioned": true,
      "adapter_type": "",
      "routing_criteria": "",
      "branch_count": 0,
      "branch_targets": []
    }
  ]
}

Known types: StartEvent, EndEvent, ContentModifier, Router, GroovyScript,
MessageMapping, RequestReply, Filter, Splitter, Aggregator, Enricher,
Sender, Receiver. Keep components in the order the requirement mentions
them. Only a Router may set branch_count and branch_targets.

Requirement:
%s`
