package config

import (
	"fmt"
	"time"
)

// Config is the full CanvasAiPlanner configuration. It is built once at
// process start and passed into each collaborator's constructor; nothing
// reads the environment after Load returns.
type Config struct {
	Version string `yaml:"version" mapstructure:"version"`

	Canvas Canvas `yaml:"canvas" mapstructure:"canvas"`
	Notion Notion `yaml:"notion" mapstructure:"notion"`
	LLM    LLM    `yaml:"llm" mapstructure:"llm"`
	Sync   Sync   `yaml:"sync" mapstructure:"sync"`
}

// Canvas configures the assignment source.
type Canvas struct {
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
	Token   string `yaml:"token" mapstructure:"token"`
}

// Notion configures the task store.
type Notion struct {
	Token      string `yaml:"token" mapstructure:"token"`
	DatabaseID string `yaml:"database_id" mapstructure:"database_id"`
}

// LLM configures the completion backend.
type LLM struct {
	// Backend selects the completion backend: "openai", "gemini" or "ollama".
	Backend string `yaml:"backend" mapstructure:"backend"`

	OpenAIKey string `yaml:"openai_key" mapstructure:"openai_key"`
	GeminiKey string `yaml:"gemini_key" mapstructure:"gemini_key"`
	OllamaURL string `yaml:"ollama_url" mapstructure:"ollama_url"`
	Model     string `yaml:"model" mapstructure:"model"`
}

// Sync configures the synchronizer.
type Sync struct {
	// RequestDelay is the fixed pause between successive remote calls in
	// the per-assignment loop.
	RequestDelay time.Duration `yaml:"request_delay" mapstructure:"request_delay"`

	// SnapshotPath is the JSON snapshot cache used by the daily job.
	SnapshotPath string `yaml:"snapshot_path" mapstructure:"snapshot_path"`
}

// Validate checks that every required field is present and the backend
// selector is one of the known values. Called once at startup; jobs never
// see a half-valid config.
func (c *Config) Validate() error {
	if c.Canvas.BaseURL == "" {
		return fmt.Errorf("canvas.base_url is required (CANVAS_BASE_URL)")
	}
	if c.Canvas.Token == "" {
		return fmt.Errorf("canvas.token is required (CANVAS_TOKEN)")
	}
	if c.Notion.Token == "" {
		return fmt.Errorf("notion.token is required (NOTION_TOKEN)")
	}
	if c.Notion.DatabaseID == "" {
		return fmt.Errorf("notion.database_id is required (NOTION_DATABASE_ID)")
	}

	switch c.LLM.Backend {
	case "openai":
		if c.LLM.OpenAIKey == "" {
			return fmt.Errorf("llm.openai_key is required for the openai backend (OPENAI_API_KEY)")
		}
	case "gemini":
		if c.LLM.GeminiKey == "" {
			return fmt.Errorf("llm.gemini_key is required for the gemini backend (GEMINI_API_KEY)")
		}
	case "ollama":
		// Local backend needs no credentials; URL has a default.
	default:
		return fmt.Errorf("unknown llm backend %q (expected openai, gemini or ollama)", c.LLM.Backend)
	}

	if c.Sync.RequestDelay < 0 {
		return fmt.Errorf("sync.request_delay must not be negative")
	}

	return nil
}
