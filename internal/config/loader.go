package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// envBindings maps config keys to the environment variables that override
// them. Tokens are normally supplied via environment (or a .env file)
// rather than the yaml file.
var envBindings = map[string]string{
	"canvas.base_url":    "CANVAS_BASE_URL",
	"canvas.token":       "CANVAS_TOKEN",
	"notion.token":       "NOTION_TOKEN",
	"notion.database_id": "NOTION_DATABASE_ID",
	"llm.backend":        "LLM_BACKEND",
	"llm.openai_key":     "OPENAI_API_KEY",
	"llm.gemini_key":     "GEMINI_API_KEY",
	"llm.ollama_url":     "OLLAMA_URL",
	"llm.model":          "LLM_MODEL",
	"sync.snapshot_path": "SNAPSHOT_PATH",
}

// Load builds the configuration from defaults, the optional user config
// file, and environment variables, in increasing precedence. A .env file
// in the working directory is loaded into the environment first. The
// returned config is validated; an invalid configuration is an error here,
// before any job runs.
func Load() (*Config, error) {
	return load(ConfigPath())
}

func load(path string) (*Config, error) {
	// Best effort: absence of .env is the common case.
	_ = godotenv.Load()

	defaults := DefaultConfig()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	// Viper only surfaces env-bound keys to Unmarshal when the key is
	// known, so every bound key gets a default registered first.
	v.SetDefault("version", defaults.Version)
	v.SetDefault("canvas.base_url", defaults.Canvas.BaseURL)
	v.SetDefault("canvas.token", defaults.Canvas.Token)
	v.SetDefault("notion.token", defaults.Notion.Token)
	v.SetDefault("notion.database_id", defaults.Notion.DatabaseID)
	v.SetDefault("llm.backend", defaults.LLM.Backend)
	v.SetDefault("llm.openai_key", defaults.LLM.OpenAIKey)
	v.SetDefault("llm.gemini_key", defaults.LLM.GeminiKey)
	v.SetDefault("llm.ollama_url", defaults.LLM.OllamaURL)
	v.SetDefault("llm.model", defaults.LLM.Model)
	v.SetDefault("sync.request_delay", defaults.Sync.RequestDelay)
	v.SetDefault("sync.snapshot_path", defaults.Sync.SnapshotPath)

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("binding %s: %w", env, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		// Env-only operation is supported; only a present-but-broken
		// file is fatal.
		if _, statErr := os.Stat(path); statErr == nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}
