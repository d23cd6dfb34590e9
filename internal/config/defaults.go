package config

import (
	"os"
	"path/filepath"
	"time"
)

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Version: "1",
		LLM: LLM{
			Backend:   "openai",
			OllamaURL: "http://localhost:11434",
		},
		Sync: Sync{
			RequestDelay: time.Second,
			SnapshotPath: defaultSnapshotPath(),
		},
	}
}

func defaultSnapshotPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "snapshot.json"
	}
	return filepath.Join(home, ".coursepilot", "snapshot.json")
}

// ConfigPath returns the path to the user config file.
func ConfigPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".coursepilot", "config.yaml")
}
