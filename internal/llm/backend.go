// Package llm provides the completion backends used to generate
// assignment overviews and plans. Three interchangeable implementations
// exist: OpenAI, Google Gemini, and a local Ollama-compatible server.
// The backend is fixed at construction; calls are synchronous, unstreamed
// and unretried, so transport failures surface directly to the caller.
package llm

import (
	"context"
	"fmt"

	"github.com/MateusSousaSantos/CanvasAiPlanner/internal/config"
)

// Backend turns a (system instruction, user prompt) pair into generated
// text.
type Backend interface {
	// Complete performs one completion call and returns the generated
	// text. Blocks until the remote call finishes.
	Complete(ctx context.Context, system, user string) (string, error)

	// Name identifies the backend in logs.
	Name() string
}

// New selects a backend from the configuration. An unrecognized selector
// is a configuration error raised here, never deferred to the first call.
func New(cfg *config.Config) (Backend, error) {
	switch cfg.LLM.Backend {
	case "openai":
		return NewOpenAIBackend(cfg.LLM.OpenAIKey, cfg.LLM.Model), nil
	case "gemini":
		return NewGeminiBackend(cfg.LLM.GeminiKey, cfg.LLM.Model), nil
	case "ollama":
		var opts []OllamaOption
		if cfg.LLM.OllamaURL != "" {
			opts = append(opts, WithOllamaBaseURL(cfg.LLM.OllamaURL))
		}
		if cfg.LLM.Model != "" {
			opts = append(opts, WithOllamaModel(cfg.LLM.Model))
		}
		return NewOllamaBackend(opts...), nil
	default:
		return nil, fmt.Errorf("unknown llm backend %q (expected openai, gemini or ollama)", cfg.LLM.Backend)
	}
}
