package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	defaultOllamaBaseURL = "http://localhost:11434"
	defaultOllamaModel   = "llama3.1"
)

// OllamaBackend handles completions via an Ollama-compatible local
// inference server.
type OllamaBackend struct {
	baseURL string
	model   string
	client  *http.Client
}

// OllamaOption configures an OllamaBackend.
type OllamaOption func(*OllamaBackend)

// WithOllamaBaseURL sets the inference server URL.
func WithOllamaBaseURL(url string) OllamaOption {
	return func(b *OllamaBackend) { b.baseURL = strings.TrimRight(url, "/") }
}

// WithOllamaModel sets the model name.
func WithOllamaModel(model string) OllamaOption {
	return func(b *OllamaBackend) { b.model = model }
}

// NewOllamaBackend creates a local completion backend that talks to an
// Ollama-compatible HTTP endpoint. Defaults to localhost:11434 with
// llama3.1.
func NewOllamaBackend(opts ...OllamaOption) *OllamaBackend {
	b := &OllamaBackend{
		baseURL: defaultOllamaBaseURL,
		model:   defaultOllamaModel,
		client:  &http.Client{Timeout: 120 * time.Second},
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

type ollamaMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ollamaChatRequest struct {
	Model    string          `json:"model"`
	Messages []ollamaMessage `json:"messages"`
	Stream   bool            `json:"stream"`
}

type ollamaChatResponse struct {
	Message ollamaMessage `json:"message"`
}

// Name implements Backend.
func (b *OllamaBackend) Name() string { return "ollama" }

// Complete implements Backend.
func (b *OllamaBackend) Complete(ctx context.Context, system, user string) (string, error) {
	req := ollamaChatRequest{
		Model: b.model,
		Messages: []ollamaMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Stream: false,
	}

	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", b.baseURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := b.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("local completion request failed: %w", err)
	}

	respBody, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("local completion error (%d): %s", resp.StatusCode, string(respBody))
	}

	var chatResp ollamaChatResponse
	if err := json.Unmarshal(respBody, &chatResp); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	if chatResp.Message.Content == "" {
		return "", fmt.Errorf("no completion returned")
	}

	return chatResp.Message.Content, nil
}
