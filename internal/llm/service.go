// Package llm wraps the text generation backends used to write SQL, summarize
// results and decompose questions.
package llm

import (
	"context"
	"errors"
	"net/http"

	"github.com/AdithyaSM31/FloatChart-AI/internal/config"
)

// ErrNotConfigured is returned when no credential or endpoint is configured.
var ErrNotConfigured = errors.New("text generation service not configured")

// Prompt is a structured prompt: an optional system instruction plus the user turn.
type Prompt struct {
	System string
	User   string
}

// Generator maps a prompt to generated text.
type Generator interface {
	Generate(ctx context.Context, prompt Prompt) (string, error)
}

// Embedder computes a vector embedding for a piece of text.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Client is a full text generation backend.
type Client interface {
	Generator
	Embedder
	ListModels(ctx context.Context) ([]string, error)
	Configured() bool
	Provider() string
	Model() string
	BaseURL() string
}

// NewClient creates the backend selected by cfg.Provider.
func NewClient(cfg config.LLMConfig) Client {
	httpClient := &http.Client{Timeout: cfg.Timeout}
	if cfg.Provider == config.ProviderOllama {
		return NewOllamaService(cfg.OllamaBaseURL, cfg.OllamaModel, cfg.EmbeddingModel, httpClient)
	}
	return NewOpenAIService(cfg.APIKey, cfg.BaseURL, cfg.Model, cfg.EmbeddingModel, httpClient)
}
