package llm

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// OpenAIService talks to any OpenAI-compatible chat completion API
// (OpenAI, Groq, Gemini's OpenAI endpoint).
type OpenAIService struct {
	client         *openai.Client
	model          string
	embeddingModel string
	baseURL        string
}

// NewOpenAIService returns a service that reports ErrNotConfigured from every
// call when apiKey is empty.
func NewOpenAIService(apiKey, baseURL, model, embeddingModel string, httpClient *http.Client) *OpenAIService {
	s := &OpenAIService{
		model:          model,
		embeddingModel: embeddingModel,
		baseURL:        baseURL,
	}
	if apiKey == "" {
		slog.Warn("LLM API key not set, text generation will use deterministic fallbacks")
		return s
	}

	conf := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		conf.BaseURL = strings.TrimRight(baseURL, "/")
	}
	if httpClient != nil {
		conf.HTTPClient = httpClient
	}
	s.client = openai.NewClientWithConfig(conf)
	s.baseURL = conf.BaseURL
	slog.Info("Initializing OpenAI-compatible client", "model", model, "base_url", conf.BaseURL)
	return s
}

func (s *OpenAIService) Configured() bool { return s.client != nil }
func (s *OpenAIService) Provider() string { return "openai" }
func (s *OpenAIService) Model() string    { return s.model }
func (s *OpenAIService) BaseURL() string  { return s.baseURL }

// Generate implements Generator
func (s *OpenAIService) Generate(ctx context.Context, prompt Prompt) (string, error) {
	if s.client == nil {
		return "", ErrNotConfigured
	}

	messages := make([]openai.ChatCompletionMessage, 0, 2)
	if prompt.System != "" {
		messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: prompt.System})
	}
	messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: prompt.User})

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    s.model,
		Messages: messages,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}
	slog.Debug("Received chat completion", "model", s.model, "finish_reason", resp.Choices[0].FinishReason)
	return resp.Choices[0].Message.Content, nil
}

// Embed implements Embedder
func (s *OpenAIService) Embed(ctx context.Context, text string) ([]float32, error) {
	if s.client == nil {
		return nil, ErrNotConfigured
	}
	resp, err := s.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: []string{text},
		Model: openai.EmbeddingModel(s.embeddingModel),
	})
	if err != nil {
		return nil, fmt.Errorf("embedding request failed: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("embedding response was empty")
	}
	return resp.Data[0].Embedding, nil
}

// ListModels returns the model IDs the endpoint exposes.
func (s *OpenAIService) ListModels(ctx context.Context) ([]string, error) {
	if s.client == nil {
		return nil, ErrNotConfigured
	}
	list, err := s.client.ListModels(ctx)
	if err != nil {
		return nil, fmt.Errorf("list models failed: %w", err)
	}
	ids := make([]string, 0, len(list.Models))
	for _, m := range list.Models {
		ids = append(ids, m.ID)
	}
	return ids, nil
}
