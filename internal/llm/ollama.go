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

// OllamaService calls a local Ollama server.
type OllamaService struct {
	baseURL        string
	model          string
	embeddingModel string
	client         *http.Client
}

func NewOllamaService(baseURL, model, embeddingModel string, httpClient *http.Client) *OllamaService {
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	if model == "" {
		model = "qwen3-vl:2b"
	}
	if embeddingModel == "" {
		embeddingModel = "nomic-embed-text"
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &OllamaService{
		baseURL:        strings.TrimRight(baseURL, "/"),
		model:          model,
		embeddingModel: embeddingModel,
		client:         httpClient,
	}
}

func (s *OllamaService) Configured() bool { return s.baseURL != "" }
func (s *OllamaService) Provider() string { return "ollama" }
func (s *OllamaService) Model() string    { return s.model }
func (s *OllamaService) BaseURL() string  { return s.baseURL }

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	System string `json:"system,omitempty"`
	Stream bool   `json:"stream"`
}

type generateResponse struct {
	Response string `json:"response"`
}

type embeddingRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

type embeddingResponse struct {
	Embedding []float32 `json:"embedding"`
}

type tagsResponse struct {
	Models []struct {
		Name string `json:"name"`
	} `json:"models"`
}

// Generate calls /api/generate
func (s *OllamaService) Generate(ctx context.Context, prompt Prompt) (string, error) {
	var genResp generateResponse
	err := s.do(ctx, http.MethodPost, "/api/generate", generateRequest{
		Model:  s.model,
		Prompt: prompt.User,
		System: prompt.System,
		Stream: false,
	}, &genResp)
	if err != nil {
		return "", err
	}
	return genResp.Response, nil
}

// Embed calls /api/embeddings
func (s *OllamaService) Embed(ctx context.Context, text string) ([]float32, error) {
	var embResp embeddingResponse
	if err := s.do(ctx, http.MethodPost, "/api/embeddings", embeddingRequest{Model: s.embeddingModel, Prompt: text}, &embResp); err != nil {
		return nil, err
	}
	if len(embResp.Embedding) == 0 {
		return nil, fmt.Errorf("ollama returned an empty embedding")
	}
	return embResp.Embedding, nil
}

// ListModels calls /api/tags
func (s *OllamaService) ListModels(ctx context.Context) ([]string, error) {
	var tags tagsResponse
	if err := s.do(ctx, http.MethodGet, "/api/tags", nil, &tags); err != nil {
		return nil, err
	}
	names := make([]string, 0, len(tags.Models))
	for _, m := range tags.Models {
		names = append(names, m.Name)
	}
	return names, nil
}

func (s *OllamaService) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("ollama request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ollama API returned status: %d", resp.StatusCode)
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	return json.Unmarshal(respBody, out)
}
