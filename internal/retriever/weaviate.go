package retriever

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/AdithyaSM31/FloatChart-AI/internal/llm"
	"github.com/weaviate/weaviate-go-client/v5/weaviate"
	"github.com/weaviate/weaviate-go-client/v5/weaviate/graphql"
	"github.com/weaviate/weaviate/entities/models"
)

// ContentProperty is the Weaviate property holding the snippet text.
const ContentProperty = "content"

// WeaviateRetriever runs near-vector searches against a Weaviate class.
type WeaviateRetriever struct {
	client   *weaviate.Client
	embedder llm.Embedder
	class    string
	topK     int
}

// NewWeaviateClient builds a client for rawURL. An empty or invalid URL
// yields a nil client, which leaves retrieval unavailable.
func NewWeaviateClient(rawURL string) *weaviate.Client {
	rawURL = strings.Trim(rawURL, "\"' ")
	if rawURL == "" {
		slog.Warn("WEAVIATE_URL not set, vector retrieval disabled")
		return nil
	}

	parsedURL, err := url.Parse(rawURL)
	if err != nil || parsedURL.Scheme == "" || parsedURL.Host == "" {
		slog.Warn("WEAVIATE_URL is invalid, vector retrieval disabled", "url", rawURL, "error", err)
		return nil
	}

	client, err := weaviate.NewClient(weaviate.Config{
		Host:   parsedURL.Host,
		Scheme: parsedURL.Scheme,
	})
	if err != nil {
		slog.Error("Could not create Weaviate client", "error", err)
		return nil
	}
	return client
}

func NewWeaviateRetriever(client *weaviate.Client, embedder llm.Embedder, class string, topK int) *WeaviateRetriever {
	if topK <= 0 {
		topK = 3
	}
	return &WeaviateRetriever{
		client:   client,
		embedder: embedder,
		class:    class,
		topK:     topK,
	}
}

// Retrieve implements Retriever
func (r *WeaviateRetriever) Retrieve(ctx context.Context, text string) ([]string, error) {
	if r.client == nil || r.embedder == nil {
		return nil, ErrUnavailable
	}

	vector, err := r.embedder.Embed(ctx, text)
	if err != nil {
		if errors.Is(err, llm.ErrNotConfigured) {
			return nil, fmt.Errorf("%w: embedding model not configured", ErrUnavailable)
		}
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	nearVector := r.client.GraphQL().NearVectorArgBuilder().
		WithVector(vector)

	result, err := r.client.GraphQL().Get().
		WithClassName(r.class).
		WithFields(graphql.Field{Name: ContentProperty}).
		WithNearVector(nearVector).
		WithLimit(r.topK).
		Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("weaviate search failed: %w", err)
	}

	return parseSnippets(result, r.class)
}

// Status implements Retriever
func (r *WeaviateRetriever) Status(ctx context.Context) error {
	if r.client == nil {
		return ErrUnavailable
	}
	ready, err := r.client.Misc().ReadyChecker().Do(ctx)
	if err != nil {
		return fmt.Errorf("weaviate health check failed: %w", err)
	}
	if !ready {
		return fmt.Errorf("weaviate is not ready")
	}
	if r.embedder == nil {
		return fmt.Errorf("%w: no embedding model", ErrUnavailable)
	}
	return nil
}

type getResponse struct {
	Get map[string][]struct {
		Content string `json:"content"`
	} `json:"Get"`
}

func parseSnippets(resp *models.GraphQLResponse, class string) ([]string, error) {
	if resp == nil {
		return nil, fmt.Errorf("nil GraphQL response")
	}
	if len(resp.Errors) > 0 {
		msgs := make([]string, 0, len(resp.Errors))
		for _, e := range resp.Errors {
			if e != nil {
				msgs = append(msgs, e.Message)
			}
		}
		return nil, fmt.Errorf("weaviate query errors: %s", strings.Join(msgs, "; "))
	}

	respBytes, err := json.Marshal(resp.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal GraphQL response data: %w", err)
	}
	var parsed getResponse
	if err := json.Unmarshal(respBytes, &parsed); err != nil {
		return nil, fmt.Errorf("failed to unmarshal GraphQL response: %w", err)
	}

	snippets := []string{}
	for _, obj := range parsed.Get[class] {
		if content := strings.TrimSpace(obj.Content); content != "" {
			snippets = append(snippets, content)
		}
	}
	return snippets, nil
}
