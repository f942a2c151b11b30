// Package indexer fills the vector index with embedded text chunks.
package indexer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/AdithyaSM31/FloatChart-AI/internal/llm"
	"github.com/AdithyaSM31/FloatChart-AI/internal/retriever"
	"github.com/go-openapi/strfmt"
	"github.com/google/uuid"
	"github.com/tmc/langchaingo/textsplitter"
	"github.com/weaviate/weaviate-go-client/v5/weaviate"
	"github.com/weaviate/weaviate/entities/models"
)

const (
	ChunkSize    = 1000
	ChunkOverlap = ChunkSize / 10
)

var separators = []string{"\n\n", "\n", ". ", " ", ""}

// Indexer splits text, embeds each chunk and writes it to a Weaviate class.
type Indexer struct {
	client   *weaviate.Client
	embedder llm.Embedder
	class    string
	splitter textsplitter.TextSplitter
}

func New(client *weaviate.Client, embedder llm.Embedder, class string) *Indexer {
	return &Indexer{
		client:   client,
		embedder: embedder,
		class:    class,
		splitter: textsplitter.NewRecursiveCharacter(
			textsplitter.WithChunkSize(ChunkSize),
			textsplitter.WithChunkOverlap(ChunkOverlap),
			textsplitter.WithSeparators(separators),
		),
	}
}

// Chunks splits text the way Index does.
func (ix *Indexer) Chunks(text string) ([]string, error) {
	chunks, err := ix.splitter.SplitText(text)
	if err != nil {
		return nil, fmt.Errorf("split text: %w", err)
	}
	return chunks, nil
}

// ObjectID derives a stable object ID from the class and chunk text, so
// indexing the same text twice overwrites rather than duplicates.
func ObjectID(class, chunk string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(class+"\x00"+chunk)).String()
}

// EnsureClass creates the class with an external vectorizer if it is missing.
func (ix *Indexer) EnsureClass(ctx context.Context) error {
	if ix.client == nil {
		return retriever.ErrUnavailable
	}
	if _, err := ix.client.Schema().ClassGetter().WithClassName(ix.class).Do(ctx); err == nil {
		return nil
	}

	slog.Info("Creating vector class", "class", ix.class)
	class := &models.Class{
		Class:      ix.class,
		Vectorizer: "none",
		Properties: []*models.Property{
			{Name: retriever.ContentProperty, DataType: []string{"text"}},
			{Name: "source", DataType: []string{"text"}},
		},
	}
	if err := ix.client.Schema().ClassCreator().WithClass(class).Do(ctx); err != nil {
		return fmt.Errorf("create class %s: %w", ix.class, err)
	}
	return nil
}

// Index splits text from source and imports every chunk. It returns the
// number of chunks Weaviate accepted.
func (ix *Indexer) Index(ctx context.Context, source, text string) (int, error) {
	if ix.client == nil || ix.embedder == nil {
		return 0, retriever.ErrUnavailable
	}

	chunks, err := ix.Chunks(text)
	if err != nil {
		return 0, err
	}
	if len(chunks) == 0 {
		slog.Warn("No chunks produced after splitting", "source", source)
		return 0, nil
	}
	slog.Info("Split document into chunks", "source", source, "chunk_count", len(chunks))

	objects := make([]*models.Object, len(chunks))
	for i, chunk := range chunks {
		vector, err := ix.embedder.Embed(ctx, chunk)
		if err != nil {
			if errors.Is(err, llm.ErrNotConfigured) {
				return 0, fmt.Errorf("%w: embedding model not configured", retriever.ErrUnavailable)
			}
			return 0, fmt.Errorf("embed chunk %d: %w", i+1, err)
		}
		objects[i] = &models.Object{
			Class:  ix.class,
			ID:     strfmt.UUID(ObjectID(ix.class, chunk)),
			Vector: vector,
			Properties: map[string]interface{}{
				retriever.ContentProperty: chunk,
				"source":                  fmt.Sprintf("%s_part_%d", source, i+1),
			},
		}
	}

	resp, err := ix.client.Batch().ObjectsBatcher().WithObjects(objects...).Do(ctx)
	if err != nil {
		return 0, fmt.Errorf("batch import: %w", err)
	}

	created := 0
	for _, item := range resp {
		if item.Result != nil && item.Result.Status != nil && *item.Result.Status == "SUCCESS" {
			created++
			continue
		}
		if item.Result != nil && item.Result.Errors != nil {
			for _, e := range item.Result.Errors.Error {
				slog.Warn("Error in Weaviate batch item", "source", source, "error", e.Message)
			}
		}
	}
	return created, nil
}
