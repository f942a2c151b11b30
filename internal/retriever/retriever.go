// Package retriever looks up reference text relevant to a question.
package retriever

import (
	"context"
	"errors"
)

// ErrUnavailable is returned when the vector index or embedding model is not loaded.
var ErrUnavailable = errors.New("vector index not available")

// Retriever returns up to k ranked snippets for free text.
type Retriever interface {
	Retrieve(ctx context.Context, text string) ([]string, error)
	// Status reports nil when the backing index is reachable.
	Status(ctx context.Context) error
}
