package indexer

import (
	"context"
	"strings"
	"testing"

	"github.com/AdithyaSM31/FloatChart-AI/internal/retriever"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectID(t *testing.T) {
	a := ObjectID("ArgoFloatSummary", "Float 2902746 profiled the Arabian Sea.")
	b := ObjectID("ArgoFloatSummary", "Float 2902746 profiled the Arabian Sea.")
	c := ObjectID("OtherClass", "Float 2902746 profiled the Arabian Sea.")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 36)
}

func TestChunks(t *testing.T) {
	ix := New(nil, nil, "ArgoFloatSummary")

	short, err := ix.Chunks("Float 2902746 profiled the Arabian Sea in January 2023.")
	require.NoError(t, err)
	assert.Equal(t, []string{"Float 2902746 profiled the Arabian Sea in January 2023."}, short)

	paragraph := strings.Repeat("Float 2902746 recorded salinity near 36 PSU. ", 40)
	long, err := ix.Chunks(paragraph + "\n\n" + paragraph)
	require.NoError(t, err)
	assert.Greater(t, len(long), 1)
	for _, chunk := range long {
		assert.LessOrEqual(t, len(chunk), ChunkSize)
	}
}

func TestIndex_Unavailable(t *testing.T) {
	ix := New(nil, nil, "ArgoFloatSummary")

	_, err := ix.Index(context.Background(), "summaries.txt", "text")
	assert.ErrorIs(t, err, retriever.ErrUnavailable)
	assert.ErrorIs(t, ix.EnsureClass(context.Background()), retriever.ErrUnavailable)
}
