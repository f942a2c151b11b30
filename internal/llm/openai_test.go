package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAIService_NotConfigured(t *testing.T) {
	s := NewOpenAIService("", "", "gpt-4o-mini", "text-embedding-3-small", nil)

	assert.False(t, s.Configured())

	_, err := s.Generate(context.Background(), Prompt{User: "hi"})
	assert.ErrorIs(t, err, ErrNotConfigured)

	_, err = s.Embed(context.Background(), "hi")
	assert.ErrorIs(t, err, ErrNotConfigured)

	_, err = s.ListModels(context.Background())
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestOpenAIService_Generate(t *testing.T) {
	var got struct {
		Model    string `json:"model"`
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"c1","object":"chat.completion","model":"m","choices":[{"index":0,"message":{"role":"assistant","content":"SELECT 1;"},"finish_reason":"stop"}]}`))
	}))
	defer srv.Close()

	s := NewOpenAIService("test-key", srv.URL+"/v1", "llama-3.3-70b-versatile", "", srv.Client())
	require.True(t, s.Configured())

	out, err := s.Generate(context.Background(), Prompt{System: "be terse", User: "count rows"})
	require.NoError(t, err)
	assert.Equal(t, "SELECT 1;", out)

	assert.Equal(t, "llama-3.3-70b-versatile", got.Model)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, "be terse", got.Messages[0].Content)
	assert.Equal(t, "user", got.Messages[1].Role)
}

func TestOpenAIService_GenerateWithoutSystem(t *testing.T) {
	var count int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Messages []json.RawMessage `json:"messages"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		count = len(body.Messages)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"ok"}}]}`))
	}))
	defer srv.Close()

	s := NewOpenAIService("k", srv.URL, "m", "", srv.Client())
	_, err := s.Generate(context.Background(), Prompt{User: "hi"})
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestOpenAIService_GenerateNoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	s := NewOpenAIService("k", srv.URL, "m", "", srv.Client())
	_, err := s.Generate(context.Background(), Prompt{User: "hi"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotConfigured)
}

func TestOpenAIService_ListModelsAndEmbed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/models":
			w.Write([]byte(`{"object":"list","data":[{"id":"llama-3.3-70b-versatile","object":"model"},{"id":"gemma2-9b-it","object":"model"}]}`))
		case "/embeddings":
			w.Write([]byte(`{"object":"list","data":[{"object":"embedding","index":0,"embedding":[0.1,0.2,0.3]}]}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	s := NewOpenAIService("k", srv.URL, "m", "text-embedding-3-small", srv.Client())

	models, err := s.ListModels(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"llama-3.3-70b-versatile", "gemma2-9b-it"}, models)

	vec, err := s.Embed(context.Background(), "salinity near the equator")
	require.NoError(t, err)
	assert.Equal(t, []float32{0.1, 0.2, 0.3}, vec)
}
