package api

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/AdithyaSM31/FloatChart-AI/internal/config"
	"github.com/AdithyaSM31/FloatChart-AI/internal/dataset"
	"github.com/AdithyaSM31/FloatChart-AI/internal/llm"
	"github.com/AdithyaSM31/FloatChart-AI/internal/models"
	"github.com/AdithyaSM31/FloatChart-AI/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAsker struct {
	resp     *models.FinalResponse
	err      error
	question string
}

func (f *fakeAsker) Ask(ctx context.Context, question string) (*models.FinalResponse, error) {
	f.question = question
	return f.resp, f.err
}

type fakeDB struct {
	pingErr error
	tables  []string
}

func (f *fakeDB) Ping(ctx context.Context) error { return f.pingErr }
func (f *fakeDB) ListTables(ctx context.Context) ([]string, error) {
	if f.pingErr != nil {
		return nil, f.pingErr
	}
	return f.tables, nil
}

type fakeRetriever struct{ err error }

func (f *fakeRetriever) Retrieve(ctx context.Context, text string) ([]string, error) { return nil, f.err }
func (f *fakeRetriever) Status(ctx context.Context) error                            { return f.err }

type fakeLLM struct {
	configured bool
	models     []string
	err        error
}

func (f *fakeLLM) Generate(ctx context.Context, p llm.Prompt) (string, error) { return "", nil }
func (f *fakeLLM) Embed(ctx context.Context, text string) ([]float32, error)  { return nil, nil }
func (f *fakeLLM) ListModels(ctx context.Context) ([]string, error)           { return f.models, f.err }
func (f *fakeLLM) Configured() bool                                           { return f.configured }
func (f *fakeLLM) Provider() string                                           { return "openai" }
func (f *fakeLLM) Model() string                                              { return "llama-3.3-70b-versatile" }
func (f *fakeLLM) BaseURL() string                                            { return config.GroqBaseURL }

func newRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	h.RegisterRoutes(r)
	return r
}

func do(t *testing.T, h http.Handler, method, path, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var decoded map[string]interface{}
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	}
	return rec, decoded
}

func TestAsk(t *testing.T) {
	asker := &fakeAsker{resp: &models.FinalResponse{
		Summary:  "Found 3 records.",
		Data:     []dataset.Row{{"depth": 4500.0}},
		SQLQuery: "SELECT 1;",
	}}
	router := newRouter(NewHandler(asker, &fakeDB{}, &fakeRetriever{}, &fakeLLM{}, config.LLMConfig{}, true))

	rec, body := do(t, router, http.MethodPost, "/ask", `{"question": "  What is the deepest recorded measurement?  "}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "What is the deepest recorded measurement?", asker.question)
	assert.Equal(t, "Found 3 records.", body["summary"])
	assert.Equal(t, false, body["is_multi_part"])
	assert.Len(t, body["data"], 1)
}

func TestAsk_BadRequests(t *testing.T) {
	router := newRouter(NewHandler(&fakeAsker{}, nil, nil, nil, config.LLMConfig{}, false))

	tests := []struct {
		name string
		body string
	}{
		{"invalid json", `{"question":`},
		{"missing question", `{}`},
		{"blank question", `{"question": "   "}`},
		{"too long", `{"question": "` + strings.Repeat("a", 4001) + `"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, body := do(t, router, http.MethodPost, "/ask", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.NotEmpty(t, body["detail"])
		})
	}
}

func TestAsk_PipelineError(t *testing.T) {
	asker := &fakeAsker{err: context.Canceled}
	router := newRouter(NewHandler(asker, nil, nil, nil, config.LLMConfig{}, false))

	rec, body := do(t, router, http.MethodPost, "/ask", `{"question": "Average salinity"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "An internal error occurred: context canceled", body["detail"])
	assert.NotContains(t, body, "data")
}

func TestAsk_UnencodableResponse(t *testing.T) {
	asker := &fakeAsker{resp: &models.FinalResponse{
		Summary:  "Found 1 record.",
		Data:     []dataset.Row{{"temperature": math.NaN()}},
		SQLQuery: "SELECT temp FROM argo_data;",
	}}
	router := newRouter(NewHandler(asker, nil, nil, nil, config.LLMConfig{}, false))

	rec, body := do(t, router, http.MethodPost, "/ask", `{"question": "Average temperature"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, body["detail"], "An internal error occurred")
	assert.Contains(t, body["detail"], "unsupported value")
}

func TestHealthCheck(t *testing.T) {
	t.Run("all ok", func(t *testing.T) {
		h := NewHandler(&fakeAsker{}, &fakeDB{}, &fakeRetriever{}, &fakeLLM{configured: true}, config.LLMConfig{}, true)
		rec, body := do(t, newRouter(h), http.MethodGet, "/health", "")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, map[string]interface{}{
			"status":              "online",
			"database_connection": "OK",
			"rag_components":      "OK",
			"db_context_loaded":   true,
			"text_generation":     "OK",
		}, body)
	})

	t.Run("degraded", func(t *testing.T) {
		h := NewHandler(&fakeAsker{}, &fakeDB{pingErr: errors.New("connection refused")},
			&fakeRetriever{err: errors.New("weaviate is not ready")}, &fakeLLM{}, config.LLMConfig{}, false)
		_, body := do(t, newRouter(h), http.MethodGet, "/health", "")
		assert.Equal(t, "online", body["status"])
		assert.Equal(t, "Error: connection refused", body["database_connection"])
		assert.Equal(t, "Warning: weaviate is not ready", body["rag_components"])
		assert.Equal(t, false, body["db_context_loaded"])
		assert.Equal(t, "Warning: "+llm.ErrNotConfigured.Error(), body["text_generation"])
	})

	t.Run("nothing wired", func(t *testing.T) {
		_, body := do(t, newRouter(NewHandler(&fakeAsker{}, nil, nil, nil, config.LLMConfig{}, false)), http.MethodGet, "/health", "")
		assert.Equal(t, "Error: "+service.ErrNotConnected.Error(), body["database_connection"])
		assert.True(t, strings.HasPrefix(body["rag_components"].(string), "Warning: "))
	})
}

func TestListModels(t *testing.T) {
	h := NewHandler(&fakeAsker{}, nil, nil, &fakeLLM{configured: true, models: []string{"gpt-4o-mini", "llama-3.3-70b-versatile"}}, config.LLMConfig{}, false)
	rec, body := do(t, newRouter(h), http.MethodGet, "/models", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "openai", body["provider"])
	assert.Equal(t, []interface{}{"gpt-4o-mini", "llama-3.3-70b-versatile"}, body["models"])

	h = NewHandler(&fakeAsker{}, nil, nil, &fakeLLM{err: llm.ErrNotConfigured}, config.LLMConfig{}, false)
	rec, _ = do(t, newRouter(h), http.MethodGet, "/models", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	h = NewHandler(&fakeAsker{}, nil, nil, &fakeLLM{err: errors.New("502 from upstream")}, config.LLMConfig{}, false)
	rec, _ = do(t, newRouter(h), http.MethodGet, "/models", "")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestGetLLMConfig_MasksKey(t *testing.T) {
	cfg := config.LLMConfig{Provider: config.ProviderOpenAI, APIKey: "gsk_abcdefgh1234"}
	h := NewHandler(&fakeAsker{}, nil, nil, &fakeLLM{configured: true}, cfg, false)

	_, body := do(t, newRouter(h), http.MethodGet, "/config/llm", "")
	assert.Equal(t, "openai", body["provider"])
	assert.Equal(t, config.GroqBaseURL, body["baseUrl"])
	assert.Equal(t, "llama-3.3-70b-versatile", body["model"])
	assert.Equal(t, "********1234", body["apiKey"])
	assert.NotContains(t, body["apiKey"], "abcdefgh")
}

func TestListTables(t *testing.T) {
	h := NewHandler(&fakeAsker{}, &fakeDB{tables: []string{"argo_data"}}, nil, nil, config.LLMConfig{}, false)
	rec, body := do(t, newRouter(h), http.MethodGet, "/tables", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []interface{}{"argo_data"}, body["tables"])

	h = NewHandler(&fakeAsker{}, &fakeDB{pingErr: service.ErrNotConnected}, nil, nil, config.LLMConfig{}, false)
	rec, _ = do(t, newRouter(h), http.MethodGet, "/tables", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	rec, _ := do(t, newRouter(NewHandler(&fakeAsker{}, nil, nil, nil, config.LLMConfig{}, false)), http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}
