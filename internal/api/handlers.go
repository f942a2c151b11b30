package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/AdithyaSM31/FloatChart-AI/internal/config"
	"github.com/AdithyaSM31/FloatChart-AI/internal/llm"
	"github.com/AdithyaSM31/FloatChart-AI/internal/models"
	"github.com/AdithyaSM31/FloatChart-AI/internal/retriever"
	"github.com/AdithyaSM31/FloatChart-AI/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Asker answers a natural-language question.
type Asker interface {
	Ask(ctx context.Context, question string) (*models.FinalResponse, error)
}

// Database is the part of the data source the handlers report on.
type Database interface {
	Ping(ctx context.Context) error
	ListTables(ctx context.Context) ([]string, error)
}

type Handler struct {
	Pipeline        Asker
	DB              Database
	Retriever       retriever.Retriever
	LLM             llm.Client
	LLMConfig       config.LLMConfig
	DBContextLoaded bool

	validate *validator.Validate
}

func NewHandler(pipeline Asker, db Database, r retriever.Retriever, llmClient llm.Client, llmCfg config.LLMConfig, dbContextLoaded bool) *Handler {
	return &Handler{
		Pipeline:        pipeline,
		DB:              db,
		Retriever:       r,
		LLM:             llmClient,
		LLMConfig:       llmCfg,
		DBContextLoaded: dbContextLoaded,
		validate:        validator.New(),
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/ask", h.Ask)
	r.Get("/health", h.HealthCheck)
	r.Get("/models", h.ListModels)
	r.Get("/config/llm", h.GetLLMConfig)
	r.Get("/tables", h.ListTables)
	r.Handle("/metrics", promhttp.Handler())
}

// writeJSON encodes v before sending the status so an unencodable value
// still produces a 500 with a detail body.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	body, err := json.Marshal(v)
	if err != nil {
		slog.Error("Failed to encode response", "error", err)
		status = http.StatusInternalServerError
		body, _ = json.Marshal(models.ErrorResponse{Detail: fmt.Sprintf("An internal error occurred: %v", err)})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(append(body, '\n')); err != nil {
		slog.Error("Failed to write response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, models.ErrorResponse{Detail: detail})
}

// Ask handles POST /ask
func (h *Handler) Ask(w http.ResponseWriter, r *http.Request) {
	var req models.AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	req.Question = strings.TrimSpace(req.Question)

	if err := h.validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 && verrs[0].Tag() == "max" {
			writeError(w, http.StatusBadRequest, "Question is too long")
			return
		}
		writeError(w, http.StatusBadRequest, "Question must not be empty")
		return
	}

	slog.Info("Received question", "question", req.Question)
	resp, err := h.Pipeline.Ask(r.Context(), req.Question)
	if err != nil {
		slog.Error("An error occurred during query processing", "question", req.Question, "error", err)
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("An internal error occurred: %v", err))
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// HealthCheck handles GET /health
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	resp := models.HealthResponse{
		Status:             "online",
		DatabaseConnection: "OK",
		RAGComponents:      "OK",
		DBContextLoaded:    h.DBContextLoaded,
		TextGeneration:     "OK",
	}

	if h.DB == nil {
		resp.DatabaseConnection = "Error: " + service.ErrNotConnected.Error()
	} else if err := h.DB.Ping(ctx); err != nil {
		resp.DatabaseConnection = "Error: " + err.Error()
	}

	if h.Retriever == nil {
		resp.RAGComponents = "Warning: " + retriever.ErrUnavailable.Error()
	} else if err := h.Retriever.Status(ctx); err != nil {
		resp.RAGComponents = "Warning: " + err.Error()
	}

	if h.LLM == nil || !h.LLM.Configured() {
		resp.TextGeneration = "Warning: " + llm.ErrNotConfigured.Error()
	}

	writeJSON(w, http.StatusOK, resp)
}

// ListModels handles GET /models
func (h *Handler) ListModels(w http.ResponseWriter, r *http.Request) {
	if h.LLM == nil {
		writeError(w, http.StatusServiceUnavailable, llm.ErrNotConfigured.Error())
		return
	}

	names, err := h.LLM.ListModels(r.Context())
	if errors.Is(err, llm.ErrNotConfigured) {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	if err != nil {
		writeError(w, http.StatusBadGateway, fmt.Sprintf("Error listing models: %v", err))
		return
	}

	writeJSON(w, http.StatusOK, models.ModelsResponse{Provider: h.LLM.Provider(), Models: names})
}

// GetLLMConfig handles GET /config/llm. The API key is masked.
func (h *Handler) GetLLMConfig(w http.ResponseWriter, r *http.Request) {
	resp := models.LLMConfig{
		Provider: h.LLMConfig.Provider,
		APIKey:   h.LLMConfig.MaskedKey(),
	}
	if h.LLM != nil {
		resp.Provider = h.LLM.Provider()
		resp.BaseURL = h.LLM.BaseURL()
		resp.Model = h.LLM.Model()
	}
	writeJSON(w, http.StatusOK, resp)
}

// ListTables handles GET /tables
func (h *Handler) ListTables(w http.ResponseWriter, r *http.Request) {
	if h.DB == nil {
		writeError(w, http.StatusServiceUnavailable, "No database connection")
		return
	}

	tables, err := h.DB.ListTables(r.Context())
	if errors.Is(err, service.ErrNotConnected) {
		writeError(w, http.StatusServiceUnavailable, "No database connection")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Error listing tables: %v", err))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"tables": tables})
}
