// Package app wires the collaborators shared by the server and the CLI.
package app

import (
	"context"
	"log/slog"

	"github.com/AdithyaSM31/FloatChart-AI/internal/api"
	"github.com/AdithyaSM31/FloatChart-AI/internal/config"
	"github.com/AdithyaSM31/FloatChart-AI/internal/llm"
	"github.com/AdithyaSM31/FloatChart-AI/internal/models"
	"github.com/AdithyaSM31/FloatChart-AI/internal/pipeline"
	"github.com/AdithyaSM31/FloatChart-AI/internal/retriever"
	"github.com/AdithyaSM31/FloatChart-AI/internal/service"
	"github.com/weaviate/weaviate-go-client/v5/weaviate"
)

// App holds process-wide collaborators. They are created once and are safe
// for concurrent use.
type App struct {
	Config       *config.Config
	DB           *service.PostgresDataSource
	LLM          llm.Client
	Weaviate     *weaviate.Client
	Retriever    *retriever.WeaviateRetriever
	DBContext    *models.DatabaseContext
	Orchestrator *pipeline.Orchestrator
}

// New connects to every backend. Unreachable backends are logged and left
// in a degraded state so the pipeline can fall back.
func New(ctx context.Context, cfg *config.Config) *App {
	a := &App{Config: cfg}

	db, err := service.Connect(ctx, cfg.Database)
	if err != nil {
		slog.Error("Database connection failed", "host", cfg.Database.Host, "database", cfg.Database.Name, "error", err)
	}
	a.DB = db

	if err == nil {
		dbCtx, err := service.BuildDatabaseContext(ctx, db, cfg.Database.Table)
		if err != nil {
			slog.Error("Error fetching DB context", "error", err)
		} else {
			a.DBContext = dbCtx
			slog.Info("Database context loaded", "table", dbCtx.Table, "columns", len(dbCtx.Columns))
		}
	}

	a.LLM = llm.NewClient(cfg.LLM)
	if !a.LLM.Configured() {
		slog.Warn("Text generation not configured, using fallback queries and summaries", "provider", a.LLM.Provider())
	}

	a.Weaviate = retriever.NewWeaviateClient(cfg.Vector.URL)
	a.Retriever = retriever.NewWeaviateRetriever(a.Weaviate, a.LLM, cfg.Vector.Class, cfg.Vector.TopK)

	a.Orchestrator = pipeline.NewOrchestrator(
		pipeline.NewDecomposer(a.LLM),
		pipeline.NewAnswerer(a.Retriever, a.LLM, a.DB, a.DBContext),
		pipeline.NewSynthesizer(a.LLM),
	)
	return a
}

// Handler builds the HTTP handlers over the app's collaborators.
func (a *App) Handler() *api.Handler {
	return api.NewHandler(a.Orchestrator, a.DB, a.Retriever, a.LLM, a.Config.LLM, a.DBContext != nil)
}

func (a *App) Close() {
	if err := a.DB.Close(); err != nil {
		slog.Error("Error closing database", "error", err)
	}
}
