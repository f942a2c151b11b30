package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/AdithyaSM31/FloatChart-AI/internal/dataset"
	"github.com/AdithyaSM31/FloatChart-AI/internal/llm"
	"github.com/AdithyaSM31/FloatChart-AI/internal/metrics"
	"github.com/AdithyaSM31/FloatChart-AI/internal/models"
	"github.com/AdithyaSM31/FloatChart-AI/internal/retriever"
	"github.com/AdithyaSM31/FloatChart-AI/internal/service"
)

// MaxRowsForSummary caps the rows handed to the summarizer.
const MaxRowsForSummary = 500

// Retrieval sentinels placed in the SQL prompt in place of snippets.
const (
	RetrievalUnavailable = "Vector database not available. Skipping RAG retrieval."
	RetrievalFailed      = "Error searching vector database."
	RetrievalEmpty       = "No specific context found in the vector database."
)

// EmptyResultSummary is the summary of a query that matched nothing.
const EmptyResultSummary = "I couldn't find any data that matches your query. Please try asking in a different way or check the data availability."

// SubQuestionAnswerer answers one sub-question.
type SubQuestionAnswerer interface {
	Answer(ctx context.Context, question string) (models.AnswerRecord, error)
}

// Answerer drives one question through retrieval, SQL generation,
// execution and summarization.
type Answerer struct {
	retriever retriever.Retriever
	gen       llm.Generator
	exec      service.QueryExecutor
	dbCtx     *models.DatabaseContext
}

// NewAnswerer wires the collaborators. Any of them may be nil, in which case
// the matching stage always takes its fallback.
func NewAnswerer(r retriever.Retriever, gen llm.Generator, exec service.QueryExecutor, dbCtx *models.DatabaseContext) *Answerer {
	return &Answerer{
		retriever: r,
		gen:       gen,
		exec:      exec,
		dbCtx:     dbCtx,
	}
}

// Answer implements SubQuestionAnswerer. An empty result is a valid answer;
// only a cancelled context is reported as an error.
func (a *Answerer) Answer(ctx context.Context, question string) (models.AnswerRecord, error) {
	if err := ctx.Err(); err != nil {
		return models.AnswerRecord{}, err
	}

	var degraded []models.Degradation
	note := func(d *models.Degradation) {
		if d != nil {
			degraded = append(degraded, *d)
		}
	}

	retrieved, d := a.retrieve(ctx, question)
	note(d)

	sqlQuery, d := a.generateSQL(ctx, question, retrieved)
	note(d)

	results, d := a.execute(ctx, sqlQuery)
	note(d)
	illustrative := d != nil

	totalRows := results.Len()
	summary, d := a.summarize(ctx, question, results.Head(MaxRowsForSummary))
	note(d)
	if totalRows > MaxRowsForSummary {
		summary += fmt.Sprintf("\n\n*Note: The summary for the sub-question '%s' is based on the first %d rows of %d total.*",
			question, MaxRowsForSummary, totalRows)
	}

	return models.AnswerRecord{
		Question:       question,
		Summary:        summary,
		Data:           results.Normalize(),
		SQLQuery:       sqlQuery,
		IsIllustrative: illustrative,
		Degraded:       degraded,
	}, nil
}

func (a *Answerer) retrieve(ctx context.Context, question string) (string, *models.Degradation) {
	start := time.Now()
	defer metrics.ObserveStage(StageRetrieval, start)

	if a.retriever == nil {
		marker := degrade(StageRetrieval, retriever.ErrUnavailable)
		return RetrievalUnavailable, &marker
	}

	snippets, err := a.retriever.Retrieve(ctx, question)
	switch {
	case errors.Is(err, retriever.ErrUnavailable):
		slog.Warn("Vector database not available, skipping retrieval", "error", err)
		marker := degrade(StageRetrieval, err)
		return RetrievalUnavailable, &marker
	case err != nil:
		slog.Error("Error during vector search", "error", err)
		marker := degrade(StageRetrieval, err)
		return RetrievalFailed, &marker
	case len(snippets) == 0:
		return RetrievalEmpty, nil
	}
	return strings.Join(snippets, "\n---\n"), nil
}

func (a *Answerer) generateSQL(ctx context.Context, question, retrieved string) (string, *models.Degradation) {
	start := time.Now()
	defer metrics.ObserveStage(StageSQLGeneration, start)

	fallback := func(err error) (string, *models.Degradation) {
		slog.Warn("SQL generation unavailable, using fallback query", "error", err)
		marker := degrade(StageSQLGeneration, err)
		return ClassifyQuestion(question).FallbackSQL(), &marker
	}

	if a.gen == nil {
		return fallback(llm.ErrNotConfigured)
	}
	raw, err := a.gen.Generate(ctx, sqlPrompt(question, retrieved, a.dbCtx))
	if err != nil {
		return fallback(err)
	}
	sqlQuery := cleanSQL(raw)
	if sqlQuery == "" {
		return fallback(errors.New("generator returned an empty query"))
	}
	return sqlQuery, nil
}

// cleanSQL removes markdown fences around a generated query.
func cleanSQL(raw string) string {
	sqlQuery := strings.TrimSpace(raw)
	if strings.HasPrefix(strings.ToLower(sqlQuery), "```sql") {
		sqlQuery = sqlQuery[len("```sql"):]
	}
	sqlQuery = strings.ReplaceAll(sqlQuery, "```", "")
	return strings.TrimSpace(sqlQuery)
}

func (a *Answerer) execute(ctx context.Context, sqlQuery string) (*dataset.ResultSet, *models.Degradation) {
	start := time.Now()
	defer metrics.ObserveStage(StageExecution, start)

	fallback := func(err error) (*dataset.ResultSet, *models.Degradation) {
		slog.Error("Database query failed, using illustrative data", "error", err)
		marker := degrade(StageExecution, err)
		return ClassifyQuery(sqlQuery).FallbackResultSet(), &marker
	}

	if a.exec == nil {
		return fallback(service.ErrNotConnected)
	}
	results, err := a.exec.Execute(ctx, sqlQuery)
	if err != nil {
		return fallback(err)
	}
	if results == nil {
		results = dataset.Empty()
	}
	return results, nil
}

func (a *Answerer) summarize(ctx context.Context, question string, results *dataset.ResultSet) (string, *models.Degradation) {
	if results.IsEmpty() {
		return EmptyResultSummary, nil
	}

	start := time.Now()
	defer metrics.ObserveStage(StageSummarization, start)

	fallback := func(err error) (string, *models.Degradation) {
		slog.Warn("Summarization unavailable, using fallback summary", "error", err)
		marker := degrade(StageSummarization, err)
		return ClassifyQuestion(question).FallbackSummary(results.Len()), &marker
	}

	if a.gen == nil {
		return fallback(llm.ErrNotConfigured)
	}
	summary, err := a.gen.Generate(ctx, summaryPrompt(question, results.Markdown()))
	if err != nil {
		return fallback(err)
	}
	if strings.TrimSpace(summary) == "" {
		return fallback(errors.New("generator returned an empty summary"))
	}
	return summary, nil
}
