// Package pipeline answers natural-language questions about the ARGO float
// dataset. Compound questions are decomposed, each part is answered
// independently and the parts are synthesized into one response.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/AdithyaSM31/FloatChart-AI/internal/dataset"
	"github.com/AdithyaSM31/FloatChart-AI/internal/metrics"
	"github.com/AdithyaSM31/FloatChart-AI/internal/models"
)

// PlaceholderSQL marks a record whose sub-question could not be answered.
const PlaceholderSQL = "Error"

// Orchestrator is the entry point of the pipeline.
type Orchestrator struct {
	decomposer  *Decomposer
	answerer    SubQuestionAnswerer
	synthesizer *Synthesizer
}

func NewOrchestrator(decomposer *Decomposer, answerer SubQuestionAnswerer, synthesizer *Synthesizer) *Orchestrator {
	return &Orchestrator{
		decomposer:  decomposer,
		answerer:    answerer,
		synthesizer: synthesizer,
	}
}

// Ask answers question. A failing sub-question is replaced by a placeholder
// record; only a cancelled context or a panic outside the answerer aborts
// the request.
func (o *Orchestrator) Ask(ctx context.Context, question string) (resp *models.FinalResponse, err error) {
	start := time.Now()
	defer metrics.ObserveStage("ask", start)
	defer func() {
		if r := recover(); r != nil {
			resp, err = nil, fmt.Errorf("panic answering %q: %v", question, r)
		}
	}()

	subQuestions, decompMarker := o.decomposer.decompose(ctx, question)
	var degraded []models.Degradation
	if decompMarker != nil {
		degraded = append(degraded, *decompMarker)
	}

	records := make([]models.AnswerRecord, 0, len(subQuestions))
	for _, q := range subQuestions {
		rec, err := o.answerIsolated(ctx, q)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("answering %q: %w", q, ctxErr)
		}
		if err != nil {
			slog.Error("Error answering sub-question", "question", q, "error", err)
			metrics.SubQuestionsTotal.WithLabelValues(metrics.OutcomeFailed).Inc()
			rec = placeholder(q)
		} else {
			metrics.SubQuestionsTotal.WithLabelValues(metrics.OutcomeAnswered).Inc()
		}
		records = append(records, rec)
	}

	if len(records) == 1 {
		slog.Info("Treating as a single question")
		metrics.QuestionsTotal.WithLabelValues(metrics.ModeSingle).Inc()
		rec := records[0]
		return &models.FinalResponse{
			Summary:  rec.Summary,
			Data:     rec.Data,
			SQLQuery: rec.SQLQuery,
			Degraded: mergeDegradations(degraded, rec.Degraded),
		}, nil
	}

	slog.Info("Decomposed into simple questions", "count", len(records))
	metrics.QuestionsTotal.WithLabelValues(metrics.ModeMultiPart).Inc()

	summary, synthMarker := o.synthesizer.Synthesize(ctx, question, records)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, fmt.Errorf("synthesizing answer: %w", ctxErr)
	}

	lists := [][]models.Degradation{degraded}
	for _, rec := range records {
		lists = append(lists, rec.Degraded)
	}
	if synthMarker != nil {
		lists = append(lists, []models.Degradation{*synthMarker})
	}

	return &models.FinalResponse{
		Summary:     summary,
		SubAnswers:  records,
		IsMultiPart: true,
		Degraded:    mergeDegradations(lists...),
	}, nil
}

// answerIsolated runs the answerer, turning a panic into an error.
func (o *Orchestrator) answerIsolated(ctx context.Context, question string) (rec models.AnswerRecord, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic answering sub-question: %v", r)
		}
	}()
	return o.answerer.Answer(ctx, question)
}

func placeholder(question string) models.AnswerRecord {
	return models.AnswerRecord{
		Question: question,
		Summary:  fmt.Sprintf("I was unable to answer the question: '%s'.", question),
		Data:     []dataset.Row{},
		SQLQuery: PlaceholderSQL,
	}
}
