package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/AdithyaSM31/FloatChart-AI/internal/llm"
	"github.com/AdithyaSM31/FloatChart-AI/internal/metrics"
	"github.com/AdithyaSM31/FloatChart-AI/internal/models"
)

// Synthesizer combines the answers to several sub-questions into one answer.
type Synthesizer struct {
	gen llm.Generator
}

func NewSynthesizer(gen llm.Generator) *Synthesizer {
	return &Synthesizer{gen: gen}
}

// Synthesize returns a single answer to original. Without a working
// generator the record summaries are joined as paragraphs and a marker is
// returned alongside.
func (s *Synthesizer) Synthesize(ctx context.Context, original string, records []models.AnswerRecord) (string, *models.Degradation) {
	start := time.Now()
	defer metrics.ObserveStage(StageSynthesis, start)

	if s.gen == nil {
		return s.fallback(records, llm.ErrNotConfigured)
	}
	summary, err := s.gen.Generate(ctx, synthesisPrompt(original, records))
	if err != nil {
		return s.fallback(records, err)
	}
	if strings.TrimSpace(summary) == "" {
		return s.fallback(records, errors.New("generator returned an empty answer"))
	}
	return summary, nil
}

func (s *Synthesizer) fallback(records []models.AnswerRecord, err error) (string, *models.Degradation) {
	slog.Warn("Synthesis unavailable, joining sub-answers", "error", err)
	summaries := make([]string, 0, len(records))
	for _, rec := range records {
		summaries = append(summaries, rec.Summary)
	}
	marker := degrade(StageSynthesis, err)
	return strings.Join(summaries, "\n\n"), &marker
}
