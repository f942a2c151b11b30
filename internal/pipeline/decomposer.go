package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/AdithyaSM31/FloatChart-AI/internal/llm"
	"github.com/AdithyaSM31/FloatChart-AI/internal/metrics"
	"github.com/AdithyaSM31/FloatChart-AI/internal/models"
)

// SimpleQuestionMaxTokens is the token count below which a question without
// compound markers is answered as-is.
const SimpleQuestionMaxTokens = 10

var compoundMarkers = []string{" and ", " vs ", " versus "}

var errEmptyDecomposition = errors.New("decomposition produced no sub-questions")

// Decomposer splits compound questions into self-contained sub-questions.
type Decomposer struct {
	gen llm.Generator
}

func NewDecomposer(gen llm.Generator) *Decomposer {
	return &Decomposer{gen: gen}
}

// IsSimple reports whether question is short and has no compound marker.
func IsSimple(question string) bool {
	if len(strings.Fields(question)) >= SimpleQuestionMaxTokens {
		return false
	}
	lower := strings.ToLower(question)
	for _, marker := range compoundMarkers {
		if strings.Contains(lower, marker) {
			return false
		}
	}
	return true
}

// Decompose returns the ordered sub-questions of question. It never fails:
// any problem yields the question itself as the single sub-question.
func (d *Decomposer) Decompose(ctx context.Context, question string) []string {
	subQuestions, _ := d.decompose(ctx, question)
	return subQuestions
}

func (d *Decomposer) decompose(ctx context.Context, question string) ([]string, *models.Degradation) {
	if IsSimple(question) {
		return []string{question}, nil
	}

	start := time.Now()
	defer metrics.ObserveStage(StageDecomposition, start)

	if d.gen == nil {
		return d.fallback(question, llm.ErrNotConfigured)
	}

	raw, err := d.gen.Generate(ctx, decomposePrompt(question))
	if err != nil {
		return d.fallback(question, err)
	}
	slog.Debug("Decomposer raw output", "output", raw)

	subQuestions, err := parseSubQuestions(raw)
	if err != nil {
		return d.fallback(question, err)
	}
	return subQuestions, nil
}

func (d *Decomposer) fallback(question string, err error) ([]string, *models.Degradation) {
	slog.Warn("Failed to decompose question, treating as a single query", "error", err)
	marker := degrade(StageDecomposition, err)
	return []string{question}, &marker
}

// parseSubQuestions reads a JSON array of strings, tolerating a markdown code fence.
func parseSubQuestions(raw string) ([]string, error) {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	var items []string
	if err := json.Unmarshal([]byte(cleaned), &items); err != nil {
		return nil, fmt.Errorf("parse decomposition: %w", err)
	}

	subQuestions := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			subQuestions = append(subQuestions, item)
		}
	}
	if len(subQuestions) == 0 {
		return nil, errEmptyDecomposition
	}
	return subQuestions, nil
}
