package pipeline

import (
	"github.com/AdithyaSM31/FloatChart-AI/internal/metrics"
	"github.com/AdithyaSM31/FloatChart-AI/internal/models"
)

// Pipeline stages that can degrade to a deterministic substitute.
const (
	StageDecomposition = "decomposition"
	StageRetrieval     = "retrieval"
	StageSQLGeneration = "sql_generation"
	StageExecution     = "execution"
	StageSummarization = "summarization"
	StageSynthesis     = "synthesis"
)

func degrade(stage string, err error) models.Degradation {
	metrics.DegradedTotal.WithLabelValues(stage).Inc()
	reason := "unavailable"
	if err != nil {
		reason = err.Error()
	}
	return models.Degradation{Stage: stage, Reason: reason}
}

// mergeDegradations concatenates marker lists, dropping exact duplicates
// while keeping first-seen order.
func mergeDegradations(lists ...[]models.Degradation) []models.Degradation {
	var out []models.Degradation
	seen := make(map[models.Degradation]bool)
	for _, list := range lists {
		for _, d := range list {
			if seen[d] {
				continue
			}
			seen[d] = true
			out = append(out, d)
		}
	}
	return out
}
