package pipeline

import (
	"context"
	"testing"

	"github.com/AdithyaSM31/FloatChart-AI/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var twoRecords = []models.AnswerRecord{
	{Question: "What is the average temperature in region A?", Summary: "It averages 18 C."},
	{Question: "What was the maximum salinity in 2023?", Summary: "It peaked at 36.1 PSU."},
}

func TestSynthesize(t *testing.T) {
	gen := &fakeGenerator{synthesis: reply("Region A averages 18 C, while 2023 salinity peaked at 36.1 PSU.")}

	summary, marker := NewSynthesizer(gen).Synthesize(context.Background(), compoundQuestion, twoRecords)
	assert.Nil(t, marker)
	assert.Equal(t, "Region A averages 18 C, while 2023 salinity peaked at 36.1 PSU.", summary)

	require.Len(t, gen.calls, 1)
	user := gen.calls[0].User
	assert.Contains(t, user, "My original question was: '"+compoundQuestion+"'.")
	assert.Contains(t, user, "In response to the sub-question 'What is the average temperature in region A?', the finding was: It averages 18 C.\n\nIn response to the sub-question 'What was the maximum salinity in 2023?'")
	assert.Contains(t, gen.calls[0].System, "Do not show the sub-questions")
}

func TestSynthesize_FallbackJoinsSummaries(t *testing.T) {
	for name, gen := range map[string]*fakeGenerator{
		"unavailable":  {},
		"empty output": {synthesis: reply("   ")},
	} {
		t.Run(name, func(t *testing.T) {
			summary, marker := NewSynthesizer(gen).Synthesize(context.Background(), compoundQuestion, twoRecords)
			assert.Equal(t, "It averages 18 C.\n\nIt peaked at 36.1 PSU.", summary)
			require.NotNil(t, marker)
			assert.Equal(t, StageSynthesis, marker.Stage)
		})
	}

	summary, marker := NewSynthesizer(nil).Synthesize(context.Background(), compoundQuestion, twoRecords)
	assert.NotNil(t, marker)
	assert.NotContains(t, summary, "sub-question")
}
