package pipeline

import (
	"context"
	"strings"
	"sync"

	"github.com/AdithyaSM31/FloatChart-AI/internal/dataset"
	"github.com/AdithyaSM31/FloatChart-AI/internal/llm"
	"github.com/AdithyaSM31/FloatChart-AI/internal/models"
)

type genFunc func(llm.Prompt) (string, error)

// fakeGenerator routes each prompt to the handler for its stage. A stage
// without a handler behaves as an unconfigured backend.
type fakeGenerator struct {
	mu        sync.Mutex
	decompose genFunc
	sql       genFunc
	summary   genFunc
	synthesis genFunc
	calls     []llm.Prompt
}

func (f *fakeGenerator) Generate(ctx context.Context, p llm.Prompt) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, p)
	f.mu.Unlock()

	var fn genFunc
	switch {
	case p.System == decomposeSystem:
		fn = f.decompose
	case p.System == synthesisSystem:
		fn = f.synthesis
	case strings.HasPrefix(p.System, "You are an expert PostgreSQL"):
		fn = f.sql
	default:
		fn = f.summary
	}
	if fn == nil {
		return "", llm.ErrNotConfigured
	}
	return fn(p)
}

func (f *fakeGenerator) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func reply(s string) genFunc {
	return func(llm.Prompt) (string, error) { return s, nil }
}

type fakeRetriever struct {
	snippets []string
	err      error
}

func (f *fakeRetriever) Retrieve(ctx context.Context, text string) ([]string, error) {
	return f.snippets, f.err
}

func (f *fakeRetriever) Status(ctx context.Context) error { return f.err }

type fakeExecutor struct {
	mu      sync.Mutex
	run     func(query string) (*dataset.ResultSet, error)
	queries []string
}

func (f *fakeExecutor) Execute(ctx context.Context, query string) (*dataset.ResultSet, error) {
	f.mu.Lock()
	f.queries = append(f.queries, query)
	f.mu.Unlock()
	return f.run(query)
}

func returning(rs *dataset.ResultSet) *fakeExecutor {
	return &fakeExecutor{run: func(string) (*dataset.ResultSet, error) { return rs, nil }}
}

func failing(err error) *fakeExecutor {
	return &fakeExecutor{run: func(string) (*dataset.ResultSet, error) { return nil, err }}
}

func depthRows(n int) *dataset.ResultSet {
	rows := make([]dataset.Row, n)
	for i := range rows {
		rows[i] = dataset.Row{"platform_number": "2902746", "depth": float64(i)}
	}
	return dataset.New([]string{"platform_number", "depth"}, rows)
}

// answererFunc adapts a function to SubQuestionAnswerer.
type answererFunc func(ctx context.Context, q string) (models.AnswerRecord, error)

func (f answererFunc) Answer(ctx context.Context, q string) (models.AnswerRecord, error) {
	return f(ctx, q)
}

func hasStage(degraded []models.Degradation, stage string) bool {
	for _, d := range degraded {
		if d.Stage == stage {
			return true
		}
	}
	return false
}
