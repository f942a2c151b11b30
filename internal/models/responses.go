package models

import (
	"encoding/json"

	"github.com/AdithyaSM31/FloatChart-AI/internal/dataset"
)

// Degradation marks a pipeline stage that fell back to a deterministic
// substitute instead of a real collaborator result.
type Degradation struct {
	Stage  string `json:"stage"`
	Reason string `json:"reason"`
}

// AnswerRecord is the answer to one sub-question
type AnswerRecord struct {
	Question string        `json:"question"`
	Summary  string        `json:"summary"`
	Data     []dataset.Row `json:"data"`
	SQLQuery string        `json:"sql_query"`
	// IsIllustrative is set when Data is a fallback result set rather than
	// rows read from the database.
	IsIllustrative bool          `json:"is_illustrative"`
	Degraded       []Degradation `json:"degraded,omitempty"`
}

// FinalResponse is returned by /ask. A single-part response surfaces the one
// AnswerRecord's fields directly; a multi-part response carries every record.
type FinalResponse struct {
	Summary     string
	Data        []dataset.Row
	SQLQuery    string
	SubAnswers  []AnswerRecord
	IsMultiPart bool
	Degraded    []Degradation
}

// MarshalJSON emits the single or multi-part shape depending on IsMultiPart.
func (r FinalResponse) MarshalJSON() ([]byte, error) {
	if r.IsMultiPart {
		subAnswers := r.SubAnswers
		if subAnswers == nil {
			subAnswers = []AnswerRecord{}
		}
		return json.Marshal(struct {
			Summary     string         `json:"summary"`
			SubAnswers  []AnswerRecord `json:"sub_answers"`
			IsMultiPart bool           `json:"is_multi_part"`
			Degraded    []Degradation  `json:"degraded,omitempty"`
		}{r.Summary, subAnswers, true, r.Degraded})
	}

	data := r.Data
	if data == nil {
		data = []dataset.Row{}
	}
	return json.Marshal(struct {
		Summary     string        `json:"summary"`
		Data        []dataset.Row `json:"data"`
		SQLQuery    string        `json:"sql_query"`
		IsMultiPart bool          `json:"is_multi_part"`
		Degraded    []Degradation `json:"degraded,omitempty"`
	}{r.Summary, data, r.SQLQuery, false, r.Degraded})
}

// HealthResponse is returned by /health endpoint
type HealthResponse struct {
	Status             string `json:"status"`
	DatabaseConnection string `json:"database_connection"`
	RAGComponents      string `json:"rag_components"`
	DBContextLoaded    bool   `json:"db_context_loaded"`
	TextGeneration     string `json:"text_generation"`
}

// LLMConfig for /config/llm endpoint
type LLMConfig struct {
	Provider string `json:"provider"`
	BaseURL  string `json:"baseUrl"`
	Model    string `json:"model"`
	APIKey   string `json:"apiKey,omitempty"`
}

// ModelsResponse for /models endpoint
type ModelsResponse struct {
	Provider string   `json:"provider"`
	Models   []string `json:"models"`
}

// ErrorResponse carries a failure detail back to the client
type ErrorResponse struct {
	Detail string `json:"detail"`
}
