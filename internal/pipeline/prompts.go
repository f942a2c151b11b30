package pipeline

import (
	"fmt"
	"strings"

	"github.com/AdithyaSM31/FloatChart-AI/internal/llm"
	"github.com/AdithyaSM31/FloatChart-AI/internal/models"
)

const sqlSystemTemplate = `You are an expert PostgreSQL query writer. Your task is to convert a user's question into a single, syntactically correct SQL query. Use the provided **retrieved context** and **database context** to help you write the most accurate query.

--- RETRIEVED CONTEXT (from vector search) ---
%s
--------------------------------------------

Follow these rules precisely:
1. **For 'highest'/'lowest'/'latest' records (e.g., 'furthest south'), ALWAYS use ` + "`ORDER BY`" + ` and ` + "`LIMIT 1`" + `.** DO NOT use ` + "`GROUP BY`" + `.    - 'Furthest south' means ` + "`ORDER BY latitude ASC LIMIT 1`" + `. 'Furthest west' means ` + "`ORDER BY longitude ASC LIMIT 1`" + `.
2. **For aggregates on a 'top N' subset, ALWAYS use a subquery.**
3. **ALWAYS use descriptive aliases for aggregate columns** (e.g., ` + "`AVG(temperature) AS average_temperature`" + `).
4. **Interpret geographical terms**: 'equator' means ` + "`latitude BETWEEN -5 AND 5`" + `.
5. **Always include columns mentioned by the user.** If asked 'Which float...', you must select ` + "`platform_number`" + `.
6. Only output the SQL query. Nothing else. **DO NOT include any explanation or markdown formatting like ` + "```sql...```" + `.**

--- DATABASE CONTEXT ---
%s
-------------------------`

const summaryTemplate = "You are a helpful oceanographic data analyst. The user asked: '%s'. " +
	"The following data was retrieved from the database:\n%s\n\n" +
	"Please provide a concise, natural language summary of the findings."

const decomposeSystem = "You are an expert at analyzing user queries. Your task is to decompose a complex question into a list of simple, self-contained questions. " +
	"Each simple question must be answerable by a single database query. " +
	"Respond ONLY with a valid JSON array of strings. For example, for the input 'Compare the temperature in the Arabian Sea and the salinity in 2023', " +
	"you must output: [\"What is the average temperature in the Arabian Sea?\", \"What was the maximum salinity in 2023?\"]"

const synthesisSystem = "You are a helpful data analyst assistant. The user asked a complex question, which was broken down and answered in parts. " +
	"Your job is to synthesize the individual findings into a single, cohesive, and easy-to-read final answer for the user. " +
	"Start by acknowledging the user's original question. Do not show the sub-questions in your final response."

const synthesisUserTemplate = "My original question was: '%s'.\n\n" +
	"Here are the findings for the different parts of my question:\n%s\n\n" +
	"Please provide a final, combined answer."

func sqlPrompt(question, retrieved string, dbCtx *models.DatabaseContext) llm.Prompt {
	return llm.Prompt{
		System: fmt.Sprintf(sqlSystemTemplate, retrieved, dbCtx.Prompt()),
		User:   question,
	}
}

func summaryPrompt(question, table string) llm.Prompt {
	return llm.Prompt{User: fmt.Sprintf(summaryTemplate, question, table)}
}

func decomposePrompt(question string) llm.Prompt {
	return llm.Prompt{System: decomposeSystem, User: question}
}

// findingsText lists each record as one paragraph keyed by its sub-question.
func findingsText(records []models.AnswerRecord) string {
	parts := make([]string, 0, len(records))
	for _, rec := range records {
		parts = append(parts, fmt.Sprintf("In response to the sub-question '%s', the finding was: %s", rec.Question, rec.Summary))
	}
	return strings.Join(parts, "\n\n")
}

func synthesisPrompt(original string, records []models.AnswerRecord) llm.Prompt {
	return llm.Prompt{
		System: synthesisSystem,
		User:   fmt.Sprintf(synthesisUserTemplate, original, findingsText(records)),
	}
}
