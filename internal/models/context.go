package models

import (
	"fmt"
	"strings"
)

// ColumnInfo describes one column of the queried table
type ColumnInfo struct {
	Name     string `json:"column_name"`
	DataType string `json:"data_type"`
}

// DatabaseContext is the schema description handed to the SQL generator.
// It is built once at startup and never mutated afterwards.
type DatabaseContext struct {
	Table     string       `json:"table"`
	Columns   []ColumnInfo `json:"columns"`
	MinDate   string       `json:"min_date"`
	MaxDate   string       `json:"max_date"`
	Platforms []string     `json:"platforms"`
}

// UnavailableDatabaseContext is used in prompts when the context could not be built.
const UnavailableDatabaseContext = "Database context could not be loaded."

// Prompt renders the context as prompt text
func (c *DatabaseContext) Prompt() string {
	if c == nil {
		return UnavailableDatabaseContext
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("You are querying a PostgreSQL table named '%s' with the following schema:\n", c.Table))
	for _, col := range c.Columns {
		sb.WriteString(fmt.Sprintf("- %s (%s)\n", col.Name, col.DataType))
	}
	sb.WriteString("\nContextual Information:\n")
	sb.WriteString(fmt.Sprintf("- The data covers dates from %s to %s.\n", c.MinDate, c.MaxDate))
	if len(c.Platforms) > 0 {
		sb.WriteString(fmt.Sprintf("- Available platform_number values include: %s, among others.\n", strings.Join(c.Platforms, ", ")))
	}
	return sb.String()
}
