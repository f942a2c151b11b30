package loader

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// ColumnType is the inferred storage type of a column.
type ColumnType string

const (
	TypeFloat     ColumnType = "DOUBLE PRECISION"
	TypeTimestamp ColumnType = "TIMESTAMP"
	TypeText      ColumnType = "TEXT"
)

var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
	"2006/01/02",
}

// identifierHints mark columns that hold codes rather than quantities even
// when every value is numeric.
var identifierHints = []string{"platform", "id", "number", "code", "key"}

// InferColumnTypes picks one type per column from every non-empty value.
func InferColumnTypes(t *Table) []ColumnType {
	types := make([]ColumnType, len(t.Headers))
	for col, name := range t.Headers {
		types[col] = inferColumnType(t.Rows, col, name)
	}
	return types
}

func inferColumnType(rows [][]string, colIndex int, name string) ColumnType {
	isFloat := true
	isDate := true
	seen := false

	for _, row := range rows {
		val := row[colIndex]
		if isMissing(val) {
			continue
		}
		seen = true
		if _, err := strconv.ParseFloat(val, 64); err != nil {
			isFloat = false
		}
		if _, ok := parseTime(val); !ok {
			isDate = false
		}
		if !isFloat && !isDate {
			break
		}
	}

	switch {
	case !seen:
		return TypeText
	case isFloat && !containsAny(strings.ToLower(name), identifierHints):
		return TypeFloat
	case isDate && !isFloat:
		return TypeTimestamp
	}
	return TypeText
}

// Convert turns one cell into the value written for typ. Missing cells are NULL.
func Convert(val string, typ ColumnType) (interface{}, error) {
	if isMissing(val) {
		return nil, nil
	}
	switch typ {
	case TypeFloat:
		f, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return nil, fmt.Errorf("parse %q as number: %w", val, err)
		}
		return f, nil
	case TypeTimestamp:
		t, ok := parseTime(val)
		if !ok {
			return nil, fmt.Errorf("parse %q as timestamp", val)
		}
		return t, nil
	}
	return val, nil
}

// isMissing reports whether a cell is empty or a NaN/Inf fill value.
func isMissing(val string) bool {
	if val == "" {
		return true
	}
	f, err := strconv.ParseFloat(val, 64)
	return err == nil && (math.IsNaN(f) || math.IsInf(f, 0))
}

func parseTime(val string) (time.Time, bool) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, val); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func containsAny(s string, substrings []string) bool {
	for _, sub := range substrings {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
