package dataset

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// TimeLayout is the text form used for timestamp values in transport payloads.
const TimeLayout = "2006-01-02 15:04:05"

// Row maps a column name to its value.
type Row map[string]interface{}

// ResultSet represents the tabular result of a query
type ResultSet struct {
	Columns []string
	Rows    []Row
}

// New creates a ResultSet. A nil rows slice is replaced by an empty one.
func New(columns []string, rows []Row) *ResultSet {
	if columns == nil {
		columns = []string{}
	}
	if rows == nil {
		rows = []Row{}
	}
	return &ResultSet{Columns: columns, Rows: rows}
}

// Empty returns a ResultSet with no columns and no rows.
func Empty() *ResultSet {
	return New(nil, nil)
}

// Len returns the number of rows. It is safe to call on a nil ResultSet.
func (rs *ResultSet) Len() int {
	if rs == nil {
		return 0
	}
	return len(rs.Rows)
}

// IsEmpty reports whether the result holds no rows
func (rs *ResultSet) IsEmpty() bool {
	return rs.Len() == 0
}

// Head returns a ResultSet sharing the first n rows.
func (rs *ResultSet) Head(n int) *ResultSet {
	if rs == nil {
		return Empty()
	}
	if n < 0 {
		n = 0
	}
	if n > len(rs.Rows) {
		n = len(rs.Rows)
	}
	return &ResultSet{Columns: rs.Columns, Rows: rs.Rows[:n]}
}

// NumericColumns returns the columns whose every non-null value is a number.
// Columns holding only nulls are not numeric.
func (rs *ResultSet) NumericColumns() map[string]bool {
	numericCols := make(map[string]bool)
	if rs == nil {
		return numericCols
	}
	for _, col := range rs.Columns {
		seen := false
		isNumeric := true
		for _, row := range rs.Rows {
			val, ok := row[col]
			if !ok || val == nil {
				continue
			}
			seen = true
			if _, ok := toFloat(val); !ok {
				isNumeric = false
				break
			}
		}
		if seen && isNumeric {
			numericCols[col] = true
		}
	}
	return numericCols
}

// Normalize converts the rows into a type-stable transport form: numeric
// columns become float64, every other column becomes text. Nulls and
// non-finite numbers (NaN, ±Inf) become null so the rows always encode as JSON.
func (rs *ResultSet) Normalize() []Row {
	if rs.IsEmpty() {
		return []Row{}
	}

	numeric := rs.NumericColumns()
	out := make([]Row, 0, len(rs.Rows))
	for _, row := range rs.Rows {
		normalized := make(Row, len(rs.Columns))
		for _, col := range rs.Columns {
			val := row[col]
			if numeric[col] {
				if f, ok := toFloat(val); ok && !math.IsNaN(f) && !math.IsInf(f, 0) {
					normalized[col] = f
				} else {
					normalized[col] = nil
				}
				continue
			}
			normalized[col] = FormatValue(val)
		}
		out = append(out, normalized)
	}
	return out
}

// Markdown renders the rows as a pipe table, the form handed to the summarizer.
func (rs *ResultSet) Markdown() string {
	if rs == nil || len(rs.Columns) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("| " + strings.Join(rs.Columns, " | ") + " |\n")
	sb.WriteString("|")
	for range rs.Columns {
		sb.WriteString("---|")
	}
	sb.WriteString("\n")

	cells := make([]string, len(rs.Columns))
	for _, row := range rs.Rows {
		for i, col := range rs.Columns {
			cells[i] = strings.ReplaceAll(FormatValue(row[col]), "|", "\\|")
		}
		sb.WriteString("| " + strings.Join(cells, " | ") + " |\n")
	}
	return sb.String()
}

// FormatValue renders a single value as text.
func FormatValue(val interface{}) string {
	switch v := val.(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	case time.Time:
		return v.Format(TimeLayout)
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

func toFloat(val interface{}) (float64, bool) {
	switch v := val.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int8:
		return float64(v), true
	case int16:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint8:
		return float64(v), true
	case uint16:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	}
	return 0, false
}
