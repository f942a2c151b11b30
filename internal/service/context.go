package service

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/AdithyaSM31/FloatChart-AI/internal/dataset"
	"github.com/AdithyaSM31/FloatChart-AI/internal/models"
)

// MaxContextPlatforms caps the platform numbers listed in the database context.
const MaxContextPlatforms = 10

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// BuildDatabaseContext reads the schema, date range and a sample of platform
// numbers for table. It is called once at startup.
func BuildDatabaseContext(ctx context.Context, exec QueryExecutor, table string) (*models.DatabaseContext, error) {
	if !identifierPattern.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}

	schema, err := exec.Execute(ctx, fmt.Sprintf(
		"SELECT column_name, data_type FROM information_schema.columns WHERE table_name = '%s' ORDER BY ordinal_position;", table))
	if err != nil {
		return nil, fmt.Errorf("load schema: %w", err)
	}
	if schema.IsEmpty() {
		return nil, fmt.Errorf("table %q has no columns", table)
	}

	dbCtx := &models.DatabaseContext{Table: table}
	for _, row := range schema.Rows {
		dbCtx.Columns = append(dbCtx.Columns, models.ColumnInfo{
			Name:     dataset.FormatValue(row["column_name"]),
			DataType: dataset.FormatValue(row["data_type"]),
		})
	}

	dates, err := exec.Execute(ctx, fmt.Sprintf(
		"SELECT MIN(juld)::date AS min_date, MAX(juld)::date AS max_date FROM %s;", table))
	if err != nil {
		return nil, fmt.Errorf("load date range: %w", err)
	}
	if !dates.IsEmpty() {
		dbCtx.MinDate = formatDate(dates.Rows[0]["min_date"])
		dbCtx.MaxDate = formatDate(dates.Rows[0]["max_date"])
	}

	platforms, err := exec.Execute(ctx, fmt.Sprintf(
		"SELECT DISTINCT platform_number FROM %s ORDER BY platform_number LIMIT %d;", table, MaxContextPlatforms))
	if err != nil {
		return nil, fmt.Errorf("load platforms: %w", err)
	}
	for _, row := range platforms.Head(MaxContextPlatforms).Rows {
		dbCtx.Platforms = append(dbCtx.Platforms, dataset.FormatValue(row["platform_number"]))
	}

	return dbCtx, nil
}

func formatDate(val interface{}) string {
	if t, ok := val.(time.Time); ok {
		return t.Format("2006-01-02")
	}
	return dataset.FormatValue(val)
}
