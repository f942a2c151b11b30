package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/AdithyaSM31/FloatChart-AI/internal/config"
	"github.com/AdithyaSM31/FloatChart-AI/internal/dataset"
	_ "github.com/lib/pq"
)

// ErrNotConnected is returned by a data source whose connection was never established.
var ErrNotConnected = errors.New("database not connected")

// QueryExecutor runs a read query and returns its rows.
type QueryExecutor interface {
	Execute(ctx context.Context, query string) (*dataset.ResultSet, error)
}

// PostgresDataSource executes queries against PostgreSQL through lib/pq
type PostgresDataSource struct {
	db *sql.DB
}

// Connect opens the pool and pings it. On failure the data source stays
// usable but every call returns ErrNotConnected.
func Connect(ctx context.Context, cfg config.DatabaseConfig) (*PostgresDataSource, error) {
	p := &PostgresDataSource{}

	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return p, fmt.Errorf("open postgres: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return p, fmt.Errorf("ping postgres: %w", err)
	}

	p.db = db
	return p, nil
}

// NewPostgresDataSource wraps an existing handle. A nil db behaves as not connected.
func NewPostgresDataSource(db *sql.DB) *PostgresDataSource {
	return &PostgresDataSource{db: db}
}

func (p *PostgresDataSource) Ping(ctx context.Context) error {
	if p == nil || p.db == nil {
		return ErrNotConnected
	}
	return p.db.PingContext(ctx)
}

func (p *PostgresDataSource) Close() error {
	if p != nil && p.db != nil {
		return p.db.Close()
	}
	return nil
}

func (p *PostgresDataSource) ListTables(ctx context.Context) ([]string, error) {
	rs, err := p.Execute(ctx, `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = 'public'
		ORDER BY table_name;
	`)
	if err != nil {
		return nil, err
	}

	tables := make([]string, 0, rs.Len())
	for _, row := range rs.Rows {
		tables = append(tables, dataset.FormatValue(row["table_name"]))
	}
	return tables, nil
}

// Execute runs query and materializes every row.
func (p *PostgresDataSource) Execute(ctx context.Context, query string) (*dataset.ResultSet, error) {
	if p == nil || p.db == nil {
		return nil, ErrNotConnected
	}

	rows, err := p.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	colTypes, err := rows.ColumnTypes()
	if err != nil {
		return nil, err
	}
	typeNames := make([]string, len(colTypes))
	for i, ct := range colTypes {
		typeNames[i] = ct.DatabaseTypeName()
	}

	var result []dataset.Row
	for rows.Next() {
		values := make([]interface{}, len(columns))
		valuePtrs := make([]interface{}, len(columns))
		for i := range values {
			valuePtrs[i] = &values[i]
		}

		if err := rows.Scan(valuePtrs...); err != nil {
			return nil, err
		}

		row := make(dataset.Row, len(columns))
		for i, col := range columns {
			row[col] = convertValue(values[i], typeNames[i])
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading rows: %w", err)
	}

	return dataset.New(columns, result), nil
}

// convertValue turns driver values into plain Go values. lib/pq hands
// NUMERIC back as text bytes, so those are parsed into float64.
func convertValue(val interface{}, dbType string) interface{} {
	b, ok := val.([]byte)
	if !ok {
		return val
	}

	switch strings.ToUpper(dbType) {
	case "NUMERIC", "DECIMAL", "FLOAT4", "FLOAT8", "INT2", "INT4", "INT8":
		if f, err := strconv.ParseFloat(string(b), 64); err == nil {
			return f
		}
	}
	return string(b)
}
