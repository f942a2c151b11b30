package loader

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// BatchSize is the number of rows sent per COPY.
const BatchSize = 1000

// Loader replaces a table with the contents of a parsed file.
type Loader struct {
	pool *pgxpool.Pool
}

// Connect opens a pgx pool for databaseURL and pings it.
func Connect(ctx context.Context, databaseURL string) (*Loader, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	return &Loader{pool: pool}, nil
}

func (l *Loader) Close() {
	l.pool.Close()
}

// Load drops and recreates table, then copies every row in batches. The
// whole load runs in one transaction so a failure leaves the old table.
// progress, when non-nil, is called after each batch with the rows copied so far.
func (l *Loader) Load(ctx context.Context, table string, t *Table, progress func(done int)) (int64, error) {
	types := InferColumnTypes(t)

	tx, err := l.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s", pgx.Identifier{table}.Sanitize())); err != nil {
		return 0, fmt.Errorf("drop table: %w", err)
	}
	if _, err := tx.Exec(ctx, createTableSQL(table, t.Headers, types)); err != nil {
		return 0, fmt.Errorf("create table: %w", err)
	}

	var total int64
	for start := 0; start < len(t.Rows); start += BatchSize {
		end := start + BatchSize
		if end > len(t.Rows) {
			end = len(t.Rows)
		}
		batch, err := convertRows(t.Rows[start:end], types)
		if err != nil {
			return total, fmt.Errorf("rows %d-%d: %w", start+1, end, err)
		}

		n, err := tx.CopyFrom(ctx, pgx.Identifier{table}, t.Headers, pgx.CopyFromRows(batch))
		if err != nil {
			return total, fmt.Errorf("copy rows %d-%d: %w", start+1, end, err)
		}
		total += n
		slog.Debug("Copied batch", "table", table, "rows", n, "total", total)
		if progress != nil {
			progress(int(total))
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return total, nil
}

func createTableSQL(table string, headers []string, types []ColumnType) string {
	cols := make([]string, len(headers))
	for i, h := range headers {
		cols[i] = fmt.Sprintf("%s %s", pgx.Identifier{h}.Sanitize(), types[i])
	}
	return fmt.Sprintf("CREATE TABLE %s (%s)", pgx.Identifier{table}.Sanitize(), strings.Join(cols, ", "))
}

func convertRows(rows [][]string, types []ColumnType) ([][]interface{}, error) {
	out := make([][]interface{}, len(rows))
	for r, row := range rows {
		values := make([]interface{}, len(types))
		for c, typ := range types {
			v, err := Convert(row[c], typ)
			if err != nil {
				return nil, fmt.Errorf("column %d: %w", c+1, err)
			}
			values[c] = v
		}
		out[r] = values
	}
	return out, nil
}
