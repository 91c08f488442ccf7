package source

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"go.uber.org/zap"

	"github.com/ajitpratap0/prism/pkg/config"
	"github.com/ajitpratap0/prism/pkg/errors"
	"github.com/ajitpratap0/prism/pkg/logger"
	"github.com/ajitpratap0/prism/pkg/metrics"
	"github.com/ajitpratap0/prism/pkg/observability"
	"github.com/ajitpratap0/prism/pkg/table"
)

// Querier is the slice of pgx that QueryTable needs. *pgx.Conn and
// *pgxpool.Pool both satisfy it.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// QueryTable runs query and drains the result into a table. Column names
// come from the field descriptions, values from pgx's native decoding.
func QueryTable(ctx context.Context, q Querier, query string, args ...interface{}) (*table.Table, error) {
	return QueryTableWithConfig(ctx, nil, q, query, args...)
}

// QueryTableWithConfig is QueryTable under explicit engine options.
func QueryTableWithConfig(ctx context.Context, cfg *config.Options, q Querier, query string, args ...interface{}) (*table.Table, error) {
	timer := metrics.NewTimer("source.postgres.query")
	defer timer.Stop()

	var tb *table.Table
	err := observability.Trace(ctx, "source.postgres.query", func(ctx context.Context) error {
		var err error
		tb, err = queryTable(ctx, cfg, q, query, args...)
		return err
	})
	n := 0
	if tb != nil {
		n = tb.RowCount()
	}
	metrics.ObserveRows("postgres", n, err)
	return tb, err
}

func queryTable(ctx context.Context, cfg *config.Options, q Querier, query string, args ...interface{}) (*table.Table, error) {
	metrics.ActiveQueries.WithLabelValues("postgres").Inc()
	defer metrics.ActiveQueries.WithLabelValues("postgres").Dec()

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeQuery, "query failed")
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	names := make([]string, len(fields))
	for i, fd := range fields {
		names[i] = fd.Name
	}

	b := newBuilder(cfg)
	b.setNames(uniqueNames(names))

	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeQuery, "failed to decode row").
				WithDetail("row", b.rows)
		}
		cells := make([]interface{}, len(values))
		for i, v := range values {
			cells[i] = normalizePostgres(v)
		}
		if err := b.appendCells(cells); err != nil {
			return nil, err
		}
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeQuery, "result iteration failed")
	}

	tb, err := b.build(nil)
	if err != nil {
		return nil, err
	}
	logger.Get().Debug("postgres result loaded",
		zap.String("query", query),
		zap.Int("rows", tb.RowCount()),
		zap.Int("columns", tb.ColumnCount()))
	return tb, nil
}

// normalizePostgres maps pgx decoded values onto column cells. Numerics
// flatten to float64, bytea to string; anything exotic rides through to an
// Any column.
func normalizePostgres(v interface{}) interface{} {
	switch t := v.(type) {
	case pgtype.Numeric:
		f, err := t.Float64Value()
		if err != nil || !f.Valid {
			return nil
		}
		return f.Float64
	case []byte:
		return string(t)
	default:
		return v
	}
}
