// Package testutil carries helpers shared by tests across prism packages.
package testutil

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/ajitpratap0/prism/pkg/column"
	"github.com/ajitpratap0/prism/pkg/table"
)

// TestLogger creates a logger that writes through t. Cleanup is handled by
// zaptest when the test finishes.
func TestLogger(t *testing.T) *zap.Logger {
	return zaptest.NewLogger(t)
}

// TestContext returns a context with a 30-second ceiling. The caller must
// invoke cancel.
func TestContext(_ *testing.T) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 30*time.Second)
}

// WriteTempFile writes content under t.TempDir and returns the path.
func WriteTempFile(t *testing.T, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, content, 0o644))
	return path
}

// SampleTable builds the fixture most source and render tests start from:
// three columns, four rows, one missing cell per typed column.
func SampleTable(t *testing.T) *table.Table {
	t.Helper()
	tb, err := table.FromCols(
		table.Col{Name: "id", Values: []int64{1, 2, 3, 4}},
		table.Col{Name: "name", Values: []interface{}{"ada", "grace", nil, "edsger"}},
		table.Col{Name: "score", Values: []interface{}{9.5, nil, 7.25, 8.0}},
	)
	require.NoError(t, err)
	return tb
}

// RequireTableEquivalent fails unless got matches want cell for cell under
// missing-tolerant comparison.
func RequireTableEquivalent(t *testing.T, want, got *table.Table) {
	t.Helper()
	require.Equal(t, want.RowCount(), got.RowCount(), "row count")
	require.Equal(t, want.Names(), got.Names(), "column names")
	require.True(t, table.Equivalent(want, got),
		"tables differ:\nwant %v\ngot  %v", describe(want), describe(got))
}

func describe(tb *table.Table) map[string]interface{} {
	out := make(map[string]interface{}, tb.ColumnCount())
	for _, name := range tb.Names() {
		col, _ := tb.Column(table.Name(name))
		vals := make([]interface{}, col.Len())
		for i := 0; i < col.Len(); i++ {
			vals[i] = col.Get(i)
		}
		out[name+"<"+col.Type().String()+">"] = vals
	}
	return out
}

// RequireColumnValues fails unless the named column holds exactly values,
// with nil marking missing cells.
func RequireColumnValues(t *testing.T, tb *table.Table, name string, values []interface{}) {
	t.Helper()
	col, err := tb.Column(table.Name(name))
	require.NoError(t, err)
	require.Equal(t, len(values), col.Len(), "column %s length", name)
	for i, want := range values {
		if want == nil {
			require.True(t, col.IsNA(i), "column %s row %d should be missing", name, i)
			continue
		}
		cmp := column.Compare(col.Get(i), want)
		require.Equal(t, column.TriTrue, cmp, "column %s row %d: got %v, want %v", name, i, col.Get(i), want)
	}
}
