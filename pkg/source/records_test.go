package source

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/prism/pkg/column"
	"github.com/ajitpratap0/prism/pkg/errors"
	"github.com/ajitpratap0/prism/pkg/table"
)

func TestFromRecords(t *testing.T) {
	tb, err := FromRecords([]map[string]interface{}{
		{"id": int64(1), "name": "ada", "score": 9.5},
		{"id": int64(2), "name": "grace"},
	}, "id", "name")
	require.NoError(t, err)

	assert.Equal(t, []string{"id", "name", "score"}, tb.Names(),
		"ordered names first, then remaining keys sorted")
	assert.Equal(t, 2, tb.RowCount())

	v, err := tb.At(1, table.Name("score"))
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestFromRecordsSortsUnorderedKeys(t *testing.T) {
	tb, err := FromRecords([]map[string]interface{}{
		{"zeta": 1, "alpha": 2, "mid": 3},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "mid", "zeta"}, tb.Names())
}

func TestFromRecordsDuplicateOrder(t *testing.T) {
	_, err := FromRecords([]map[string]interface{}{{"a": 1}}, "a", "a")
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeDuplicateColumn))
}

func TestFromRecordsEmptyWithOrder(t *testing.T) {
	tb, err := FromRecords(nil, "a", "b")
	require.NoError(t, err)
	assert.Equal(t, 0, tb.RowCount())
	assert.Equal(t, []string{"a", "b"}, tb.Names())
}

func TestFromRows(t *testing.T) {
	tb, err := FromRows([][]interface{}{
		{int64(1), "x", true},
		{int64(2), nil, false},
	}, []string{"id", "tag", "ok"})
	require.NoError(t, err)

	assert.Equal(t, []column.Type{column.TypeInt, column.TypeString, column.TypeBool}, tb.Types())

	v, err := tb.At(1, table.Name("tag"))
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestFromRowsWidthMismatch(t *testing.T) {
	_, err := FromRows([][]interface{}{
		{1, 2},
		{3},
	}, []string{"a", "b"})
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeLengthMismatch))
}

func TestFromRowsDuplicateNames(t *testing.T) {
	_, err := FromRows([][]interface{}{{1, 2}}, []string{"a", "a"})
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeDuplicateColumn))
}

func TestFromRowsMixedTypesWidenToAny(t *testing.T) {
	tb, err := FromRows([][]interface{}{
		{int64(1)},
		{"two"},
	}, []string{"v"})
	require.NoError(t, err)

	col, err := tb.Column(table.Name("v"))
	require.NoError(t, err)
	assert.Equal(t, column.TypeAny, col.Type())
	assert.Equal(t, int64(1), col.Get(0))
	assert.Equal(t, "two", col.Get(1))
}
