package source

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/prism/pkg/column"
	"github.com/ajitpratap0/prism/pkg/config"
	"github.com/ajitpratap0/prism/pkg/errors"
	"github.com/ajitpratap0/prism/pkg/table"
)

func jsonOptions(data string) JSONOptions {
	return JSONOptions{Reader: strings.NewReader(data), Config: config.NewOptions()}
}

func TestReadJSONArray(t *testing.T) {
	tb, err := ReadJSON(jsonOptions(`[
		{"b": 1, "a": "x"},
		{"a": "y", "c": 2.5}
	]`))
	require.NoError(t, err)

	assert.Equal(t, 2, tb.RowCount())
	assert.Equal(t, []string{"b", "a", "c"}, tb.Names(), "first-appearance order")
	assert.Equal(t, []column.Type{column.TypeInt, column.TypeString, column.TypeFloat}, tb.Types())

	v, err := tb.At(1, table.Name("b"))
	require.NoError(t, err)
	assert.Nil(t, v, "absent key reads back as missing")

	v, err = tb.At(0, table.Name("c"))
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestReadJSONLines(t *testing.T) {
	tb, err := ReadJSON(jsonOptions(
		`{"id": 1, "name": "ada"}` + "\n" +
			`{"id": 2, "name": "grace"}` + "\n"))
	require.NoError(t, err)

	assert.Equal(t, 2, tb.RowCount())
	assert.Equal(t, []string{"id", "name"}, tb.Names())

	v, err := tb.At(1, table.Name("name"))
	require.NoError(t, err)
	assert.Equal(t, "grace", v)
}

func TestReadJSONIntegerPrecision(t *testing.T) {
	tb, err := ReadJSON(jsonOptions(`[{"id": 9007199254740993}]`))
	require.NoError(t, err)

	col, err := tb.Column(table.Name("id"))
	require.NoError(t, err)
	assert.Equal(t, column.TypeInt, col.Type())
	assert.Equal(t, int64(9007199254740993), col.Get(0), "big ints keep full precision")
}

func TestReadJSONMixedNumbers(t *testing.T) {
	tb, err := ReadJSON(jsonOptions(`[{"v": 1}, {"v": 2.5}]`))
	require.NoError(t, err)

	col, err := tb.Column(table.Name("v"))
	require.NoError(t, err)
	assert.Equal(t, column.TypeFloat, col.Type(), "int and float promote to float")
	assert.Equal(t, 1.0, col.Get(0))
	assert.Equal(t, 2.5, col.Get(1))
}

func TestReadJSONNullsAndBools(t *testing.T) {
	tb, err := ReadJSON(jsonOptions(`[{"ok": true, "note": null}, {"ok": false, "note": "fine"}]`))
	require.NoError(t, err)

	ok, err := tb.Column(table.Name("ok"))
	require.NoError(t, err)
	assert.Equal(t, column.TypeBool, ok.Type())

	note, err := tb.Column(table.Name("note"))
	require.NoError(t, err)
	assert.True(t, note.IsNA(0))
	assert.Equal(t, "fine", note.Get(1))
}

func TestReadJSONNestedValues(t *testing.T) {
	tb, err := ReadJSON(jsonOptions(`[{"tags": ["a", "b"], "n": 1}]`))
	require.NoError(t, err)

	tags, err := tb.Column(table.Name("tags"))
	require.NoError(t, err)
	assert.Equal(t, column.TypeAny, tags.Type())
	assert.Equal(t, []interface{}{"a", "b"}, tags.Get(0))
}

func TestReadJSONNestedNumbersNormalized(t *testing.T) {
	tb, err := ReadJSON(jsonOptions(`[{"m": {"count": 3}}]`))
	require.NoError(t, err)

	m, err := tb.Column(table.Name("m"))
	require.NoError(t, err)
	cell, ok := m.Get(0).(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, int64(3), cell["count"], "nested numbers normalize to go ints")
}

func TestReadJSONNonObjectRow(t *testing.T) {
	_, err := ReadJSON(jsonOptions(`[1, 2, 3]`))
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeData))
}

func TestReadJSONEmptyInput(t *testing.T) {
	_, err := ReadJSON(jsonOptions(""))
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeEmptyResult))
}

func TestReadJSONEmptyArray(t *testing.T) {
	tb, err := ReadJSON(jsonOptions(`[]`))
	require.NoError(t, err)
	assert.Equal(t, 0, tb.RowCount())
	assert.Equal(t, 0, tb.ColumnCount())
}

func TestReadJSONPoolsDisabled(t *testing.T) {
	cfg := config.NewOptions()
	cfg.Memory.EnablePools = false

	opts := jsonOptions(`[{"a": 1}]`)
	opts.Config = cfg

	tb, err := ReadJSON(opts)
	require.NoError(t, err)
	assert.Equal(t, 1, tb.RowCount())
}

func TestNewJSONOptionsLinesDetection(t *testing.T) {
	assert.True(t, NewJSONOptions("rows.jsonl").Lines)
	assert.True(t, NewJSONOptions("rows.ndjson.gz").Lines, "extension check sees through compression")
	assert.False(t, NewJSONOptions("rows.json").Lines)
}
