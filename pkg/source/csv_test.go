package source

import (
	"compress/gzip"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/prism/pkg/column"
	"github.com/ajitpratap0/prism/pkg/config"
	"github.com/ajitpratap0/prism/pkg/errors"
	"github.com/ajitpratap0/prism/pkg/table"
)

func csvOptions(data string) CSVOptions {
	opts := NewCSVOptions("")
	opts.Reader = strings.NewReader(data)
	return opts
}

func TestReadCSVBasic(t *testing.T) {
	tb, err := ReadCSV(csvOptions(
		"id,name,score,active\n" +
			"1,ada,9.5,true\n" +
			"2,grace,NA,false\n" +
			"3,,7.25,true\n"))
	require.NoError(t, err)

	assert.Equal(t, 3, tb.RowCount())
	assert.Equal(t, []string{"id", "name", "score", "active"}, tb.Names())
	assert.Equal(t, []column.Type{column.TypeInt, column.TypeString, column.TypeFloat, column.TypeBool}, tb.Types())

	v, err := tb.At(0, table.Name("id"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), v)

	v, err = tb.At(1, table.Name("score"))
	require.NoError(t, err)
	assert.Nil(t, v, "NA token should read back as missing")

	v, err = tb.At(2, table.Name("name"))
	require.NoError(t, err)
	assert.Nil(t, v, "empty cell should read back as missing")
}

func TestReadCSVHeaderless(t *testing.T) {
	opts := csvOptions("1,one\n2,two\n")
	opts.HasHeader = false

	tb, err := ReadCSV(opts)
	require.NoError(t, err)
	assert.Equal(t, []string{"x1", "x2"}, tb.Names())
	assert.Equal(t, 2, tb.RowCount())
}

func TestReadCSVInferenceSampleWindow(t *testing.T) {
	cfg := config.NewOptions()
	cfg.Source.InferenceRows = 2

	opts := csvOptions("n\n1\n2\nnot-a-number\n")
	opts.Config = cfg

	tb, err := ReadCSV(opts)
	require.NoError(t, err)

	col, err := tb.Column(table.Name("n"))
	require.NoError(t, err)
	assert.Equal(t, column.TypeInt, col.Type(), "sample saw only ints")
	assert.True(t, col.IsNA(2), "post-sample misfit degrades to missing")
	assert.Equal(t, int64(2), col.Get(1))
}

func TestReadCSVTypeHints(t *testing.T) {
	opts := csvOptions("id,qty\n001,5\n002,6\n")
	opts.TypeHints = map[string]column.Type{"id": column.TypeString}

	tb, err := ReadCSV(opts)
	require.NoError(t, err)

	col, err := tb.Column(table.Name("id"))
	require.NoError(t, err)
	assert.Equal(t, column.TypeString, col.Type())
	assert.Equal(t, "001", col.Get(0), "hinted string keeps leading zeros")

	qty, err := tb.Column(table.Name("qty"))
	require.NoError(t, err)
	assert.Equal(t, column.TypeInt, qty.Type())
}

func TestReadCSVDelimiter(t *testing.T) {
	opts := csvOptions("a;b\n1;2\n")
	opts.Delimiter = ';'

	tb, err := ReadCSV(opts)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, tb.Names())
}

func TestReadCSVDuplicateHeader(t *testing.T) {
	tb, err := ReadCSV(csvOptions("a,a,b\n1,2,3\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "a_1", "b"}, tb.Names())
}

func TestReadCSVShortRowPadsNA(t *testing.T) {
	tb, err := ReadCSV(csvOptions("a,b,c\n1,2\n"))
	require.NoError(t, err)

	v, err := tb.At(0, table.Name("c"))
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestReadCSVLongRowFails(t *testing.T) {
	_, err := ReadCSV(csvOptions("a,b\n1,2,3\n"))
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeData))
}

func TestReadCSVEmptyInput(t *testing.T) {
	_, err := ReadCSV(csvOptions(""))
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeEmptyResult))
}

func TestReadCSVHeaderOnly(t *testing.T) {
	tb, err := ReadCSV(csvOptions("a,b\n"))
	require.NoError(t, err)
	assert.Equal(t, 0, tb.RowCount())
	assert.Equal(t, []string{"a", "b"}, tb.Names())
}

func TestReadCSVAllNAColumnUsesDefaultType(t *testing.T) {
	tb, err := ReadCSV(csvOptions("a,b\n1,NA\n2,NA\n"))
	require.NoError(t, err)

	col, err := tb.Column(table.Name("b"))
	require.NoError(t, err)
	assert.Equal(t, column.TypeFloat, col.Type())
	assert.True(t, col.IsNA(0))
	assert.True(t, col.IsNA(1))
}

func TestReadCSVDictEncoding(t *testing.T) {
	cfg := config.NewOptions()
	cfg.Engine.DictEncodeStrings = true

	opts := csvOptions("city\nparis\nparis\nlondon\n")
	opts.Config = cfg

	tb, err := ReadCSV(opts)
	require.NoError(t, err)

	col, err := tb.Column(table.Name("city"))
	require.NoError(t, err)
	sc, ok := col.(*column.StringColumn)
	require.True(t, ok)
	encoded, cardinality := sc.DictStats()
	assert.True(t, encoded)
	assert.Equal(t, 2, cardinality)
	assert.Equal(t, "paris", sc.Get(1))
}

func TestLoadCSVGzip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.csv.gz")
	f, err := os.Create(path)
	require.NoError(t, err)
	zw := gzip.NewWriter(f)
	_, err = zw.Write([]byte("a,b\n1,x\n2,y\n"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())

	tb, err := LoadCSV(path)
	require.NoError(t, err)
	assert.Equal(t, 2, tb.RowCount())
	assert.Equal(t, []string{"a", "b"}, tb.Names())

	v, err := tb.At(1, table.Name("b"))
	require.NoError(t, err)
	assert.Equal(t, "y", v)
}

func TestReadCSVMissingFile(t *testing.T) {
	_, err := LoadCSV(filepath.Join(t.TempDir(), "absent.csv"))
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeFile))
}

func TestTokenTypeLadder(t *testing.T) {
	cases := map[string]column.Type{
		"5":       column.TypeInt,
		"-12":     column.TypeInt,
		"5.5":     column.TypeFloat,
		"1e3":     column.TypeFloat,
		"true":    column.TypeBool,
		"FALSE":   column.TypeBool,
		"1":       column.TypeInt, // int wins over bool
		"hello":   column.TypeString,
		"2024-01": column.TypeString,
	}
	for token, want := range cases {
		assert.Equal(t, want, tokenType(token), "token %q", token)
	}
}

func TestInferTokenTypePromotion(t *testing.T) {
	vals := func(ss ...string) []interface{} {
		out := make([]interface{}, len(ss))
		for i, s := range ss {
			out[i] = s
		}
		return out
	}

	assert.Equal(t, column.TypeFloat, inferTokenType(vals("1", "2.5"), column.TypeFloat))
	assert.Equal(t, column.TypeString, inferTokenType(vals("1", "true"), column.TypeFloat))
	assert.Equal(t, column.TypeString, inferTokenType(vals("1", "x"), column.TypeFloat))
	assert.Equal(t, column.TypeBool, inferTokenType(vals("true", "false"), column.TypeFloat))
	assert.Equal(t, column.TypeFloat, inferTokenType(vals(), column.TypeFloat), "no signal falls back")
}
