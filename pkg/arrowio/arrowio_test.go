package arrowio

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/prism/pkg/column"
	"github.com/ajitpratap0/prism/pkg/errors"
	"github.com/ajitpratap0/prism/pkg/table"
	"github.com/ajitpratap0/prism/pkg/testutil"
)

func TestSchema(t *testing.T) {
	tbl := testutil.SampleTable(t)

	schema, err := Schema(tbl)
	require.NoError(t, err)
	require.Equal(t, 3, schema.NumFields())

	assert.Equal(t, "id", schema.Field(0).Name)
	assert.Equal(t, arrow.PrimitiveTypes.Int64, schema.Field(0).Type)
	assert.Equal(t, arrow.BinaryTypes.String, schema.Field(1).Type)
	assert.Equal(t, arrow.PrimitiveTypes.Float64, schema.Field(2).Type)
	assert.True(t, schema.Field(0).Nullable)
}

func TestToArrowCarriesNulls(t *testing.T) {
	tbl := testutil.SampleTable(t)

	rec, err := ToArrow(tbl)
	require.NoError(t, err)
	defer rec.Release()

	assert.Equal(t, int64(4), rec.NumRows())
	assert.Equal(t, int64(3), rec.NumCols())

	ids := rec.Column(0).(*array.Int64)
	assert.Equal(t, int64(1), ids.Value(0))
	assert.Equal(t, 0, ids.NullN())

	names := rec.Column(1).(*array.String)
	assert.Equal(t, "ada", names.Value(0))
	assert.True(t, names.IsNull(2))

	scores := rec.Column(2).(*array.Float64)
	assert.True(t, scores.IsNull(1))
	assert.Equal(t, 7.25, scores.Value(2))
}

func TestRoundTrip(t *testing.T) {
	tbl := testutil.SampleTable(t)

	rec, err := ToArrow(tbl)
	require.NoError(t, err)
	defer rec.Release()

	back, err := FromArrow(rec)
	require.NoError(t, err)
	testutil.RequireTableEquivalent(t, tbl, back)
}

func TestRoundTripBool(t *testing.T) {
	tbl, err := table.FromCols(
		table.Col{Name: "flag", Values: []interface{}{true, nil, false}},
	)
	require.NoError(t, err)

	rec, err := ToArrow(tbl)
	require.NoError(t, err)
	defer rec.Release()

	back, err := FromArrow(rec)
	require.NoError(t, err)
	require.Equal(t, []column.Type{column.TypeBool}, back.Types())
	testutil.RequireColumnValues(t, back, "flag", []interface{}{true, nil, false})
}

func TestAnyColumnTravelsAsText(t *testing.T) {
	tbl, err := table.FromCols(
		table.Col{Name: "mixed", Values: []interface{}{int64(1), "x", nil}},
	)
	require.NoError(t, err)
	require.Equal(t, []column.Type{column.TypeAny}, tbl.Types())

	rec, err := ToArrow(tbl)
	require.NoError(t, err)
	defer rec.Release()

	back, err := FromArrow(rec)
	require.NoError(t, err)
	require.Equal(t, []column.Type{column.TypeString}, back.Types())
	testutil.RequireColumnValues(t, back, "mixed", []interface{}{"1", "x", nil})
}

func TestFromArrowBinary(t *testing.T) {
	pool := memory.NewGoAllocator()
	bb := array.NewBinaryBuilder(pool, arrow.BinaryTypes.Binary)
	defer bb.Release()
	bb.Append([]byte("raw"))
	bb.AppendNull()
	arr := bb.NewArray()
	defer arr.Release()

	schema := arrow.NewSchema([]arrow.Field{
		{Name: "payload", Type: arrow.BinaryTypes.Binary, Nullable: true},
	}, nil)
	rec := array.NewRecord(schema, []arrow.Array{arr}, 2)
	defer rec.Release()

	back, err := FromArrow(rec)
	require.NoError(t, err)
	require.Equal(t, []column.Type{column.TypeString}, back.Types())
	testutil.RequireColumnValues(t, back, "payload", []interface{}{"raw", nil})
}

func TestFromArrowUnsupportedType(t *testing.T) {
	pool := memory.NewGoAllocator()
	ib := array.NewInt32Builder(pool)
	defer ib.Release()
	ib.Append(5)
	arr := ib.NewArray()
	defer arr.Release()

	schema := arrow.NewSchema([]arrow.Field{
		{Name: "narrow", Type: arrow.PrimitiveTypes.Int32, Nullable: true},
	}, nil)
	rec := array.NewRecord(schema, []arrow.Array{arr}, 1)
	defer rec.Release()

	_, err := FromArrow(rec)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeData))
}

func TestWriteReadIPC(t *testing.T) {
	tbl := testutil.SampleTable(t)

	var buf bytes.Buffer
	require.NoError(t, WriteIPC(&buf, tbl))

	back, err := ReadIPC(&buf)
	require.NoError(t, err)
	testutil.RequireTableEquivalent(t, tbl, back)
}

func TestWriteReadIPCZeroRows(t *testing.T) {
	tbl, err := table.New(
		[]string{"a", "b"},
		[]column.Column{column.New(column.TypeInt), column.New(column.TypeString)},
	)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteIPC(&buf, tbl))

	back, readErr := ReadIPC(&buf)
	require.NoError(t, readErr)
	assert.Equal(t, 0, back.RowCount())
	assert.Equal(t, []string{"a", "b"}, back.Names())
	assert.Equal(t, []column.Type{column.TypeInt, column.TypeString}, back.Types())
}

func TestReadIPCGarbage(t *testing.T) {
	_, err := ReadIPC(bytes.NewReader([]byte("not an arrow file")))
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeFile))
}

func TestReadIPCFile(t *testing.T) {
	tbl := testutil.SampleTable(t)

	path := filepath.Join(t.TempDir(), "sample.arrow")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, WriteIPC(f, tbl))
	require.NoError(t, f.Close())

	back, err := ReadIPCFile(path)
	require.NoError(t, err)
	testutil.RequireTableEquivalent(t, tbl, back)
}

func TestReadIPCFileMissing(t *testing.T) {
	_, err := ReadIPCFile(filepath.Join(t.TempDir(), "absent.arrow"))
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeFile))
}
