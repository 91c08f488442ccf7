// Package arrowio exchanges tables with Apache Arrow. A table maps to one
// Arrow record batch: int, float, string and bool columns use the matching
// primitive arrays, dynamic columns travel as strings, and the validity
// bitmap carries missing cells in both directions.
//
// The IPC helpers are interchange wrappers around the Arrow file format,
// not a persistence commitment.
package arrowio

import (
	"bytes"
	"io"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/ajitpratap0/prism/pkg/column"
	"github.com/ajitpratap0/prism/pkg/errors"
	"github.com/ajitpratap0/prism/pkg/metrics"
	"github.com/ajitpratap0/prism/pkg/mmap"
	stringpool "github.com/ajitpratap0/prism/pkg/strings"
	"github.com/ajitpratap0/prism/pkg/table"
)

// Schema maps the table's columns to an Arrow schema. Every field is
// nullable; the engine has no non-null contract to promise.
func Schema(t *table.Table) (*arrow.Schema, error) {
	fields := make([]arrow.Field, t.ColumnCount())
	for i, name := range t.Names() {
		col, err := t.ColumnAt(i)
		if err != nil {
			return nil, err
		}
		dt, err := arrowType(col.Type())
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeData,
				stringpool.Sprintf("column %q", name))
		}
		fields[i] = arrow.Field{Name: name, Type: dt, Nullable: true}
	}
	return arrow.NewSchema(fields, nil), nil
}

func arrowType(t column.Type) (arrow.DataType, error) {
	switch t {
	case column.TypeInt:
		return arrow.PrimitiveTypes.Int64, nil
	case column.TypeFloat:
		return arrow.PrimitiveTypes.Float64, nil
	case column.TypeString, column.TypeAny:
		return arrow.BinaryTypes.String, nil
	case column.TypeBool:
		return arrow.FixedWidthTypes.Boolean, nil
	default:
		return nil, errors.Newf(errors.ErrorTypeData, "no arrow mapping for element type %s", t)
	}
}

// ToArrow builds one Arrow record batch from the table. The caller owns the
// record and must Release it.
func ToArrow(t *table.Table) (arrow.Record, error) {
	timer := metrics.NewTimer("arrowio.to_arrow")
	defer timer.Stop()

	schema, err := Schema(t)
	if err != nil {
		return nil, err
	}

	rb := array.NewRecordBuilder(memory.NewGoAllocator(), schema)
	defer rb.Release()

	for i := 0; i < t.ColumnCount(); i++ {
		col, err := t.ColumnAt(i)
		if err != nil {
			return nil, err
		}
		if err := appendColumn(rb.Field(i), col); err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeData,
				stringpool.Sprintf("column %q", t.Names()[i]))
		}
	}
	return rb.NewRecord(), nil
}

func appendColumn(b array.Builder, col column.Column) error {
	switch b := b.(type) {
	case *array.Int64Builder:
		for r := 0; r < col.Len(); r++ {
			if col.IsNA(r) {
				b.AppendNull()
				continue
			}
			b.Append(col.Get(r).(int64))
		}
	case *array.Float64Builder:
		for r := 0; r < col.Len(); r++ {
			if col.IsNA(r) {
				b.AppendNull()
				continue
			}
			b.Append(col.Get(r).(float64))
		}
	case *array.StringBuilder:
		for r := 0; r < col.Len(); r++ {
			if col.IsNA(r) {
				b.AppendNull()
				continue
			}
			// Dynamic cells have no Arrow shape of their own; their
			// rendered form is the interchange value.
			b.Append(stringpool.ValueToString(col.Get(r)))
		}
	case *array.BooleanBuilder:
		for r := 0; r < col.Len(); r++ {
			if col.IsNA(r) {
				b.AppendNull()
				continue
			}
			b.Append(col.Get(r).(bool))
		}
	default:
		return errors.Newf(errors.ErrorTypeData, "unsupported arrow builder %T", b)
	}
	return nil
}

// FromArrow builds a table from one Arrow record batch. Nulls become
// missing cells. The record is read, not retained.
func FromArrow(rec arrow.Record) (*table.Table, error) {
	timer := metrics.NewTimer("arrowio.from_arrow")
	defer timer.Stop()

	names := make([]string, rec.NumCols())
	cols := make([]column.Column, rec.NumCols())
	for i := 0; i < int(rec.NumCols()); i++ {
		field := rec.Schema().Field(i)
		col, err := fromArray(rec.Column(i))
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeData,
				stringpool.Sprintf("column %q", field.Name))
		}
		names[i] = field.Name
		cols[i] = col
	}
	return table.New(names, cols)
}

func fromArray(arr arrow.Array) (column.Column, error) {
	switch arr := arr.(type) {
	case *array.Int64:
		col := column.New(column.TypeInt)
		for r := 0; r < arr.Len(); r++ {
			if arr.IsNull(r) {
				col.AppendNA(1)
				continue
			}
			col.Append(arr.Value(r))
		}
		return col, nil
	case *array.Float64:
		col := column.New(column.TypeFloat)
		for r := 0; r < arr.Len(); r++ {
			if arr.IsNull(r) {
				col.AppendNA(1)
				continue
			}
			col.Append(arr.Value(r))
		}
		return col, nil
	case *array.String:
		col := column.New(column.TypeString)
		for r := 0; r < arr.Len(); r++ {
			if arr.IsNull(r) {
				col.AppendNA(1)
				continue
			}
			col.Append(arr.Value(r))
		}
		return col, nil
	case *array.Boolean:
		col := column.New(column.TypeBool)
		for r := 0; r < arr.Len(); r++ {
			if arr.IsNull(r) {
				col.AppendNA(1)
				continue
			}
			col.Append(arr.Value(r))
		}
		return col, nil
	case *array.Binary:
		col := column.New(column.TypeString)
		for r := 0; r < arr.Len(); r++ {
			if arr.IsNull(r) {
				col.AppendNA(1)
				continue
			}
			col.Append(string(arr.Value(r)))
		}
		return col, nil
	default:
		return nil, errors.Newf(errors.ErrorTypeData, "unsupported arrow array %s", arr.DataType())
	}
}

// WriteIPC writes the table as one Arrow IPC file with a single batch.
func WriteIPC(w io.Writer, t *table.Table) error {
	rec, err := ToArrow(t)
	if err != nil {
		return err
	}
	defer rec.Release()

	fw, err := ipc.NewFileWriter(w,
		ipc.WithSchema(rec.Schema()),
		ipc.WithAllocator(memory.NewGoAllocator()))
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "failed to open arrow ipc writer")
	}
	if err := fw.Write(rec); err != nil {
		fw.Close()
		return errors.Wrap(err, errors.ErrorTypeFile, "failed to write arrow ipc batch")
	}
	if err := fw.Close(); err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "failed to close arrow ipc writer")
	}
	metrics.ObserveRows("arrow", t.RowCount(), nil)
	return nil
}

// ReadIPC reads an Arrow IPC file into a table, concatenating batches in
// file order.
func ReadIPC(r io.Reader) (tb *table.Table, err error) {
	defer func() { metrics.ObserveRows("arrow", rowCountOrZero(tb), err) }()

	// The IPC file layout has a trailing footer, so the whole stream is
	// buffered up front.
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeFile, "failed to read arrow ipc data")
	}
	return decodeIPC(data)
}

// ReadIPCFile reads an Arrow IPC file through a memory mapping, giving
// the reader random access to the trailing footer without copying the
// file onto the heap. Decoding copies every cell, so the mapping is
// released before returning.
func ReadIPCFile(path string) (tb *table.Table, err error) {
	defer func() { metrics.ObserveRows("arrow", rowCountOrZero(tb), err) }()

	r, err := mmap.Open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	r.Prefetch(0, r.Size())
	return decodeIPC(r.Bytes())
}

func decodeIPC(data []byte) (*table.Table, error) {
	fr, err := ipc.NewFileReader(bytes.NewReader(data),
		ipc.WithAllocator(memory.NewGoAllocator()))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeFile, "failed to open arrow ipc reader")
	}
	defer fr.Close()

	if fr.NumRecords() == 0 {
		return emptyFromSchema(fr.Schema())
	}

	parts := make([]*table.Table, 0, fr.NumRecords())
	for i := 0; i < fr.NumRecords(); i++ {
		rec, err := fr.Record(i)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeFile,
				stringpool.Sprintf("failed to read arrow ipc batch %d", i))
		}
		part, err := FromArrow(rec)
		if err != nil {
			return nil, err
		}
		parts = append(parts, part)
	}
	if len(parts) == 1 {
		return parts[0], nil
	}
	return table.VConcat(parts...)
}

func emptyFromSchema(schema *arrow.Schema) (*table.Table, error) {
	names := make([]string, schema.NumFields())
	cols := make([]column.Column, schema.NumFields())
	for i := 0; i < schema.NumFields(); i++ {
		field := schema.Field(i)
		t, err := prismType(field.Type)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeData,
				stringpool.Sprintf("column %q", field.Name))
		}
		names[i] = field.Name
		cols[i] = column.New(t)
	}
	return table.New(names, cols)
}

func prismType(dt arrow.DataType) (column.Type, error) {
	switch dt.ID() {
	case arrow.INT64:
		return column.TypeInt, nil
	case arrow.FLOAT64:
		return column.TypeFloat, nil
	case arrow.STRING, arrow.BINARY:
		return column.TypeString, nil
	case arrow.BOOL:
		return column.TypeBool, nil
	default:
		return column.TypeAny, errors.Newf(errors.ErrorTypeData, "unsupported arrow type %s", dt)
	}
}

func rowCountOrZero(t *table.Table) int {
	if t == nil {
		return 0
	}
	return t.RowCount()
}
