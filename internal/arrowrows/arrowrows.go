// Package arrowrows converts between Arrow tables and grid rows.
package arrowrows

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/compress"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"

	"github.com/jask/gridkit/datagrid"
)

// timestampType is used for every time column.
var timestampType = arrow.FixedWidthTypes.Timestamp_us

var compressionCodec = compress.Codecs.Snappy

// InferType picks the Arrow type of a column from its values: int64 when
// every value is an integer, float64 when numbers mix, boolean, timestamp,
// and utf8 for anything else. Nil values do not vote; an all-nil column is utf8.
func InferType(col datagrid.Column, rows []datagrid.Row) arrow.DataType {
	var ints, floats, bools, times, other int
	for _, r := range rows {
		switch col.Value(r).(type) {
		case nil:
		case int, int8, int16, int32, int64, uint8, uint16, uint32:
			ints++
		case float32, float64:
			floats++
		case bool:
			bools++
		case time.Time:
			times++
		default:
			other++
		}
	}
	switch {
	case other > 0:
		return arrow.BinaryTypes.String
	case ints > 0 && bools == 0 && times == 0 && floats == 0:
		return arrow.PrimitiveTypes.Int64
	case ints+floats > 0 && bools == 0 && times == 0:
		return arrow.PrimitiveTypes.Float64
	case bools > 0 && ints+floats+times == 0:
		return arrow.FixedWidthTypes.Boolean
	case times > 0 && ints+floats+bools == 0:
		return timestampType
	}
	return arrow.BinaryTypes.String
}

// Schema returns the Arrow schema of columns over rows. Field names are the
// column keys; every field is nullable.
func Schema(columns []datagrid.Column, rows []datagrid.Row) *arrow.Schema {
	fields := make([]arrow.Field, len(columns))
	for i, c := range columns {
		md := arrow.NewMetadata([]string{"title"}, []string{c.Title})
		fields[i] = arrow.Field{Name: c.Key, Type: InferType(c, rows), Nullable: true, Metadata: md}
	}
	return arrow.NewSchema(fields, nil)
}

// ToRecord builds one record holding rows in order. The caller releases it.
func ToRecord(mem memory.Allocator, columns []datagrid.Column, rows []datagrid.Row) (arrow.Record, error) {
	if mem == nil {
		mem = memory.NewGoAllocator()
	}
	schema := Schema(columns, rows)
	b := array.NewRecordBuilder(mem, schema)
	defer b.Release()

	for i, c := range columns {
		fb := b.Field(i)
		for _, r := range rows {
			if err := appendValue(fb, c.Value(r)); err != nil {
				return nil, fmt.Errorf("column %s: %w", c.Key, err)
			}
		}
	}
	return b.NewRecord(), nil
}

// ToTable is ToRecord wrapped as a table. The caller releases it.
func ToTable(mem memory.Allocator, columns []datagrid.Column, rows []datagrid.Row) (arrow.Table, error) {
	rec, err := ToRecord(mem, columns, rows)
	if err != nil {
		return nil, err
	}
	defer rec.Release()
	return array.NewTableFromRecords(rec.Schema(), []arrow.Record{rec}), nil
}

func appendValue(b array.Builder, v any) error {
	if v == nil {
		b.AppendNull()
		return nil
	}
	switch fb := b.(type) {
	case *array.StringBuilder:
		fb.Append(datagrid.FormatValue(v))
	case *array.Int64Builder:
		n, ok := asInt64(v)
		if !ok {
			return fmt.Errorf("value %v is not an integer", v)
		}
		fb.Append(n)
	case *array.Float64Builder:
		f, ok := asFloat64(v)
		if !ok {
			return fmt.Errorf("value %v is not a number", v)
		}
		fb.Append(f)
	case *array.BooleanBuilder:
		fb.Append(v.(bool))
	case *array.TimestampBuilder:
		ts, err := arrow.TimestampFromTime(v.(time.Time), arrow.Microsecond)
		if err != nil {
			return err
		}
		fb.Append(ts)
	default:
		return fmt.Errorf("unsupported builder %T", b)
	}
	return nil
}

func asInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint8:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint32:
		return int64(n), true
	}
	return 0, false
}

func asFloat64(v any) (float64, bool) {
	if n, ok := asInt64(v); ok {
		return float64(n), true
	}
	switch n := v.(type) {
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

// FromTable converts a table into rows keyed by field name and columns
// describing each field. Column titles come from field metadata when present.
func FromTable(tbl arrow.Table) ([]datagrid.Column, []datagrid.Row, error) {
	schema := tbl.Schema()
	columns := make([]datagrid.Column, schema.NumFields())
	for i, f := range schema.Fields() {
		title := f.Name
		if idx := f.Metadata.FindKey("title"); idx >= 0 && f.Metadata.Values()[idx] != "" {
			title = f.Metadata.Values()[idx]
		}
		columns[i] = datagrid.Column{Key: f.Name, Title: title, Sortable: true}
	}

	rows := make([]datagrid.Row, 0, tbl.NumRows())
	tr := array.NewTableReader(tbl, tbl.NumRows())
	defer tr.Release()
	for tr.Next() {
		rec := tr.Record()
		for pos := 0; pos < int(rec.NumRows()); pos++ {
			row := make(datagrid.Row, rec.NumCols())
			for c, col := range rec.Columns() {
				v, err := Value(col, pos)
				if err != nil {
					return nil, nil, fmt.Errorf("field %s: %w", schema.Field(c).Name, err)
				}
				if v != nil {
					row[schema.Field(c).Name] = v
				}
			}
			rows = append(rows, row)
		}
	}
	if err := tr.Err(); err != nil {
		return nil, nil, fmt.Errorf("read table: %w", err)
	}
	return columns, rows, nil
}

// Value returns the Go value at pos, nil for nulls.
func Value(col arrow.Array, pos int) (any, error) {
	if col.IsNull(pos) {
		return nil, nil
	}
	switch a := col.(type) {
	case *array.String:
		return a.Value(pos), nil
	case *array.LargeString:
		return a.Value(pos), nil
	case *array.Binary:
		return string(a.Value(pos)), nil
	case *array.Boolean:
		return a.Value(pos), nil
	case *array.Int8:
		return int64(a.Value(pos)), nil
	case *array.Int16:
		return int64(a.Value(pos)), nil
	case *array.Int32:
		return int64(a.Value(pos)), nil
	case *array.Int64:
		return a.Value(pos), nil
	case *array.Uint8:
		return uint64(a.Value(pos)), nil
	case *array.Uint16:
		return uint64(a.Value(pos)), nil
	case *array.Uint32:
		return uint64(a.Value(pos)), nil
	case *array.Uint64:
		return a.Value(pos), nil
	case *array.Float32:
		return float64(a.Value(pos)), nil
	case *array.Float64:
		return a.Value(pos), nil
	case *array.Date32:
		return a.Value(pos).ToTime().UTC(), nil
	case *array.Date64:
		return a.Value(pos).ToTime().UTC(), nil
	case *array.Timestamp:
		unit := a.DataType().(*arrow.TimestampType).Unit
		return a.Value(pos).ToTime(unit).UTC(), nil
	}
	return nil, fmt.Errorf("unsupported arrow type %s", col.DataType())
}

// ReadParquet reads a parquet file into columns and rows.
func ReadParquet(ctx context.Context, path string) ([]datagrid.Column, []datagrid.Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open parquet file: %w", err)
	}
	defer f.Close()

	tbl, err := pqarrow.ReadTable(ctx, f, parquet.NewReaderProperties(memory.DefaultAllocator), pqarrow.ArrowReadProperties{}, memory.DefaultAllocator)
	if err != nil {
		return nil, nil, fmt.Errorf("read parquet data: %w", err)
	}
	defer tbl.Release()
	return FromTable(tbl)
}

// WriteParquet writes columns over rows as parquet to w.
func WriteParquet(w io.Writer, columns []datagrid.Column, rows []datagrid.Row) error {
	tbl, err := ToTable(memory.NewGoAllocator(), columns, rows)
	if err != nil {
		return err
	}
	defer tbl.Release()

	props := parquet.NewWriterProperties(parquet.WithCompression(compressionCodec))
	arrowProps := pqarrow.NewArrowWriterProperties(pqarrow.WithStoreSchema())
	writer, err := pqarrow.NewFileWriter(tbl.Schema(), w, props, arrowProps)
	if err != nil {
		return fmt.Errorf("create parquet writer: %w", err)
	}
	if err := writer.WriteTable(tbl, max(1, tbl.NumRows())); err != nil {
		_ = writer.Close()
		return fmt.Errorf("write table to parquet: %w", err)
	}
	return writer.Close()
}
