package parquet

import (
	"bytes"
	"context"
	"testing"

	pq "github.com/apache/arrow/go/v14/parquet"
	"github.com/apache/arrow/go/v14/parquet/file"
	pqschema "github.com/apache/arrow/go/v14/parquet/schema"

	"github.com/nordstat/datadoc/internal/core/domain"
)

func TestColumnsFromWrittenFile(t *testing.T) {
	fields := pqschema.FieldList{
		pqschema.MustPrimitive(pqschema.NewPrimitiveNodeLogical(
			"id", pq.Repetitions.Optional, pqschema.NewIntLogicalType(64, true), pq.Types.Int64, -1, -1)),
		pqschema.MustPrimitive(pqschema.NewPrimitiveNodeLogical(
			"name", pq.Repetitions.Optional, pqschema.StringLogicalType{}, pq.Types.ByteArray, -1, -1)),
	}
	root := pqschema.MustGroup(pqschema.NewGroupNode("schema", pq.Repetitions.Required, fields, -1))

	var buf bytes.Buffer
	w := file.NewParquetWriter(&buf, root)
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	cols, err := NewReader().Columns(context.Background(), bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		t.Fatalf("Columns() error = %v", err)
	}
	want := []domain.ExtractedColumn{
		{ShortName: "id", DataType: domain.DataTypeInteger},
		{ShortName: "name", DataType: domain.DataTypeString},
	}
	if len(cols) != len(want) {
		t.Fatalf("expected %d columns, got %d", len(want), len(cols))
	}
	for i := range want {
		if cols[i] != want[i] {
			t.Fatalf("column %d = %+v, want %+v", i, cols[i], want[i])
		}
	}
}

func TestColumnsRejectsGarbage(t *testing.T) {
	raw := []byte("PAR1 this is not a parquet file PAR1")
	_, err := NewReader().Columns(context.Background(), bytes.NewReader(raw), int64(len(raw)))
	if !domain.IsKind(err, domain.ErrCorruptFile) {
		t.Fatalf("expected ErrCorruptFile, got %v", err)
	}
}

func TestClassify(t *testing.T) {
	cases := []struct {
		logical  pqschema.LogicalType
		physical pq.Type
		want     domain.DataType
	}{
		{pqschema.StringLogicalType{}, pq.Types.ByteArray, domain.DataTypeString},
		{pqschema.NewIntLogicalType(32, true), pq.Types.Int32, domain.DataTypeInteger},
		{pqschema.NewDecimalLogicalType(10, 2), pq.Types.Int64, domain.DataTypeFloat},
		{pqschema.DateLogicalType{}, pq.Types.Int32, domain.DataTypeDatetime},
		{pqschema.NewTimestampLogicalType(true, pqschema.TimeUnitMillis), pq.Types.Int64, domain.DataTypeDatetime},
		{pqschema.NoLogicalType{}, pq.Types.Boolean, domain.DataTypeBoolean},
		{pqschema.NoLogicalType{}, pq.Types.Int64, domain.DataTypeInteger},
		{pqschema.NoLogicalType{}, pq.Types.Double, domain.DataTypeFloat},
		{pqschema.NoLogicalType{}, pq.Types.Int96, domain.DataTypeDatetime},
		{pqschema.NoLogicalType{}, pq.Types.ByteArray, domain.DataTypeString},
	}
	for _, tc := range cases {
		if got := classify(tc.logical, tc.physical); got != tc.want {
			t.Fatalf("classify(%v, %v) = %q, want %q", tc.logical, tc.physical, got, tc.want)
		}
	}
}
