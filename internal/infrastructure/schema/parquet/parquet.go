// Package parquet extracts column schemas from parquet footers.
package parquet

import (
	"context"
	"io"

	"github.com/apache/arrow/go/v14/parquet"
	"github.com/apache/arrow/go/v14/parquet/file"
	pqschema "github.com/apache/arrow/go/v14/parquet/schema"

	"github.com/nordstat/datadoc/internal/core/domain"
)

type Reader struct{}

func NewReader() *Reader {
	return &Reader{}
}

// Columns reads the file footer only. Row data is never deserialized.
func (r *Reader) Columns(_ context.Context, src io.ReaderAt, size int64) ([]domain.ExtractedColumn, error) {
	pr, err := file.NewParquetReader(io.NewSectionReader(src, 0, size))
	if err != nil {
		return nil, domain.WrapError(domain.ErrCorruptFile, "parse parquet footer", err)
	}
	defer pr.Close()

	sc := pr.MetaData().Schema
	columns := make([]domain.ExtractedColumn, 0, sc.NumColumns())
	for i := 0; i < sc.NumColumns(); i++ {
		col := sc.Column(i)
		columns = append(columns, domain.ExtractedColumn{
			ShortName: col.Name(),
			DataType:  classify(col.LogicalType(), col.PhysicalType()),
		})
	}
	return columns, nil
}

// classify prefers the logical annotation and falls back to the physical
// encoding when no annotation is present.
func classify(logical pqschema.LogicalType, physical parquet.Type) domain.DataType {
	switch logical.(type) {
	case pqschema.StringLogicalType, *pqschema.StringLogicalType,
		pqschema.EnumLogicalType, *pqschema.EnumLogicalType,
		pqschema.UUIDLogicalType, *pqschema.UUIDLogicalType:
		return domain.DataTypeString
	case pqschema.DateLogicalType, *pqschema.DateLogicalType,
		pqschema.TimeLogicalType, *pqschema.TimeLogicalType,
		pqschema.TimestampLogicalType, *pqschema.TimestampLogicalType:
		return domain.DataTypeDatetime
	case pqschema.DecimalLogicalType, *pqschema.DecimalLogicalType:
		return domain.DataTypeFloat
	case pqschema.IntLogicalType, *pqschema.IntLogicalType:
		return domain.DataTypeInteger
	}

	switch physical {
	case parquet.Types.Boolean:
		return domain.DataTypeBoolean
	case parquet.Types.Int32, parquet.Types.Int64:
		return domain.DataTypeInteger
	case parquet.Types.Float, parquet.Types.Double:
		return domain.DataTypeFloat
	case parquet.Types.Int96:
		// Legacy impala/hive timestamp encoding.
		return domain.DataTypeDatetime
	case parquet.Types.ByteArray, parquet.Types.FixedLenByteArray:
		return domain.DataTypeString
	}
	return ""
}
