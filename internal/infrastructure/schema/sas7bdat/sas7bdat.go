// Package sas7bdat extracts column schemas from SAS dataset headers.
package sas7bdat

import (
	"context"
	"io"
	"strings"

	"github.com/kshedden/datareader"

	"github.com/nordstat/datadoc/internal/core/domain"
)

// SAS stores every numeric column as a float. A date or time display
// format is the only signal that a column holds temporal values.
var temporalFormatPrefixes = []string{
	"DATE", "DATETIME", "TIME", "TOD",
	"MMDDYY", "DDMMYY", "YYMMDD", "JULIAN",
	"E8601", "B8601", "IS8601",
	"WEEKDATE", "MONYY", "YYMM", "YYQ",
}

type Reader struct{}

func NewReader() *Reader {
	return &Reader{}
}

func (r *Reader) Columns(_ context.Context, src io.ReaderAt, size int64) ([]domain.ExtractedColumn, error) {
	sas, err := datareader.NewSAS7BDATReader(io.NewSectionReader(src, 0, size))
	if err != nil {
		return nil, domain.WrapError(domain.ErrCorruptFile, "parse sas7bdat header", err)
	}

	names := sas.ColumnNames()
	types := sas.ColumnTypes()
	formats := sas.ColumnFormats

	columns := make([]domain.ExtractedColumn, 0, len(names))
	for i, name := range names {
		format := ""
		if i < len(formats) {
			format = formats[i]
		}
		columns = append(columns, domain.ExtractedColumn{
			ShortName: name,
			DataType:  classify(types[i], format),
		})
	}
	return columns, nil
}

func classify(colType datareader.ColumnTypeT, format string) domain.DataType {
	if colType == datareader.SASStringType {
		return domain.DataTypeString
	}
	if isTemporalFormat(format) {
		return domain.DataTypeDatetime
	}
	return domain.DataTypeFloat
}

func isTemporalFormat(format string) bool {
	format = strings.ToUpper(strings.TrimSpace(format))
	if format == "" {
		return false
	}
	for _, prefix := range temporalFormatPrefixes {
		if strings.HasPrefix(format, prefix) {
			return true
		}
	}
	return false
}
