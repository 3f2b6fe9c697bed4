// Package xlsx extracts column schemas from spreadsheet workbooks.
package xlsx

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/nordstat/datadoc/internal/core/domain"
)

// Spreadsheets carry no declared column types, so types are inferred
// from the first data row. Header names come from the first row of the
// first sheet.
type Reader struct{}

func NewReader() *Reader {
	return &Reader{}
}

func (r *Reader) Columns(_ context.Context, src io.ReaderAt, size int64) ([]domain.ExtractedColumn, error) {
	wb, err := excelize.OpenReader(io.NewSectionReader(src, 0, size))
	if err != nil {
		return nil, domain.WrapError(domain.ErrCorruptFile, "open workbook", err)
	}
	defer wb.Close()

	sheets := wb.GetSheetList()
	if len(sheets) == 0 {
		return nil, domain.WrapError(domain.ErrCorruptFile, "open workbook", fmt.Errorf("no sheets"))
	}

	rows, err := wb.Rows(sheets[0])
	if err != nil {
		return nil, domain.WrapError(domain.ErrCorruptFile, "iterate rows", err)
	}
	defer rows.Close()

	header, err := nextRow(rows)
	if err != nil {
		return nil, err
	}
	if len(header) == 0 {
		return nil, domain.WrapError(domain.ErrCorruptFile, "read header row", fmt.Errorf("empty sheet %q", sheets[0]))
	}
	sample, err := nextRow(rows)
	if err != nil {
		return nil, err
	}

	columns := make([]domain.ExtractedColumn, 0, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		if name == "" {
			// Trailing unnamed cells end the header.
			break
		}
		cell := ""
		if i < len(sample) {
			cell = sample[i]
		}
		columns = append(columns, domain.ExtractedColumn{
			ShortName: name,
			DataType:  inferCellType(cell),
		})
	}
	return columns, nil
}

func nextRow(rows *excelize.Rows) ([]string, error) {
	if !rows.Next() {
		if err := rows.Error(); err != nil {
			return nil, domain.WrapError(domain.ErrCorruptFile, "iterate rows", err)
		}
		return nil, nil
	}
	cells, err := rows.Columns()
	if err != nil {
		return nil, domain.WrapError(domain.ErrCorruptFile, "read row", err)
	}
	return cells, nil
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	"01-02-06",
	"01/02/2006",
	"02.01.2006",
}

func inferCellType(cell string) domain.DataType {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return domain.DataTypeString
	}
	switch strings.ToLower(cell) {
	case "true", "false":
		return domain.DataTypeBoolean
	}
	if _, err := strconv.ParseInt(cell, 10, 64); err == nil {
		return domain.DataTypeInteger
	}
	if _, err := strconv.ParseFloat(cell, 64); err == nil {
		return domain.DataTypeFloat
	}
	for _, layout := range dateLayouts {
		if _, err := time.Parse(layout, cell); err == nil {
			return domain.DataTypeDatetime
		}
	}
	return domain.DataTypeString
}
