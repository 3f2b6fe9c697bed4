// Package schema reads variable schemas out of physical dataset files.
// Only header metadata is touched, so memory use stays bounded regardless
// of dataset size.
package schema

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/nordstat/datadoc/internal/core/domain"
	"github.com/nordstat/datadoc/internal/infrastructure/schema/parquet"
	"github.com/nordstat/datadoc/internal/infrastructure/schema/sas7bdat"
	"github.com/nordstat/datadoc/internal/infrastructure/schema/xlsx"
)

// formatReader is implemented by each dataset format package.
type formatReader interface {
	Columns(ctx context.Context, src io.ReaderAt, size int64) ([]domain.ExtractedColumn, error)
}

// Service selects the right format reader per dataset file and validates
// the extracted column list. It implements ports.SchemaExtractor.
type Service struct {
	parquet  formatReader
	sas7bdat formatReader
	xlsx     formatReader
}

func NewService() *Service {
	return &Service{
		parquet:  parquet.NewReader(),
		sas7bdat: sas7bdat.NewReader(),
		xlsx:     xlsx.NewReader(),
	}
}

func (s *Service) ExtractSchema(ctx context.Context, datasetPath string) ([]domain.ExtractedColumn, error) {
	f, err := os.Open(datasetPath)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat dataset: %w", err)
	}

	reader, err := s.readerFor(datasetPath, f)
	if err != nil {
		return nil, err
	}

	columns, err := reader.Columns(ctx, f, info.Size())
	if err != nil {
		return nil, err
	}
	if err := validateColumns(columns); err != nil {
		return nil, err
	}
	return columns, nil
}

// readerFor picks a format by file extension first and falls back to
// magic-byte sniffing for files with unhelpful names.
func (s *Service) readerFor(datasetPath string, src io.ReaderAt) (formatReader, error) {
	name := strings.ToLower(datasetPath)
	switch {
	case strings.HasSuffix(name, ".parquet"), strings.HasSuffix(name, ".parquet.gzip"):
		return s.parquet, nil
	case strings.HasSuffix(name, ".sas7bdat"):
		return s.sas7bdat, nil
	case strings.HasSuffix(name, ".xlsx"):
		return s.xlsx, nil
	}

	magic := make([]byte, 4)
	if _, err := src.ReadAt(magic, 0); err == nil {
		switch {
		case string(magic) == "PAR1":
			return s.parquet, nil
		case string(magic[:2]) == "PK":
			return s.xlsx, nil
		}
	}

	return nil, domain.WrapError(domain.ErrUnsupportedFormat, "select dataset format",
		fmt.Errorf("%s: supported formats are parquet, sas7bdat, xlsx", datasetPath))
}

func validateColumns(columns []domain.ExtractedColumn) error {
	if len(columns) == 0 {
		return domain.WrapError(domain.ErrCorruptFile, "validate dataset schema",
			fmt.Errorf("no columns in header"))
	}
	seen := make(map[string]struct{}, len(columns))
	for _, col := range columns {
		if col.ShortName == "" {
			return domain.WrapError(domain.ErrCorruptFile, "validate dataset schema",
				fmt.Errorf("column with empty name"))
		}
		if _, dup := seen[col.ShortName]; dup {
			return domain.WrapError(domain.ErrCorruptFile, "validate dataset schema",
				fmt.Errorf("duplicate column %q", col.ShortName))
		}
		seen[col.ShortName] = struct{}{}
	}
	return nil
}
