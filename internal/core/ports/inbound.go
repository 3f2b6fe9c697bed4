package ports

import (
	"context"

	"github.com/nordstat/datadoc/internal/core/domain"
)

// OpenResult is what a UI receives from opening a dataset for documentation.
type OpenResult struct {
	Document *domain.MetadataDocument
	Diff     domain.ReconciliationDiff
	// MigratedFrom is the schema version the stored document carried before
	// upgrade, empty when no prior document existed.
	MigratedFrom string
	// Created is true when no prior document existed and the document was
	// initialized from extraction alone.
	Created bool
}

// DocumentEditor is the UI-facing lifecycle surface for one open document.
type DocumentEditor interface {
	Open(ctx context.Context, datasetPath string, confirmedRenames map[string]string) (OpenResult, error)
	Save(ctx context.Context) error
	Document() *domain.MetadataDocument
	PercentComplete() int
}
