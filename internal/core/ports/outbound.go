package ports

import (
	"context"

	"github.com/nordstat/datadoc/internal/core/domain"
)

// DocumentStorage is the byte-level persistence contract for metadata
// documents. Implementations (local filesystem, object storage, postgres)
// are interchangeable and opaque to the core.
type DocumentStorage interface {
	// ReadDocument returns the raw bytes at ref, or an error of kind
	// domain.ErrDocumentNotFound when nothing exists there.
	ReadDocument(ctx context.Context, ref string) ([]byte, error)
	// WriteDocument replaces the bytes at ref.
	WriteDocument(ctx context.Context, ref string, data []byte) error
}

// SchemaExtractor reads the variable schema from a physical dataset file.
// Only header metadata is read, never column data.
type SchemaExtractor interface {
	ExtractSchema(ctx context.Context, datasetPath string) ([]domain.ExtractedColumn, error)
}

// EventPublisher emits lifecycle audit events. Failures are advisory and
// must never abort the operation that triggered them.
type EventPublisher interface {
	PublishDocumentOpened(ctx context.Context, ref string) error
	PublishDocumentSaved(ctx context.Context, ref string) error
}
