package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedFormat means the dataset file matches no known format.
	ErrUnsupportedFormat = errors.New("unsupported dataset format")
	// ErrCorruptFile means the format was recognized but its header could
	// not be parsed.
	ErrCorruptFile = errors.New("corrupt dataset file")
	// ErrUnsupportedVersion means the migration chain cannot reach the
	// current schema version from the supplied document.
	ErrUnsupportedVersion = errors.New("unsupported document version")
	// ErrDocumentNotFound means no metadata document exists at the ref.
	ErrDocumentNotFound = errors.New("metadata document not found")
	ErrStorageRead      = errors.New("storage read failure")
	ErrStorageWrite     = errors.New("storage write failure")
	ErrInvalidInput     = errors.New("invalid input")
)

// WrapError preserves typed semantic errors with operation context.
func WrapError(kind error, operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", operation, kind, err)
}

func IsKind(err error, kind error) bool {
	return errors.Is(err, kind)
}
