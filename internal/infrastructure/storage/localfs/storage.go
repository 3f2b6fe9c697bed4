// Package localfs stores metadata documents next to the datasets they
// describe, on a local or mounted filesystem.
package localfs

import (
	"context"
	"os"
	"path/filepath"

	"github.com/nordstat/datadoc/internal/core/domain"
)

type Storage struct {
	baseDir string
}

// New returns a Storage rooted at baseDir. Absolute document refs are
// used as-is, relative refs are resolved against baseDir.
func New(baseDir string) *Storage {
	return &Storage{baseDir: baseDir}
}

func (s *Storage) ReadDocument(_ context.Context, ref string) ([]byte, error) {
	raw, err := os.ReadFile(s.resolve(ref))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.WrapError(domain.ErrDocumentNotFound, "read document", err)
		}
		return nil, domain.WrapError(domain.ErrStorageRead, "read document", err)
	}
	return raw, nil
}

// WriteDocument writes via a temporary file and rename so a crash mid-write
// never leaves a truncated document behind.
func (s *Storage) WriteDocument(_ context.Context, ref string, data []byte) error {
	path := s.resolve(ref)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return domain.WrapError(domain.ErrStorageWrite, "write document", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return domain.WrapError(domain.ErrStorageWrite, "write document", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return domain.WrapError(domain.ErrStorageWrite, "write document", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return domain.WrapError(domain.ErrStorageWrite, "write document", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return domain.WrapError(domain.ErrStorageWrite, "write document", err)
	}
	return nil
}

func (s *Storage) resolve(ref string) string {
	if filepath.IsAbs(ref) || s.baseDir == "" {
		return ref
	}
	return filepath.Join(s.baseDir, ref)
}
