package localfs

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/nordstat/datadoc/internal/core/domain"
)

func TestWriteThenRead(t *testing.T) {
	storage := New("")
	ref := filepath.Join(t.TempDir(), "person_data__DOC.json")
	payload := []byte(`{"document_version": "2.1.0"}`)

	if err := storage.WriteDocument(context.Background(), ref, payload); err != nil {
		t.Fatalf("WriteDocument() error = %v", err)
	}
	got, err := storage.ReadDocument(context.Background(), ref)
	if err != nil {
		t.Fatalf("ReadDocument() error = %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Fatalf("read back %q, want %q", got, payload)
	}
}

func TestReadMissingDocument(t *testing.T) {
	storage := New("")
	_, err := storage.ReadDocument(context.Background(), filepath.Join(t.TempDir(), "absent__DOC.json"))
	if !domain.IsKind(err, domain.ErrDocumentNotFound) {
		t.Fatalf("expected ErrDocumentNotFound, got %v", err)
	}
}

func TestRelativeRefResolvesAgainstBaseDir(t *testing.T) {
	dir := t.TempDir()
	storage := New(dir)

	if err := storage.WriteDocument(context.Background(), "sub/doc__DOC.json", []byte("{}")); err != nil {
		t.Fatalf("WriteDocument() error = %v", err)
	}
	got, err := storage.ReadDocument(context.Background(), "sub/doc__DOC.json")
	if err != nil {
		t.Fatalf("ReadDocument() error = %v", err)
	}
	if string(got) != "{}" {
		t.Fatalf("read back %q", got)
	}
}

func TestWriteOverwritesAtomically(t *testing.T) {
	storage := New("")
	ref := filepath.Join(t.TempDir(), "doc__DOC.json")

	if err := storage.WriteDocument(context.Background(), ref, []byte("first")); err != nil {
		t.Fatalf("first write: %v", err)
	}
	if err := storage.WriteDocument(context.Background(), ref, []byte("second")); err != nil {
		t.Fatalf("second write: %v", err)
	}
	got, err := storage.ReadDocument(context.Background(), ref)
	if err != nil {
		t.Fatalf("ReadDocument() error = %v", err)
	}
	if string(got) != "second" {
		t.Fatalf("read back %q, want %q", got, "second")
	}
}
