package resilient

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nordstat/datadoc/internal/core/domain"
)

type flakyStorage struct {
	reads      int
	writes     int
	failReads  int
	failWrites int
	readErr    error
	writeErr   error
}

func (f *flakyStorage) ReadDocument(context.Context, string) ([]byte, error) {
	f.reads++
	if f.reads <= f.failReads {
		return nil, f.readErr
	}
	return []byte(`{}`), nil
}

func (f *flakyStorage) WriteDocument(context.Context, string, []byte) error {
	f.writes++
	if f.writes <= f.failWrites {
		return f.writeErr
	}
	return nil
}

func fastConfig() Config {
	return Config{
		RetryMaxAttempts:    3,
		RetryInitialBackoff: time.Millisecond,
		RetryMaxBackoff:     time.Millisecond,
		RetryMultiplier:     1.0,
		BreakerEnabled:      false,
	}
}

func TestReadRetriesTransientFailure(t *testing.T) {
	inner := &flakyStorage{failReads: 2, readErr: errors.New("connection reset")}
	storage := Wrap(inner, fastConfig())

	raw, err := storage.ReadDocument(context.Background(), "doc__DOC.json")
	if err != nil {
		t.Fatalf("ReadDocument() error = %v", err)
	}
	if string(raw) != "{}" {
		t.Fatalf("unexpected payload %q", raw)
	}
	if inner.reads != 3 {
		t.Fatalf("expected 3 attempts, got %d", inner.reads)
	}
}

func TestReadGivesUpAfterMaxAttempts(t *testing.T) {
	inner := &flakyStorage{failReads: 10, readErr: errors.New("connection reset")}
	storage := Wrap(inner, fastConfig())

	if _, err := storage.ReadDocument(context.Background(), "doc__DOC.json"); err == nil {
		t.Fatalf("expected error after exhausted retries")
	}
	if inner.reads != 3 {
		t.Fatalf("expected 3 attempts, got %d", inner.reads)
	}
}

func TestNotFoundIsNotRetried(t *testing.T) {
	inner := &flakyStorage{
		failReads: 10,
		readErr:   domain.WrapError(domain.ErrDocumentNotFound, "read document", errors.New("absent")),
	}
	storage := Wrap(inner, fastConfig())

	_, err := storage.ReadDocument(context.Background(), "doc__DOC.json")
	if !domain.IsKind(err, domain.ErrDocumentNotFound) {
		t.Fatalf("expected ErrDocumentNotFound, got %v", err)
	}
	if inner.reads != 1 {
		t.Fatalf("expected single attempt for not-found, got %d", inner.reads)
	}
}

func TestWriteRetriesTransientFailure(t *testing.T) {
	inner := &flakyStorage{failWrites: 1, writeErr: errors.New("timeout")}
	storage := Wrap(inner, fastConfig())

	if err := storage.WriteDocument(context.Background(), "doc__DOC.json", []byte("{}")); err != nil {
		t.Fatalf("WriteDocument() error = %v", err)
	}
	if inner.writes != 2 {
		t.Fatalf("expected 2 attempts, got %d", inner.writes)
	}
}

func TestBreakerOpensAfterRepeatedFailures(t *testing.T) {
	cfg := fastConfig()
	cfg.BreakerEnabled = true
	cfg.BreakerMinRequests = 2
	cfg.BreakerFailureRatio = 0.5
	inner := &flakyStorage{failReads: 1000, readErr: errors.New("connection reset")}
	storage := Wrap(inner, cfg)

	for i := 0; i < 5; i++ {
		storage.ReadDocument(context.Background(), "doc__DOC.json")
	}
	_, err := storage.ReadDocument(context.Background(), "doc__DOC.json")
	if !IsCircuitOpen(err) {
		t.Fatalf("expected open circuit, got %v", err)
	}
}

func TestNotFoundDoesNotTripBreaker(t *testing.T) {
	cfg := fastConfig()
	cfg.BreakerEnabled = true
	cfg.BreakerMinRequests = 2
	inner := &flakyStorage{
		failReads: 1000,
		readErr:   domain.WrapError(domain.ErrDocumentNotFound, "read document", errors.New("absent")),
	}
	storage := Wrap(inner, cfg)

	for i := 0; i < 10; i++ {
		if _, err := storage.ReadDocument(context.Background(), "doc__DOC.json"); IsCircuitOpen(err) {
			t.Fatalf("breaker opened on not-found at attempt %d", i)
		}
	}
}

func TestContextCancellationStopsRetries(t *testing.T) {
	inner := &flakyStorage{failReads: 1000, readErr: errors.New("connection reset")}
	storage := Wrap(inner, fastConfig())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := storage.ReadDocument(ctx, "doc__DOC.json"); err == nil {
		t.Fatalf("expected error with cancelled context")
	}
	if inner.reads > 1 {
		t.Fatalf("expected no retries after cancellation, got %d reads", inner.reads)
	}
}
