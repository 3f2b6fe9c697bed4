// Package resilient wraps a document storage backend with retries and a
// circuit breaker. Remote backends drop out intermittently; a missing
// document is a normal answer and must pass through untouched.
package resilient

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/nordstat/datadoc/internal/core/domain"
	"github.com/nordstat/datadoc/internal/core/ports"
)

type Config struct {
	RetryMaxAttempts    int
	RetryInitialBackoff time.Duration
	RetryMaxBackoff     time.Duration
	RetryMultiplier     float64

	BreakerEnabled          bool
	BreakerMinRequests      uint32
	BreakerFailureRatio     float64
	BreakerOpenTimeout      time.Duration
	BreakerHalfOpenMaxCalls uint32
}

func DefaultConfig() Config {
	return Config{
		RetryMaxAttempts:    3,
		RetryInitialBackoff: 100 * time.Millisecond,
		RetryMaxBackoff:     400 * time.Millisecond,
		RetryMultiplier:     2.0,

		BreakerEnabled:          true,
		BreakerMinRequests:      10,
		BreakerFailureRatio:     0.5,
		BreakerOpenTimeout:      30 * time.Second,
		BreakerHalfOpenMaxCalls: 2,
	}
}

func (c Config) normalize() Config {
	out := c
	def := DefaultConfig()

	if out.RetryMaxAttempts <= 0 {
		out.RetryMaxAttempts = def.RetryMaxAttempts
	}
	if out.RetryInitialBackoff <= 0 {
		out.RetryInitialBackoff = def.RetryInitialBackoff
	}
	if out.RetryMaxBackoff < out.RetryInitialBackoff {
		out.RetryMaxBackoff = out.RetryInitialBackoff
	}
	if out.RetryMultiplier < 1.0 {
		out.RetryMultiplier = def.RetryMultiplier
	}
	if out.BreakerMinRequests == 0 {
		out.BreakerMinRequests = def.BreakerMinRequests
	}
	if out.BreakerFailureRatio <= 0 || out.BreakerFailureRatio > 1 {
		out.BreakerFailureRatio = def.BreakerFailureRatio
	}
	if out.BreakerOpenTimeout <= 0 {
		out.BreakerOpenTimeout = def.BreakerOpenTimeout
	}
	if out.BreakerHalfOpenMaxCalls == 0 {
		out.BreakerHalfOpenMaxCalls = def.BreakerHalfOpenMaxCalls
	}
	return out
}

type Storage struct {
	inner   ports.DocumentStorage
	cfg     Config
	breaker *gobreaker.CircuitBreaker[[]byte]
}

func Wrap(inner ports.DocumentStorage, cfg Config) *Storage {
	cfg = cfg.normalize()
	s := &Storage{inner: inner, cfg: cfg}
	if cfg.BreakerEnabled {
		s.breaker = gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
			Name:        "document-storage",
			MaxRequests: cfg.BreakerHalfOpenMaxCalls,
			Timeout:     cfg.BreakerOpenTimeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				if counts.Requests < cfg.BreakerMinRequests {
					return false
				}
				ratio := float64(counts.TotalFailures) / float64(counts.Requests)
				return ratio >= cfg.BreakerFailureRatio
			},
			IsSuccessful: func(err error) bool {
				return err == nil || !countsAsFailure(err)
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				slog.Warn("storage_breaker_state_change",
					"name", name, "from", from.String(), "to", to.String())
			},
		})
	}
	return s
}

func (s *Storage) ReadDocument(ctx context.Context, ref string) ([]byte, error) {
	call := func() ([]byte, error) {
		return s.retryRead(ctx, ref)
	}
	if s.breaker == nil {
		return call()
	}
	return s.breaker.Execute(call)
}

func (s *Storage) WriteDocument(ctx context.Context, ref string, data []byte) error {
	call := func() ([]byte, error) {
		return nil, s.retryWrite(ctx, ref, data)
	}
	if s.breaker == nil {
		_, err := call()
		return err
	}
	_, err := s.breaker.Execute(call)
	return err
}

func (s *Storage) retryRead(ctx context.Context, ref string) ([]byte, error) {
	var raw []byte
	err := s.retry(ctx, "read", func() error {
		var err error
		raw, err = s.inner.ReadDocument(ctx, ref)
		return err
	})
	return raw, err
}

func (s *Storage) retryWrite(ctx context.Context, ref string, data []byte) error {
	return s.retry(ctx, "write", func() error {
		return s.inner.WriteDocument(ctx, ref, data)
	})
}

func (s *Storage) retry(ctx context.Context, operation string, fn func() error) error {
	backoff := s.cfg.RetryInitialBackoff

	var err error
	for attempt := 1; attempt <= s.cfg.RetryMaxAttempts; attempt++ {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		err = fn()
		if err == nil {
			return nil
		}
		if !retryable(err) || attempt == s.cfg.RetryMaxAttempts {
			return err
		}

		slog.Warn("storage_retry",
			"operation", operation,
			"attempt", attempt,
			"max_attempts", s.cfg.RetryMaxAttempts,
			"backoff_ms", backoff.Milliseconds(),
			"error", err,
		)

		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return err
		case <-timer.C:
		}

		backoff = time.Duration(float64(backoff) * s.cfg.RetryMultiplier)
		if backoff > s.cfg.RetryMaxBackoff {
			backoff = s.cfg.RetryMaxBackoff
		}
	}
	return err
}

// IsCircuitOpen reports whether err came from an open breaker rather
// than the backend itself.
func IsCircuitOpen(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}

// A missing document and caller mistakes are answers, not outages.
func retryable(err error) bool {
	return !domain.IsKind(err, domain.ErrDocumentNotFound) &&
		!domain.IsKind(err, domain.ErrInvalidInput)
}

func countsAsFailure(err error) bool {
	return retryable(err)
}
