package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "")
	t.Setenv("NATS_ENABLED", "")
	t.Setenv("METRICS_PORT", "")

	cfg := Load()
	if cfg.StorageBackend != "localfs" {
		t.Fatalf("expected default backend localfs, got %q", cfg.StorageBackend)
	}
	if cfg.NATSEnabled {
		t.Fatalf("expected events disabled by default")
	}
	if cfg.MetricsPort != "9090" {
		t.Fatalf("expected default metrics port 9090, got %q", cfg.MetricsPort)
	}
	if cfg.StorageRetryMaxAttempts != 3 {
		t.Fatalf("expected default retry attempts 3, got %d", cfg.StorageRetryMaxAttempts)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "postgres")
	t.Setenv("POSTGRES_DSN", "postgres://u:p@db:5432/meta")
	t.Setenv("NATS_ENABLED", "true")
	t.Setenv("NATS_SUBJECT_PREFIX", "meta.doc")
	t.Setenv("STORAGE_RETRY_MAX_ATTEMPTS", "5")

	cfg := Load()
	if cfg.StorageBackend != "postgres" {
		t.Fatalf("expected backend override, got %q", cfg.StorageBackend)
	}
	if cfg.PostgresDSN != "postgres://u:p@db:5432/meta" {
		t.Fatalf("expected dsn override, got %q", cfg.PostgresDSN)
	}
	if !cfg.NATSEnabled {
		t.Fatalf("expected events enabled")
	}
	if cfg.NATSSubjectPrefix != "meta.doc" {
		t.Fatalf("expected subject prefix override, got %q", cfg.NATSSubjectPrefix)
	}
	if cfg.StorageRetryMaxAttempts != 5 {
		t.Fatalf("expected retry attempts 5, got %d", cfg.StorageRetryMaxAttempts)
	}
}

func TestDocumentUserResolution(t *testing.T) {
	t.Setenv("DATADOC_USER", "")
	t.Setenv("JUPYTERHUB_USER", "")
	if cfg := Load(); cfg.DocumentUser != PlaceholderUser {
		t.Fatalf("expected placeholder user, got %q", cfg.DocumentUser)
	}

	t.Setenv("JUPYTERHUB_USER", "ana@example.com")
	if cfg := Load(); cfg.DocumentUser != "ana@example.com" {
		t.Fatalf("expected jupyterhub user, got %q", cfg.DocumentUser)
	}

	t.Setenv("DATADOC_USER", "bo@example.com")
	if cfg := Load(); cfg.DocumentUser != "bo@example.com" {
		t.Fatalf("expected explicit user to win, got %q", cfg.DocumentUser)
	}
}
