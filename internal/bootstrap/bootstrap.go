package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nordstat/datadoc/internal/config"
	"github.com/nordstat/datadoc/internal/core/ports"
	"github.com/nordstat/datadoc/internal/core/usecase"
	"github.com/nordstat/datadoc/internal/infrastructure/queue/nats"
	"github.com/nordstat/datadoc/internal/infrastructure/schema"
	"github.com/nordstat/datadoc/internal/infrastructure/storage/localfs"
	"github.com/nordstat/datadoc/internal/infrastructure/storage/postgres"
	"github.com/nordstat/datadoc/internal/infrastructure/storage/resilient"
	"github.com/nordstat/datadoc/internal/observability/logging"
	"github.com/nordstat/datadoc/internal/observability/metrics"
)

type App struct {
	Config  config.Config
	Logger  *slog.Logger
	Metrics *metrics.EditorMetrics

	Storage   ports.DocumentStorage
	Extractor ports.SchemaExtractor
	Events    ports.EventPublisher

	closeFn func()
}

func New(ctx context.Context, cfg config.Config) (*App, error) {
	logger := logging.NewJSONLogger("datadoc", cfg.LogLevel)
	slog.SetDefault(logger)

	var (
		storage ports.DocumentStorage
		closers []func()
	)
	switch cfg.StorageBackend {
	case "", "localfs":
		storage = localfs.New(cfg.StoragePath)
	case "postgres":
		db, err := postgres.OpenDB(cfg.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		pg := postgres.NewStorage(db)
		if err := pg.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, fmt.Errorf("ensure schema: %w", err)
		}
		storage = pg
		closers = append(closers, func() { _ = db.Close() })
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}

	resilientCfg := resilient.DefaultConfig()
	resilientCfg.RetryMaxAttempts = cfg.StorageRetryMaxAttempts
	resilientCfg.BreakerEnabled = cfg.StorageBreakerEnabled
	storage = resilient.Wrap(storage, resilientCfg)

	var events ports.EventPublisher = nats.NoopPublisher{}
	if cfg.NATSEnabled {
		publisher, err := nats.New(cfg.NATSURL, cfg.NATSSubjectPrefix)
		if err != nil {
			return nil, fmt.Errorf("init event publisher: %w", err)
		}
		events = publisher
		closers = append(closers, publisher.Close)
	}

	return &App{
		Config:    cfg,
		Logger:    logger,
		Metrics:   metrics.NewEditorMetrics(),
		Storage:   storage,
		Extractor: schema.NewService(),
		Events:    events,
		closeFn: func() {
			for i := len(closers) - 1; i >= 0; i-- {
				closers[i]()
			}
		},
	}, nil
}

// NewSession builds an editing session bound to the configured user and
// backends.
func (a *App) NewSession() *usecase.DocumentSession {
	return usecase.NewDocumentSession(a.Storage, a.Extractor, a.Events, a.Config.DocumentUser)
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}
