package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	stdlog "log"
	"os"
	"path/filepath"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/hammamikhairi/ottomart/internal/catalog"
	"github.com/hammamikhairi/ottomart/internal/config"
	"github.com/hammamikhairi/ottomart/internal/domain"
	"github.com/hammamikhairi/ottomart/internal/embed"
	"github.com/hammamikhairi/ottomart/internal/engine"
	"github.com/hammamikhairi/ottomart/internal/eventlog"
	"github.com/hammamikhairi/ottomart/internal/logger"
	"github.com/hammamikhairi/ottomart/internal/pgstore"
	"github.com/hammamikhairi/ottomart/internal/search"
	"github.com/hammamikhairi/ottomart/internal/storage"
)

// app holds the wired dependencies shared by every command.
type app struct {
	cfg    *config.Config
	log    *logger.Logger
	pool   *pgxpool.Pool
	redis  *redis.Client
	cache  *catalog.Cache
	store  domain.SessionStore
	events *eventlog.Dispatcher
	vector *pgstore.VectorOracle // nil unless postgres and an embedder are configured
	engine *engine.Engine

	closers []func()
}

// bootstrap loads the configuration and wires the application. The
// returned app must be closed.
func bootstrap(ctx context.Context) (*app, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	if verbose {
		cfg.Logging.Level = "verbose"
	}
	if quiet {
		cfg.Logging.Level = "off"
	}
	if logFile != "" {
		cfg.Logging.File = logFile
	}

	a := &app{cfg: cfg}
	a.log = a.openLogger()

	if cfg.UsesPostgres() {
		pool, err := pgstore.NewPool(ctx, cfg.Postgres.DSN, pgstore.PoolConfig{
			MaxConns: cfg.Postgres.MaxConns,
			MinConns: cfg.Postgres.MinConns,
		})
		if err != nil {
			a.close()
			return nil, fmt.Errorf("connecting to postgres: %w", err)
		}
		a.pool = pool
		a.closers = append(a.closers, pool.Close)

		if cfg.Postgres.EnsureSchema {
			if err := pgstore.EnsureSchema(ctx, pool, cfg.Postgres.EmbeddingDims); err != nil {
				a.close()
				return nil, err
			}
		}
	}

	if cfg.UsesRedis() {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		a.closers = append(a.closers, func() { _ = client.Close() })
		if err := client.Ping(ctx).Err(); err != nil {
			a.close()
			return nil, fmt.Errorf("connecting to redis at %s: %w", cfg.Redis.Addr, err)
		}
		a.redis = client
	}

	if err := a.wire(ctx); err != nil {
		a.close()
		return nil, err
	}
	return a, nil
}

// openLogger directs logs to a file by default so the shell stays clean.
func (a *app) openLogger() *logger.Logger {
	var out io.Writer = os.Stderr
	if path := a.cfg.Logging.File; path != "" && path != "stderr" {
		if dir := filepath.Dir(path); dir != "" && dir != "." {
			_ = os.MkdirAll(dir, 0o755)
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not open log file %s: %v (falling back to stderr)\n", path, err)
		} else {
			out = f
			a.closers = append(a.closers, func() { _ = f.Close() })
		}
	}

	// Third-party packages that use the standard logger write to the
	// same place.
	stdlog.SetOutput(out)
	stdlog.SetFlags(stdlog.Ltime)

	level := logger.ParseLevel(a.cfg.Logging.Level)
	if a.cfg.Logging.Format == "json" {
		return logger.NewJSON(level, out)
	}
	return logger.New(level, out)
}

func (a *app) wire(ctx context.Context) error {
	cfg := a.cfg

	var source interface {
		domain.CatalogLoader
		domain.SimilarityProvider
	}
	switch cfg.Catalog.Source {
	case "file":
		loader, err := catalog.LoadFile(cfg.Catalog.File, a.log)
		if err != nil {
			return err
		}
		source = loader
	case "postgres":
		source = pgstore.New(a.pool, a.log)
	default:
		source = catalog.NewMemoryLoader(a.log)
	}

	cache, err := catalog.NewCache(source, source, a.log,
		catalog.WithSimilarityCacheSize(cfg.Recommend.SimilarityCacheSize),
	)
	if err != nil {
		return err
	}
	a.cache = cache
	index := search.NewIndex(cache)

	switch cfg.Session.Store {
	case "redis":
		a.store = storage.NewRedisStore(a.redis, a.log,
			storage.WithKeyPrefix(cfg.Redis.KeyPrefix),
			storage.WithTTL(cfg.Session.TTL),
		)
	default:
		a.store = storage.NewMemoryStore(a.log)
	}

	var sinks []domain.EventSink
	for _, name := range cfg.Events.Sinks {
		switch name {
		case "log":
			sinks = append(sinks, eventlog.NewLogSink(a.log))
		case "postgres":
			sinks = append(sinks, pgstore.New(a.pool, a.log))
		case "redis":
			sinks = append(sinks, eventlog.NewRedisStreamSink(a.redis, cfg.Redis.Stream, cfg.Redis.StreamMaxLen))
		}
	}
	a.events = eventlog.NewDispatcher(a.log, sinks,
		eventlog.WithBufferSize(cfg.Events.BufferSize),
		eventlog.WithWriteTimeout(cfg.Events.WriteTimeout),
	)
	a.events.Start(ctx)
	a.closers = append(a.closers, a.events.Stop)

	opts := []engine.Option{
		engine.WithEvents(a.events),
		engine.WithLimit(cfg.Recommend.Limit),
		engine.WithMinRemainingWeight(cfg.Recommend.MinRemainingWeight),
	}
	if a.pool != nil && cfg.Embedder.URL != "" {
		emb := embed.NewOllamaEmbedder(cfg.Embedder.URL, cfg.Embedder.Model, cfg.Embedder.Timeout, a.log)
		a.vector = pgstore.NewVectorOracle(a.pool, emb, a.log)
		opts = append(opts, engine.WithOracle(a.vector))
		a.log.Info("vector recipe search enabled (model=%s)", cfg.Embedder.Model)
	}

	a.engine = engine.New(cache, cache, index, a.store, a.log, opts...)
	a.log.Info("wired: catalog=%s sessions=%s events=%v", cfg.Catalog.Source, cfg.Session.Store, cfg.Events.Sinks)
	return nil
}

// close releases resources in reverse order of acquisition.
func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

var errNoPostgres = errors.New("this command needs postgres: set postgres.dsn and catalog.source=postgres")
