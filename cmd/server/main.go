// Command server runs a demo dispatch application: a session-backed visit
// counter, a 401 endpoint and a static file view.
package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/dispatch"
	"github.com/dmitrymomot/dispatch/middlewares"
	"github.com/dmitrymomot/dispatch/pkg/config"
	"github.com/dmitrymomot/dispatch/pkg/cookie"
	"github.com/dmitrymomot/dispatch/pkg/db"
	"github.com/dmitrymomot/dispatch/pkg/logger"
	"github.com/dmitrymomot/dispatch/pkg/redis"
	"github.com/dmitrymomot/dispatch/pkg/session"
)

func main() {
	var cfg Config
	config.MustLoad(&cfg)

	log := logger.New(cfg.Log, middlewares.RequestIDExtractor())

	if err := run(context.Background(), cfg, log); err != nil {
		log.Error("server stopped", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg Config, log *slog.Logger) error {
	if err := cfg.validate(); err != nil {
		return err
	}

	runOpts := []dispatch.RunOption{
		dispatch.Logger(log),
		dispatch.ShutdownTimeout(cfg.ShutdownTimeout),
		dispatch.HTTPMiddleware(middlewares.AccessLog(log)),
	}

	var pool *pgxpool.Pool
	if cfg.DB.URL != "" {
		p, err := db.Connect(ctx, cfg.DB)
		if err != nil {
			return err
		}
		pool = p
		runOpts = append(runOpts,
			dispatch.ReadinessCheck("postgres", db.Healthcheck(pool)),
			dispatch.ShutdownHook(db.Shutdown(pool)),
		)
	}

	provider, hooks, err := newProvider(ctx, cfg, pool, log)
	if err != nil {
		if pool != nil {
			pool.Close()
		}
		return err
	}
	runOpts = append(runOpts, hooks...)

	static, err := dispatch.StaticFiles(`/static/(?P<file_path>.*)`, os.DirFS(cfg.StaticDir))
	if err != nil {
		return err
	}

	appOpts := []dispatch.Option{
		dispatch.WithLogger(log),
		dispatch.WithSessionProvider(provider),
		dispatch.WithMiddleware(
			middlewares.RequestID(),
			middlewares.Session(),
		),
		dispatch.WithRoute(`/`, []string{"GET"}, index),
		dispatch.WithRoute(`/unauthed`, []string{"GET"}, unauthed),
		dispatch.WithView(static),
	}
	if pool != nil {
		appOpts = append(appOpts, dispatch.WithState(pool))
	}

	return dispatch.New(appOpts...).Run(cfg.Addr, runOpts...)
}

// newProvider builds the configured session provider and the run options
// that manage its backend.
func newProvider(ctx context.Context, cfg Config, pool *pgxpool.Pool, log *slog.Logger) (session.Provider, []dispatch.RunOption, error) {
	opts := []session.Option{
		session.WithMaxAge(int(cfg.SessionMaxAge.Seconds())),
		session.WithCookieOptions(cookie.WithSecure(cfg.SessionSecure)),
	}

	switch cfg.SessionProvider {
	case providerRedis:
		client, err := redis.Connect(ctx, cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		return session.NewRedisProvider(client, opts...), []dispatch.RunOption{
			dispatch.ReadinessCheck("redis", redis.Healthcheck(client)),
			dispatch.ShutdownHook(redis.Shutdown(client)),
		}, nil

	case providerPostgres:
		if err := db.Migrate(ctx, pool, session.Migrations, cfg.DB.MigrationsTable, log); err != nil {
			return nil, nil, err
		}
		store := session.NewPostgresStore(pool)
		return session.NewRemoteProvider(store, opts...), []dispatch.RunOption{
			dispatch.StartupHook(func(ctx context.Context) error {
				go cleanupSessions(ctx, store, cfg.SessionCleanupEvery, log)
				return nil
			}),
		}, nil

	case providerSigned:
		p, err := session.NewSignedCookieProvider(cfg.SessionSecret, opts...)
		if err != nil {
			return nil, nil, err
		}
		return p, nil, nil

	case providerEncrypted:
		p, err := session.NewEncryptedCookieProvider(cfg.SessionSecret, opts...)
		if err != nil {
			return nil, nil, err
		}
		return p, nil, nil

	default:
		store := session.NewMemoryStore(
			session.WithCleanupInterval(cfg.SessionCleanupEvery),
			session.WithMaxEntries(cfg.SessionMaxEntries),
		)
		return session.NewRemoteProvider(store, opts...), []dispatch.RunOption{
			dispatch.ShutdownHook(func(context.Context) error { return store.Close() }),
		}, nil
	}
}

// cleanupSessions purges expired Postgres sessions until ctx is done.
func cleanupSessions(ctx context.Context, store *session.PostgresStore, every time.Duration, log *slog.Logger) {
	if every <= 0 {
		return
	}

	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := store.DeleteExpired(ctx)
			if err != nil {
				log.WarnContext(ctx, "session cleanup failed", slog.Any("error", err))
				continue
			}
			if n > 0 {
				log.InfoContext(ctx, "expired sessions removed", slog.Int64("count", n))
			}
		}
	}
}
