package internal

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrymomot/dispatch/pkg/health"
)

const (
	defaultAddress           = ":8080"
	defaultReadTimeout       = 15 * time.Second
	defaultWriteTimeout      = 30 * time.Second
	defaultIdleTimeout       = 120 * time.Second
	defaultReadHeaderTimeout = 5 * time.Second
	defaultMaxHeaderBytes    = 1 << 20 // 1MB
	defaultShutdownTimeout   = 30 * time.Second
)

// Handler returns the transport mux: the health endpoints plus a
// catch-all route handing every other request to the app.
func (a *App) Handler(opts ...RunOption) http.Handler {
	return a.mux(buildRunConfig(opts...))
}

func (a *App) mux(cfg *runConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(cfg.httpMiddlewares...)

	// The app does its own routing, including 404 and 405.
	r.NotFound(a.ServeHTTP)
	r.MethodNotAllowed(a.ServeHTTP)

	if !cfg.noHealth {
		health.Mount(r, cfg.checks,
			health.WithTimeout(cfg.healthTimeout),
			health.WithLogger(a.logger),
		)
	}
	r.Handle("/*", a)

	return r
}

// Run serves the app on addr and blocks until SIGINT, SIGTERM or
// cancellation of the base context, then shuts down gracefully.
//
// Example:
//
//	err := app.Run(":8080",
//		dispatch.ReadinessCheck("redis", redis.Healthcheck(client)),
//		dispatch.ShutdownHook(redis.Shutdown(client)),
//	)
func (a *App) Run(addr string, opts ...RunOption) error {
	cfg := buildRunConfig(opts...)
	if cfg.logger == nil {
		cfg.logger = a.logger
	}
	if addr == "" {
		addr = defaultAddress
	}

	baseCtx := cfg.baseCtx
	if baseCtx == nil {
		baseCtx = context.Background()
	}
	ctx, cancel := signal.NotifyContext(baseCtx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}

	return serve(ctx, ln, a.mux(cfg), cfg)
}

// serve runs startup hooks, serves on ln until ctx is done, then stops
// the server and runs shutdown hooks.
func serve(ctx context.Context, ln net.Listener, h http.Handler, cfg *runConfig) error {
	log := cfg.logger

	for _, hook := range cfg.startupHooks {
		if err := hook(ctx); err != nil {
			_ = ln.Close()
			return errors.Join(errors.New("dispatch: startup hook failed"), err)
		}
	}

	server := &http.Server{
		Handler:           h,
		ReadTimeout:       defaultReadTimeout,
		WriteTimeout:      defaultWriteTimeout,
		IdleTimeout:       defaultIdleTimeout,
		ReadHeaderTimeout: defaultReadHeaderTimeout,
		MaxHeaderBytes:    defaultMaxHeaderBytes,
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server starting", slog.String("address", ln.Addr().String()))
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.shutdownTimeout)
	defer shutdownCancel()

	var errs []error
	if err := server.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, err)
	}

	for _, hook := range cfg.shutdownHooks {
		if err := hook(shutdownCtx); err != nil {
			errs = append(errs, err)
			log.Error("shutdown hook failed", slog.Any("error", err))
		}
	}

	if len(errs) > 0 {
		log.Error("shutdown completed with errors")
		return errors.Join(errs...)
	}

	log.Info("shutdown completed")
	return nil
}
