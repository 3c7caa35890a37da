package internal

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/dmitrymomot/dispatch/pkg/health"
)

// RunOption configures the HTTP server started by App.Run.
type RunOption func(*runConfig)

type runConfig struct {
	baseCtx         context.Context
	logger          *slog.Logger
	checks          health.Checks
	httpMiddlewares []func(http.Handler) http.Handler
	startupHooks    []func(context.Context) error
	shutdownHooks   []func(context.Context) error
	shutdownTimeout time.Duration
	healthTimeout   time.Duration
	noHealth        bool
}

func buildRunConfig(opts ...RunOption) *runConfig {
	cfg := &runConfig{
		shutdownTimeout: defaultShutdownTimeout,
		healthTimeout:   health.DefaultTimeout,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Logger sets the server lifecycle logger. Defaults to the app logger.
func Logger(l *slog.Logger) RunOption {
	return func(c *runConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// ShutdownTimeout bounds graceful shutdown, hooks included. Defaults to 30s.
func ShutdownTimeout(d time.Duration) RunOption {
	return func(c *runConfig) {
		if d > 0 {
			c.shutdownTimeout = d
		}
	}
}

// StartupHook runs fn before the server accepts connections.
// A failing hook aborts Run.
func StartupHook(fn func(context.Context) error) RunOption {
	return func(c *runConfig) {
		if fn != nil {
			c.startupHooks = append(c.startupHooks, fn)
		}
	}
}

// ShutdownHook runs fn after the server stopped accepting requests.
// Hooks run in registration order.
//
//	dispatch.ShutdownHook(redis.Shutdown(client))
func ShutdownHook(fn func(context.Context) error) RunOption {
	return func(c *runConfig) {
		if fn != nil {
			c.shutdownHooks = append(c.shutdownHooks, fn)
		}
	}
}

// ReadinessCheck adds a named check to GET /health/ready.
//
//	dispatch.ReadinessCheck("redis", redis.Healthcheck(client))
func ReadinessCheck(name string, fn health.CheckFunc) RunOption {
	return func(c *runConfig) {
		if name == "" || fn == nil {
			return
		}
		if c.checks == nil {
			c.checks = make(health.Checks)
		}
		c.checks[name] = fn
	}
}

// HealthTimeout bounds readiness checks. Defaults to 5s.
func HealthTimeout(d time.Duration) RunOption {
	return func(c *runConfig) {
		if d > 0 {
			c.healthTimeout = d
		}
	}
}

// WithoutHealth disables the /health endpoints, leaving every path to the app.
func WithoutHealth() RunOption {
	return func(c *runConfig) {
		c.noHealth = true
	}
}

// BaseContext sets the parent of the signal-aware server context.
// Cancelling it shuts the server down.
func BaseContext(ctx context.Context) RunOption {
	return func(c *runConfig) {
		if ctx != nil {
			c.baseCtx = ctx
		}
	}
}

// HTTPMiddleware wraps the transport mux with net/http middleware, such as
// middlewares.AccessLog. Unlike app middlewares these also see health
// probes and write-level failures.
func HTTPMiddleware(mws ...func(http.Handler) http.Handler) RunOption {
	return func(c *runConfig) {
		for _, mw := range mws {
			if mw != nil {
				c.httpMiddlewares = append(c.httpMiddlewares, mw)
			}
		}
	}
}
