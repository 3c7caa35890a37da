package internal

import (
	"log/slog"
	"sync"

	"github.com/dmitrymomot/dispatch/pkg/logger"
	"github.com/dmitrymomot/dispatch/pkg/session"
)

// App is the view registry and request dispatcher.
//
// Views, middlewares, the session provider and shared state are expected
// to be registered before serving. Registration is safe to call
// concurrently with dispatch, but requests already in flight keep the
// registry snapshot they started with.
type App struct {
	mu          sync.RWMutex
	views       []*View
	middlewares []Middleware
	provider    session.Provider
	state       any

	logger       *slog.Logger
	errorHandler ErrorHandler
	maxBodySize  int64
}

// New creates an app configured by opts.
//
// Example:
//
//	app := dispatch.New(
//		dispatch.WithLogger(log),
//		dispatch.WithSessionProvider(provider),
//		dispatch.WithMiddleware(middlewares.Session()),
//		dispatch.WithRoute(`/`, []string{"GET"}, index),
//	)
func New(opts ...Option) *App {
	a := &App{
		logger:       logger.NewNope(),
		errorHandler: DefaultErrorHandler,
		maxBodySize:  DefaultMaxBodySize,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// AddRoute registers a view for pattern. See NewView.
func (a *App) AddRoute(pattern string, methods []string, h HandlerFunc) error {
	v, err := NewView(pattern, methods, h)
	if err != nil {
		return err
	}
	a.AddView(v)
	return nil
}

// AddView appends v to the view table. Nil views are ignored.
func (a *App) AddView(v *View) {
	if v == nil || v.Pattern == nil || v.Handler == nil {
		return
	}
	a.mu.Lock()
	a.views = append(a.views, v)
	a.mu.Unlock()
}

// AddMiddleware appends m to the middleware chain.
func (a *App) AddMiddleware(m Middleware) {
	if m == nil {
		return
	}
	a.mu.Lock()
	a.middlewares = append(a.middlewares, m)
	a.mu.Unlock()
}

// SetSessionProvider sets the provider shared by all requests.
func (a *App) SetSessionProvider(p session.Provider) {
	a.mu.Lock()
	a.provider = p
	a.mu.Unlock()
}

// SetState sets the shared state exposed through State.
func (a *App) SetState(v any) {
	a.mu.Lock()
	a.state = v
	a.mu.Unlock()
}

// Logger returns the app logger.
func (a *App) Logger() *slog.Logger {
	return a.logger
}

// registry is an immutable copy of the registry taken per request.
type registry struct {
	provider    session.Provider
	state       any
	views       []*View
	middlewares []Middleware
}

func (a *App) snapshot() registry {
	a.mu.RLock()
	defer a.mu.RUnlock()

	// Appends after this point never write into the copied prefix.
	return registry{
		views:       a.views[:len(a.views):len(a.views)],
		middlewares: a.middlewares[:len(a.middlewares):len(a.middlewares)],
		provider:    a.provider,
		state:       a.state,
	}
}

// Option configures the App.
type Option func(*App)

// WithLogger sets the logger used for dispatch failures and exposed
// through Context.Logger.
func WithLogger(l *slog.Logger) Option {
	return func(a *App) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithErrorHandler replaces DefaultErrorHandler.
func WithErrorHandler(h ErrorHandler) Option {
	return func(a *App) {
		if h != nil {
			a.errorHandler = h
		}
	}
}

// WithMaxBodySize bounds request bodies read by ServeHTTP.
func WithMaxBodySize(n int64) Option {
	return func(a *App) {
		if n > 0 {
			a.maxBodySize = n
		}
	}
}

// WithRoute registers a view. It panics if pattern does not compile,
// like regexp.MustCompile.
func WithRoute(pattern string, methods []string, h HandlerFunc) Option {
	return func(a *App) {
		if err := a.AddRoute(pattern, methods, h); err != nil {
			panic(err)
		}
	}
}

// WithView registers prebuilt views, such as StaticFiles.
func WithView(views ...*View) Option {
	return func(a *App) {
		for _, v := range views {
			a.AddView(v)
		}
	}
}

// WithMiddleware appends middlewares in the order given.
func WithMiddleware(mws ...Middleware) Option {
	return func(a *App) {
		for _, m := range mws {
			a.AddMiddleware(m)
		}
	}
}

// WithSessionProvider sets the session provider.
func WithSessionProvider(p session.Provider) Option {
	return func(a *App) {
		a.SetSessionProvider(p)
	}
}

// WithState sets the shared state.
func WithState(v any) Option {
	return func(a *App) {
		a.SetState(v)
	}
}
