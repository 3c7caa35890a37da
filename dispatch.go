package dispatch

import (
	"context"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/dmitrymomot/dispatch/internal"
	"github.com/dmitrymomot/dispatch/pkg/health"
	"github.com/dmitrymomot/dispatch/pkg/logger"
	"github.com/dmitrymomot/dispatch/pkg/session"
)

// Type aliases - public API
type (
	// App holds the view table, middleware chain, session provider and
	// shared state, and dispatches requests through them.
	App = internal.App

	// Request is the transport-independent incoming request.
	Request = internal.Request

	// Response is the outgoing response built by handlers and middlewares.
	Response = internal.Response

	// Context carries per-request values, path parameters, the session
	// and the shared state.
	Context = internal.Context

	// HandlerFunc is the signature for view handlers.
	HandlerFunc = internal.HandlerFunc

	// View binds a pattern and a method set to a handler.
	View = internal.View

	// Middleware intercepts requests before and after the handler.
	Middleware = internal.Middleware

	// MiddlewareFuncs adapts plain functions to Middleware.
	MiddlewareFuncs = internal.MiddlewareFuncs

	// ErrorHandler maps dispatch failures to responses.
	ErrorHandler = internal.ErrorHandler

	// HTTPError is an error carrying a status code and a client message.
	HTTPError = internal.HTTPError

	// PanicError is a panic recovered during dispatch.
	PanicError = internal.PanicError

	// Option configures the application.
	Option = internal.Option

	// RunOption configures the server runtime.
	RunOption = internal.RunOption

	// Extractor reads a value from the first source that has one.
	Extractor = internal.Extractor

	// ExtractorSource reads one candidate value from a request.
	ExtractorSource = internal.ExtractorSource

	// ContextExtractor extracts a slog attribute from context.
	// Used with logger.New to add request-scoped values to logs.
	ContextExtractor = logger.ContextExtractor

	// Session is the per-client session document.
	Session = session.Session

	// SessionProvider opens and saves sessions.
	SessionProvider = session.Provider

	// SessionStore persists remote session documents.
	SessionStore = session.Store

	// Scalar is the set of types ParamAs and QueryAs convert to.
	Scalar = internal.Scalar

	// HealthCheck reports whether a dependency is ready.
	HealthCheck = health.CheckFunc
)

// Errors
var (
	ErrMiddlewareFailure = internal.ErrMiddlewareFailure
	ErrHandlerFailure    = internal.ErrHandlerFailure
	ErrInvalidPattern    = internal.ErrInvalidPattern
	ErrNilHandler        = internal.ErrNilHandler
	ErrNoState           = internal.ErrNoState
	ErrStateTypeMismatch = internal.ErrStateTypeMismatch
	ErrBodyTooLarge      = internal.ErrBodyTooLarge
)

// Content types used by the response builders.
const (
	ContentTypeText = internal.ContentTypeText
	ContentTypeHTML = internal.ContentTypeHTML
	ContentTypeJSON = internal.ContentTypeJSON
)

// Constructors

// New creates a new application with the given options.
//
// Example:
//
//	app := dispatch.New(
//	    dispatch.WithLogger(log),
//	    dispatch.WithSessionProvider(provider),
//	    dispatch.WithMiddleware(middlewares.Session()),
//	    dispatch.WithRoute(`/`, []string{"GET"}, index),
//	)
//
//	err := app.Run(":8080")
func New(opts ...Option) *App {
	return internal.New(opts...)
}

// NewView compiles pattern into a view. The pattern must match the whole path.
func NewView(pattern string, methods []string, h HandlerFunc) (*View, error) {
	return internal.NewView(pattern, methods, h)
}

// StaticFiles returns a GET view serving files from fsys. The pattern must
// capture the file path in a group named file_path.
//
//	dispatch.StaticFiles(`/static/(?P<file_path>.*)`, os.DirFS("public"))
func StaticFiles(pattern string, fsys fs.FS) (*View, error) {
	return internal.StaticFiles(pattern, fsys)
}

// MustStaticFiles is like StaticFiles but panics on an invalid pattern.
func MustStaticFiles(pattern string, fsys fs.FS) *View {
	return internal.MustStaticFiles(pattern, fsys)
}

// NewContext builds a context outside the dispatcher, for tests.
func NewContext(provider SessionProvider, state any, params map[string]string) *Context {
	return internal.NewContext(provider, state, params)
}

// NewRequest adapts an *http.Request, buffering at most maxBody bytes of its body.
func NewRequest(r *http.Request, maxBody int64) (*Request, error) {
	return internal.NewRequest(r, maxBody)
}

// App options

// WithLogger sets the application logger.
func WithLogger(l *slog.Logger) Option {
	return internal.WithLogger(l)
}

// WithErrorHandler sets a custom error handler.
func WithErrorHandler(h ErrorHandler) Option {
	return internal.WithErrorHandler(h)
}

// WithMaxBodySize bounds request bodies. Defaults to 4 MiB.
func WithMaxBodySize(n int64) Option {
	return internal.WithMaxBodySize(n)
}

// WithRoute registers a view. It panics if pattern does not compile.
func WithRoute(pattern string, methods []string, h HandlerFunc) Option {
	return internal.WithRoute(pattern, methods, h)
}

// WithView registers prebuilt views.
func WithView(views ...*View) Option {
	return internal.WithView(views...)
}

// WithMiddleware adds middlewares. Pre and post phases run in the order provided.
func WithMiddleware(mw ...Middleware) Option {
	return internal.WithMiddleware(mw...)
}

// WithSessionProvider sets the session provider shared by all requests.
func WithSessionProvider(p SessionProvider) Option {
	return internal.WithSessionProvider(p)
}

// WithState sets the shared state returned by State.
func WithState(v any) Option {
	return internal.WithState(v)
}

// Run options

// Logger sets the server lifecycle logger.
func Logger(l *slog.Logger) RunOption {
	return internal.Logger(l)
}

// ShutdownTimeout bounds graceful shutdown.
func ShutdownTimeout(d time.Duration) RunOption {
	return internal.ShutdownTimeout(d)
}

// StartupHook runs fn before the server accepts connections.
func StartupHook(fn func(context.Context) error) RunOption {
	return internal.StartupHook(fn)
}

// ShutdownHook runs fn after the server stopped accepting requests.
func ShutdownHook(fn func(context.Context) error) RunOption {
	return internal.ShutdownHook(fn)
}

// ReadinessCheck adds a named check to GET /health/ready.
func ReadinessCheck(name string, fn HealthCheck) RunOption {
	return internal.ReadinessCheck(name, fn)
}

// HealthTimeout bounds readiness checks.
func HealthTimeout(d time.Duration) RunOption {
	return internal.HealthTimeout(d)
}

// WithoutHealth disables the /health endpoints.
func WithoutHealth() RunOption {
	return internal.WithoutHealth()
}

// BaseContext sets the parent context of the server. Cancelling it stops Run.
func BaseContext(ctx context.Context) RunOption {
	return internal.BaseContext(ctx)
}

// HTTPMiddleware wraps the transport mux with net/http middleware.
func HTTPMiddleware(mws ...func(http.Handler) http.Handler) RunOption {
	return internal.HTTPMiddleware(mws...)
}

// Generic helpers

// Get returns the context value stored under key as T.
func Get[T any](c *Context, key string) (T, bool) {
	return internal.Get[T](c, key)
}

// State returns the app's shared state as T.
func State[T any](c *Context) (T, error) {
	return internal.State[T](c)
}

// ParamAs converts a path parameter to T, returning the zero value on failure.
func ParamAs[T Scalar](c *Context, name string) T {
	return internal.ParamAs[T](c, name)
}

// QueryAs converts a query parameter to T, returning defaultValue on failure.
func QueryAs[T Scalar](r *Request, name string, defaultValue T) T {
	return internal.QueryAs(r, name, defaultValue)
}

// Response builders

// Text builds a plain text response.
func Text(status int, body string) *Response { return internal.Text(status, body) }

// HTML builds an HTML response.
func HTML(status int, body string) *Response { return internal.HTML(status, body) }

// JSON builds a JSON response from v.
func JSON(status int, v any) (*Response, error) { return internal.JSON(status, v) }

// OK builds a 200 JSON response from v.
func OK(v any) (*Response, error) { return internal.OK(v) }

// NoContent builds an empty 204 response.
func NoContent() *Response { return internal.NoContent() }

// Redirect builds a redirect response.
func Redirect(status int, url string) *Response { return internal.Redirect(status, url) }

// Errors

// Cause strips the dispatch failure kind from err.
func Cause(err error) error { return internal.Cause(err) }

// AsHTTPError extracts an *HTTPError from err.
func AsHTTPError(err error) (*HTTPError, bool) { return internal.AsHTTPError(err) }

// AsPanicError extracts a *PanicError from err.
func AsPanicError(err error) (*PanicError, bool) { return internal.AsPanicError(err) }

// DefaultErrorHandler answers HTTPError with its code and everything else with 500.
func DefaultErrorHandler(r *Request, err error) *Response {
	return internal.DefaultErrorHandler(r, err)
}

// NewHTTPError creates an error with a status code and client message.
func NewHTTPError(code int, message string) *HTTPError {
	return internal.NewHTTPError(code, message)
}

// ErrBadRequest returns a 400 error.
func ErrBadRequest(message string) *HTTPError { return internal.ErrBadRequest(message) }

// ErrUnauthorized returns a 401 error.
func ErrUnauthorized(message string) *HTTPError { return internal.ErrUnauthorized(message) }

// ErrForbidden returns a 403 error.
func ErrForbidden(message string) *HTTPError { return internal.ErrForbidden(message) }

// ErrNotFound returns a 404 error.
func ErrNotFound(message string) *HTTPError { return internal.ErrNotFound(message) }

// ErrConflict returns a 409 error.
func ErrConflict(message string) *HTTPError { return internal.ErrConflict(message) }

// Extractor sources

// NewExtractor creates an Extractor over sources, tried in order.
func NewExtractor(sources ...ExtractorSource) Extractor {
	return internal.NewExtractor(sources...)
}

// FromHeader reads a request header.
func FromHeader(name string) ExtractorSource { return internal.FromHeader(name) }

// FromQuery reads a query parameter.
func FromQuery(name string) ExtractorSource { return internal.FromQuery(name) }

// FromCookie reads a cookie.
func FromCookie(name string) ExtractorSource { return internal.FromCookie(name) }

// FromParam reads a path parameter.
func FromParam(name string) ExtractorSource { return internal.FromParam(name) }

// FromSession reads a string session value.
func FromSession(key string) ExtractorSource { return internal.FromSession(key) }

// FromBearerToken reads the token of an "Authorization: Bearer" header.
func FromBearerToken() ExtractorSource { return internal.FromBearerToken() }
