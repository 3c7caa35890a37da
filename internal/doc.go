// Package internal provides the core types and implementation for the dispatch framework.
//
// This package is internal and should not be used directly. Import "github.com/dmitrymomot/dispatch"
// instead, which re-exports the public API.
//
// # Core Types
//
//   - App: Holds the view table, middleware chain, session provider and shared state
//   - Request: Transport-independent incoming request with a buffered body
//   - Response: Status, headers and body produced by handlers and middlewares
//   - Context: Per-request scratch values, path parameters, session and state
//   - View: Regular expression pattern, allowed methods and handler
//   - Middleware: Pre and post hooks around the handler
//   - ErrorHandler: Maps dispatch failures to responses
//
// # Dispatch
//
// App.Dispatch is a pure function of the request and the registry snapshot
// taken when it starts. Views are tried in registration order and the first
// full match wins. Named groups in the pattern become path parameters:
//
//	app.AddRoute(`/users/(?P<id>\d+)`, []string{"GET"}, func(r *Request, c *Context) (*Response, error) {
//	    id, err := ParamAs[int64](c, "id")
//	    ...
//	})
//
// The middleware pre phase runs for every request, even unmatched ones, so
// a middleware can answer paths no view serves. The post phase runs in the
// same order as the pre phase and only after a successful handler.
//
// # Errors
//
// Errors returned by hooks or handlers are wrapped with ErrMiddlewareFailure
// or ErrHandlerFailure and passed to the ErrorHandler. Cause strips the
// wrapper. Panics are recovered as *PanicError. The default handler answers
// *HTTPError with its code and message and everything else with 500.
//
// # Transport
//
// App implements http.Handler directly. App.Handler adds the chi router with
// health endpoints, and App.Run serves it with graceful shutdown.
package internal
