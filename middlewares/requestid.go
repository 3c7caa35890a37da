package middlewares

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/dmitrymomot/dispatch/internal"
	"github.com/dmitrymomot/dispatch/pkg/logger"
)

// RequestIDKey is the Context key holding the request ID.
const RequestIDKey = "request_id"

// requestIDKey is the context.Context key used for log correlation.
type requestIDKey struct{}

// DefaultRequestIDHeaders are the headers checked (in order) for an existing request ID.
var DefaultRequestIDHeaders = []string{"X-Request-ID", "X-Correlation-ID"}

// RequestIDConfig configures the request ID middleware.
type RequestIDConfig struct {
	Generator      func() string // ID generator function
	ResponseHeader string        // Response header name
	Headers        []string      // Headers to check for existing ID (in order)
}

// RequestIDOption configures RequestIDConfig.
type RequestIDOption func(*RequestIDConfig)

// WithRequestIDHeaders sets the headers to check for existing request IDs.
func WithRequestIDHeaders(headers ...string) RequestIDOption {
	return func(cfg *RequestIDConfig) {
		cfg.Headers = headers
	}
}

// WithRequestIDGenerator sets a custom ID generator function.
func WithRequestIDGenerator(gen func() string) RequestIDOption {
	return func(cfg *RequestIDConfig) {
		if gen != nil {
			cfg.Generator = gen
		}
	}
}

// WithRequestIDResponseHeader sets the response header name.
func WithRequestIDResponseHeader(header string) RequestIDOption {
	return func(cfg *RequestIDConfig) {
		cfg.ResponseHeader = header
	}
}

// RequestID returns middleware that assigns an ID to each request.
// An upstream ID from the configured headers is kept, otherwise a UUID is
// generated. The ID is stored under RequestIDKey, added to the request's
// context.Context for RequestIDExtractor, and echoed as a response header
// on every response, error responses included.
func RequestID(opts ...RequestIDOption) internal.Middleware {
	cfg := &RequestIDConfig{
		Headers:        DefaultRequestIDHeaders,
		Generator:      uuid.NewString,
		ResponseHeader: "X-Request-ID",
	}

	for _, opt := range opts {
		opt(cfg)
	}

	sources := make([]internal.ExtractorSource, 0, len(cfg.Headers))
	for _, h := range cfg.Headers {
		sources = append(sources, internal.FromHeader(h))
	}
	extractor := internal.NewExtractor(sources...)

	return internal.MiddlewareFuncs{
		Pre: func(r *internal.Request, c *internal.Context) (*internal.Response, error) {
			// First match wins so upstream tracing IDs are preserved.
			reqID, ok := extractor.Extract(r, c)
			if !ok {
				reqID = cfg.Generator()
			}

			c.Set(RequestIDKey, reqID)
			r.SetContext(context.WithValue(r.Context(), requestIDKey{}, reqID))
			if cfg.ResponseHeader != "" {
				c.Header().Set(cfg.ResponseHeader, reqID)
			}
			return nil, nil
		},
	}
}

// GetRequestID returns the request ID, or "" if RequestID did not run.
func GetRequestID(c *internal.Context) string {
	v, _ := internal.Get[string](c, RequestIDKey)
	return v
}

// RequestIDExtractor returns a ContextExtractor for logger.New.
// Automatically adds "request_id" to all log entries.
func RequestIDExtractor() logger.ContextExtractor {
	return func(ctx context.Context) (slog.Attr, bool) {
		if v, ok := ctx.Value(requestIDKey{}).(string); ok && v != "" {
			return slog.String("request_id", v), true
		}
		return slog.Attr{}, false
	}
}
