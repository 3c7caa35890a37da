package middlewares

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/dmitrymomot/dispatch/internal"
)

// DefaultTimeout is the default request timeout.
const DefaultTimeout = 30 * time.Second

// Timeout returns middleware that puts a deadline on the request's
// context.Context. Handlers observe it through r.Context().
//
// Dispatch is synchronous, so a handler that ignores its context runs to
// completion. If the deadline passed by the time the post phase runs, the
// response is discarded and a *TimeoutError goes to the ErrorHandler.
// The derived context is cancelled once dispatch finishes, whatever the
// outcome.
func Timeout(timeout time.Duration) internal.Middleware {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return internal.MiddlewareFuncs{
		Pre: func(r *internal.Request, c *internal.Context) (*internal.Response, error) {
			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			r.SetContext(ctx)
			c.OnDone(cancel)
			return nil, nil
		},
		Post: func(r *internal.Request, _ *internal.Response, c *internal.Context) (*internal.Response, error) {
			if errors.Is(r.Context().Err(), context.DeadlineExceeded) {
				c.Logger().WarnContext(r.Context(), "request timeout",
					slog.String("path", r.Path),
					slog.Duration("timeout", timeout),
				)
				return nil, &TimeoutError{Duration: timeout}
			}
			return nil, nil
		},
	}
}
