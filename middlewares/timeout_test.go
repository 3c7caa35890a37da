package middlewares_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/dispatch/internal"
	"github.com/dmitrymomot/dispatch/middlewares"
)

func TestTimeout(t *testing.T) {
	t.Parallel()

	t.Run("passes through when handler completes in time", func(t *testing.T) {
		t.Parallel()

		var hasDeadline bool
		app := internal.New(
			internal.WithMiddleware(middlewares.Timeout(time.Second)),
			internal.WithRoute(`/`, nil, func(r *internal.Request, c *internal.Context) (*internal.Response, error) {
				_, hasDeadline = r.Context().Deadline()
				return internal.NoContent(), nil
			}),
		)

		res := app.Dispatch(newRequest(http.MethodGet, "/", nil))
		require.Equal(t, http.StatusNoContent, res.Status)
		require.True(t, hasDeadline)
	})

	t.Run("reports timeout to the error handler", func(t *testing.T) {
		t.Parallel()

		var got error
		app := internal.New(
			internal.WithErrorHandler(func(r *internal.Request, err error) *internal.Response {
				got = err
				if middlewares.IsTimeoutError(err) {
					return internal.Text(http.StatusGatewayTimeout, "Gateway Timeout")
				}
				return nil
			}),
			internal.WithMiddleware(middlewares.Timeout(10*time.Millisecond)),
			internal.WithRoute(`/`, nil, func(r *internal.Request, c *internal.Context) (*internal.Response, error) {
				<-r.Context().Done()
				return internal.NoContent(), nil
			}),
		)

		res := app.Dispatch(newRequest(http.MethodGet, "/", nil))
		require.Equal(t, http.StatusGatewayTimeout, res.Status)
		require.ErrorIs(t, got, internal.ErrMiddlewareFailure)
		require.Equal(t, "request timeout after 10ms", internal.Cause(got).Error())
	})

	t.Run("cancels the context when the handler fails", func(t *testing.T) {
		t.Parallel()

		var ctx context.Context
		app := internal.New(
			internal.WithMiddleware(middlewares.Timeout(time.Hour)),
			internal.WithRoute(`/`, nil, func(r *internal.Request, c *internal.Context) (*internal.Response, error) {
				ctx = r.Context()
				return nil, errors.New("boom")
			}),
		)

		res := app.Dispatch(newRequest(http.MethodGet, "/", nil))
		require.Equal(t, http.StatusInternalServerError, res.Status)
		require.ErrorIs(t, ctx.Err(), context.Canceled)
	})

	t.Run("cancels the context when no view matches", func(t *testing.T) {
		t.Parallel()

		app := internal.New(internal.WithMiddleware(middlewares.Timeout(time.Hour)))

		req := newRequest(http.MethodGet, "/missing", nil)
		res := app.Dispatch(req)
		require.Equal(t, http.StatusNotFound, res.Status)
		require.ErrorIs(t, req.Context().Err(), context.Canceled)
	})
}
