package internal_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/dispatch/internal"
)

func TestAsHTTPError(t *testing.T) {
	t.Parallel()

	t.Run("direct", func(t *testing.T) {
		t.Parallel()

		he, ok := internal.AsHTTPError(internal.ErrNotFound("missing"))
		require.True(t, ok)
		require.Equal(t, http.StatusNotFound, he.StatusCode())
	})

	t.Run("double wrapped", func(t *testing.T) {
		t.Parallel()

		err := fmt.Errorf("outer: %w", fmt.Errorf("inner: %w", internal.ErrConflict("conflict")))
		he, ok := internal.AsHTTPError(err)
		require.True(t, ok)
		require.Equal(t, "conflict", he.Message)
	})

	t.Run("unrelated", func(t *testing.T) {
		t.Parallel()

		_, ok := internal.AsHTTPError(errors.New("boom"))
		require.False(t, ok)
	})
}

func TestNewHTTPError(t *testing.T) {
	t.Parallel()

	cause := errors.New("db down")
	err := internal.ErrServiceUnavailable("", internal.WithError(cause))

	require.Equal(t, "Service Unavailable", err.Message)
	require.Equal(t, "Service Unavailable", err.StatusText())
	require.ErrorIs(t, err, cause)
}

func TestDefaultErrorHandler(t *testing.T) {
	t.Parallel()

	req := &internal.Request{Method: http.MethodGet, Path: "/"}

	t.Run("plain error", func(t *testing.T) {
		t.Parallel()

		res := internal.DefaultErrorHandler(req, fmt.Errorf("%w: %w", internal.ErrHandlerFailure, errors.New("boom")))
		require.Equal(t, http.StatusInternalServerError, res.Status)
		require.Equal(t, internal.ContentTypeText, res.ContentType())
	})

	t.Run("http error keeps its status", func(t *testing.T) {
		t.Parallel()

		res := internal.DefaultErrorHandler(req, internal.ErrForbidden("nope"))
		require.Equal(t, http.StatusForbidden, res.Status)
		require.Equal(t, "nope", string(res.Body))
	})

	t.Run("panic", func(t *testing.T) {
		t.Parallel()

		res := internal.DefaultErrorHandler(req, &internal.PanicError{Value: "kaboom"})
		require.Equal(t, http.StatusInternalServerError, res.Status)
		require.Equal(t, "Error: panic: kaboom", string(res.Body))
	})
}

func TestPanicError_Unwrap(t *testing.T) {
	t.Parallel()

	cause := errors.New("nil map")
	err := error(&internal.PanicError{Value: cause})
	require.ErrorIs(t, err, cause)

	pe, ok := internal.AsPanicError(fmt.Errorf("wrapped: %w", err))
	require.True(t, ok)
	require.Equal(t, cause, pe.Value)
}
