package internal

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/dispatch/pkg/logger"
)

func TestHandler_Health(t *testing.T) {
	t.Parallel()

	app := New(WithRoute(`/`, []string{http.MethodGet}, func(*Request, *Context) (*Response, error) {
		return Text(http.StatusOK, "root"), nil
	}))

	failing := func(context.Context) error { return errors.New("down") }

	t.Run("live", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		app.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))
		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("ready fails with failing check", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		app.Handler(ReadinessCheck("db", failing)).
			ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
		require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})

	t.Run("app routes pass through", func(t *testing.T) {
		t.Parallel()

		h := app.Handler()

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "root", rec.Body.String())

		rec = httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/missing", nil))
		require.Equal(t, http.StatusNotFound, rec.Code)
		require.Equal(t, "Not found: /missing", rec.Body.String())

		rec = httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/", nil))
		require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
		require.Equal(t, "GET", rec.Header().Get("Allow"))
	})

	t.Run("head has no body", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		app.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodHead, "/", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		require.Empty(t, rec.Body.String())
	})

	t.Run("without health", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		app.Handler(WithoutHealth()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))
		require.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestServe(t *testing.T) {
	t.Parallel()

	t.Run("serves until context is cancelled", func(t *testing.T) {
		t.Parallel()

		ln, err := net.Listen("tcp", "127.0.0.1:0")
		require.NoError(t, err)

		var order []string
		cfg := buildRunConfig(
			Logger(logger.NewNope()),
			ShutdownTimeout(time.Second),
			StartupHook(func(context.Context) error {
				order = append(order, "startup")
				return nil
			}),
			ShutdownHook(func(context.Context) error {
				order = append(order, "shutdown")
				return nil
			}),
		)

		app := New(WithRoute(`/ping`, nil, func(*Request, *Context) (*Response, error) {
			return Text(http.StatusOK, "pong"), nil
		}))

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() { done <- serve(ctx, ln, app.mux(cfg), cfg) }()

		var res *http.Response
		require.Eventually(t, func() bool {
			res, err = http.Get("http://" + ln.Addr().String() + "/ping")
			return err == nil
		}, 2*time.Second, 10*time.Millisecond)
		body, err := io.ReadAll(res.Body)
		require.NoError(t, err)
		require.NoError(t, res.Body.Close())
		require.Equal(t, "pong", string(body))

		cancel()
		select {
		case err := <-done:
			require.NoError(t, err)
		case <-time.After(3 * time.Second):
			t.Fatal("serve did not return after cancellation")
		}
		require.Equal(t, []string{"startup", "shutdown"}, order)
	})

	t.Run("startup hook failure aborts", func(t *testing.T) {
		t.Parallel()

		ln, err := net.Listen("tcp", "127.0.0.1:0")
		require.NoError(t, err)

		cfg := buildRunConfig(
			Logger(logger.NewNope()),
			StartupHook(func(context.Context) error { return errors.New("no db") }),
		)

		err = serve(context.Background(), ln, http.NotFoundHandler(), cfg)
		require.ErrorContains(t, err, "no db")
	})

	t.Run("shutdown hook errors are joined", func(t *testing.T) {
		t.Parallel()

		ln, err := net.Listen("tcp", "127.0.0.1:0")
		require.NoError(t, err)

		hookErr := errors.New("close failed")
		cfg := buildRunConfig(
			Logger(logger.NewNope()),
			ShutdownHook(func(context.Context) error { return hookErr }),
		)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err = serve(ctx, ln, http.NotFoundHandler(), cfg)
		require.ErrorIs(t, err, hookErr)
	})
}
