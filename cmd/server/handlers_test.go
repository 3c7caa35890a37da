package main

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/dispatch"
	"github.com/dmitrymomot/dispatch/middlewares"
	"github.com/dmitrymomot/dispatch/pkg/session"
)

func newTestApp(t *testing.T, provider session.Provider) http.Handler {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "hello.txt"), []byte("hello"), 0o600))

	static, err := dispatch.StaticFiles(`/static/(?P<file_path>.*)`, os.DirFS(dir))
	require.NoError(t, err)

	return dispatch.New(
		dispatch.WithSessionProvider(provider),
		dispatch.WithMiddleware(middlewares.RequestID(), middlewares.Session()),
		dispatch.WithRoute(`/`, []string{"GET"}, index),
		dispatch.WithRoute(`/unauthed`, []string{"GET"}, unauthed),
		dispatch.WithView(static),
	).Handler(dispatch.WithoutHealth())
}

func TestServer(t *testing.T) {
	t.Parallel()

	h := newTestApp(t, session.NewRemoteProvider(session.NewMemoryStore()))

	t.Run("index counts visits", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		require.JSONEq(t, `{"Hello":"World!","path":"/","session":{"count":0}}`, rec.Body.String())

		cookies := rec.Result().Cookies()
		require.Len(t, cookies, 1)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(cookies[0])
		rec = httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		require.JSONEq(t, `{"Hello":"World!","path":"/","session":{"count":1}}`, rec.Body.String())
	})

	t.Run("unauthed", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/unauthed", nil))
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.JSONEq(t, `{"msg":"Unauthed","path":"/unauthed"}`, rec.Body.String())
	})

	t.Run("missing", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/missing", nil))
		require.Equal(t, http.StatusNotFound, rec.Code)
		require.Equal(t, "Not found: /missing", rec.Body.String())
	})

	t.Run("static file", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/static/hello.txt", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "hello", rec.Body.String())
	})
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"memory", Config{SessionProvider: providerMemory}, false},
		{"redis without url", Config{SessionProvider: providerRedis}, true},
		{"postgres without url", Config{SessionProvider: providerPostgres}, true},
		{"signed with short secret", Config{SessionProvider: providerSigned, SessionSecret: "short"}, true},
		{"encrypted", Config{SessionProvider: providerEncrypted, SessionSecret: "0123456789abcdef0123456789abcdef"}, false},
		{"unknown", Config{SessionProvider: "files"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.cfg.validate()
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
		})
	}
}
