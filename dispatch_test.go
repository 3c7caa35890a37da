package dispatch_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/dispatch"
	"github.com/dmitrymomot/dispatch/middlewares"
	"github.com/dmitrymomot/dispatch/pkg/session"
)

type counterState struct {
	greeting string
}

func newApp(t *testing.T) *dispatch.App {
	t.Helper()

	return dispatch.New(
		dispatch.WithState(&counterState{greeting: "World!"}),
		dispatch.WithSessionProvider(session.NewRemoteProvider(session.NewMemoryStore())),
		dispatch.WithMiddleware(middlewares.RequestID(), middlewares.Session()),
		dispatch.WithRoute(`/`, []string{http.MethodGet}, func(r *dispatch.Request, c *dispatch.Context) (*dispatch.Response, error) {
			st, err := dispatch.State[*counterState](c)
			if err != nil {
				return nil, err
			}
			n, ok := session.Int(c.Session, "count")
			if ok {
				n++
			}
			c.Session.Set("count", n)
			return dispatch.OK(map[string]any{"Hello": st.greeting, "path": r.Path, "session": c.Session})
		}),
		dispatch.WithRoute(`/users/(?P<id>\d+)`, nil, func(r *dispatch.Request, c *dispatch.Context) (*dispatch.Response, error) {
			return dispatch.OK(map[string]int64{"id": dispatch.ParamAs[int64](c, "id")})
		}),
		dispatch.WithRoute(`/private`, nil, func(*dispatch.Request, *dispatch.Context) (*dispatch.Response, error) {
			return nil, dispatch.ErrForbidden("no access")
		}),
	)
}

func TestApp_EndToEnd(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(newApp(t).Handler())
	t.Cleanup(srv.Close)

	jar := &cookieJar{}
	visit := func() map[string]any {
		req, err := http.NewRequest(http.MethodGet, srv.URL+"/", nil)
		require.NoError(t, err)
		jar.apply(req)

		res, err := srv.Client().Do(req)
		require.NoError(t, err)
		defer res.Body.Close()

		require.Equal(t, http.StatusOK, res.StatusCode)
		require.NotEmpty(t, res.Header.Get("X-Request-ID"))
		jar.store(res)

		var body map[string]any
		require.NoError(t, json.NewDecoder(res.Body).Decode(&body))
		return body
	}

	first := visit()
	require.Equal(t, "World!", first["Hello"])
	require.Equal(t, "/", first["path"])
	require.Equal(t, map[string]any{"count": float64(0)}, first["session"])

	second := visit()
	require.Equal(t, map[string]any{"count": float64(1)}, second["session"])
}

func TestApp_Routes(t *testing.T) {
	t.Parallel()

	h := newApp(t).Handler()

	tests := []struct {
		name   string
		method string
		path   string
		status int
		body   string
	}{
		{"path param", http.MethodGet, "/users/42", http.StatusOK, `{"id":42}`},
		{"partial match is not a match", http.MethodGet, "/users/42/edit", http.StatusNotFound, "Not found: /users/42/edit"},
		{"http error", http.MethodGet, "/private", http.StatusForbidden, "no access"},
		{"liveness", http.MethodGet, "/health/live", http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))

			require.Equal(t, tt.status, rec.Code)
			if tt.body != "" {
				require.Equal(t, tt.body, rec.Body.String())
			}
		})
	}
}

// cookieJar keeps the last value of every cookie the server set.
type cookieJar struct {
	cookies map[string]string
}

func (j *cookieJar) store(res *http.Response) {
	if j.cookies == nil {
		j.cookies = make(map[string]string)
	}
	for _, c := range res.Cookies() {
		j.cookies[c.Name] = c.Value
	}
}

func (j *cookieJar) apply(req *http.Request) {
	for name, value := range j.cookies {
		req.AddCookie(&http.Cookie{Name: name, Value: value})
	}
}
