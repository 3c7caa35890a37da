package internal

import (
	"fmt"
	"log/slog"
	"net/http"
	"slices"

	"github.com/dmitrymomot/dispatch/pkg/logger"
	"github.com/dmitrymomot/dispatch/pkg/session"
)

// Context carries per-request state through middlewares and the handler.
// A new Context is built for every request and never shared.
type Context struct {
	// Session is populated by the session middleware. It is nil when no
	// session middleware ran or no provider is configured.
	Session *session.Session

	values   map[string]any
	params   map[string]string
	header   http.Header
	done     []func()
	provider session.Provider
	state    any
	logger   *slog.Logger
}

// NewContext builds a context outside the dispatcher, for tests and
// custom pipelines.
func NewContext(provider session.Provider, state any, params map[string]string) *Context {
	return &Context{
		provider: provider,
		state:    state,
		params:   params,
		logger:   logger.NewNope(),
	}
}

// Set stores value under key, replacing any previous value.
func (c *Context) Set(key string, value any) {
	if c.values == nil {
		c.values = make(map[string]any)
	}
	c.values[key] = value
}

// Value returns the raw value stored under key.
func (c *Context) Value(key string) (any, bool) {
	v, ok := c.values[key]
	return v, ok
}

// Get returns the value stored under key as T. It reports false when the
// key is absent or holds a value of another type.
func Get[T any](c *Context, key string) (T, bool) {
	v, ok := c.values[key].(T)
	return v, ok
}

// Header returns headers staged for the response. Dispatch adds them to
// whichever response the request ends with, including 404, 405, error
// and short-circuit responses. A header the response already sets wins,
// except Vary, whose values are merged.
func (c *Context) Header() http.Header {
	if c.header == nil {
		c.header = make(http.Header)
	}
	return c.header
}

// OnDone registers fn to run when dispatch of the request finishes,
// on every exit path. Callbacks run in reverse registration order.
func (c *Context) OnDone(fn func()) {
	if fn != nil {
		c.done = append(c.done, fn)
	}
}

// finish applies staged headers to res and runs the OnDone callbacks.
func (c *Context) finish(res *Response) {
	defer func() {
		for i := len(c.done) - 1; i >= 0; i-- {
			c.done[i]()
		}
		c.done = nil
	}()

	if res == nil || len(c.header) == 0 {
		return
	}
	if res.Header == nil {
		res.Header = make(http.Header)
	}
	for k, vs := range c.header {
		if k == "Vary" {
			for _, v := range vs {
				if !slices.Contains(res.Header.Values(k), v) {
					res.Header.Add(k, v)
				}
			}
			continue
		}
		if _, ok := res.Header[k]; !ok {
			res.Header[k] = slices.Clone(vs)
		}
	}
}

// Params returns the named path parameters of the matched view.
// It is nil when no view matched.
func (c *Context) Params() map[string]string {
	return c.params
}

// Param returns a single path parameter, or "" if absent.
func (c *Context) Param(name string) string {
	return c.params[name]
}

// Provider returns the app's session provider, or nil.
func (c *Context) Provider() session.Provider {
	return c.provider
}

// Logger returns the app logger.
func (c *Context) Logger() *slog.Logger {
	if c.logger == nil {
		return logger.NewNope()
	}
	return c.logger
}

// State returns the app's shared state as T.
// Returns ErrNoState if none was configured and ErrStateTypeMismatch
// if it holds a value of another type.
func State[T any](c *Context) (T, error) {
	var zero T
	if c.state == nil {
		return zero, ErrNoState
	}
	v, ok := c.state.(T)
	if !ok {
		return zero, fmt.Errorf("%w: have %T, want %T", ErrStateTypeMismatch, c.state, zero)
	}
	return v, nil
}
