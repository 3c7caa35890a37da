package internal

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"

	"github.com/dmitrymomot/dispatch/pkg/cookie"
)

// DefaultMaxBodySize bounds how much of a request body NewRequest buffers.
const DefaultMaxBodySize int64 = 4 << 20 // 4 MiB

// ErrBodyTooLarge is returned by NewRequest when the body exceeds the limit.
var ErrBodyTooLarge = errors.New("dispatch: request body too large")

// Request is the transport-independent incoming request seen by
// middlewares and handlers. The body is fully buffered.
type Request struct {
	ctx context.Context

	Header     http.Header
	Query      url.Values
	Method     string
	Path       string
	RemoteAddr string
	Body       []byte

	cookies map[string]string
}

// NewRequest adapts an *http.Request, buffering at most maxBody bytes of its body.
// A non-positive maxBody uses DefaultMaxBodySize.
func NewRequest(r *http.Request, maxBody int64) (*Request, error) {
	if maxBody <= 0 {
		maxBody = DefaultMaxBodySize
	}

	var body []byte
	if r.Body != nil && r.Body != http.NoBody {
		data, err := io.ReadAll(io.LimitReader(r.Body, maxBody+1))
		if err != nil {
			return nil, err
		}
		if int64(len(data)) > maxBody {
			return nil, ErrBodyTooLarge
		}
		body = data
	}

	return &Request{
		ctx:        r.Context(),
		Method:     r.Method,
		Path:       r.URL.Path,
		Query:      r.URL.Query(),
		Header:     r.Header.Clone(),
		Body:       body,
		RemoteAddr: r.RemoteAddr,
	}, nil
}

// Context returns the request's context. It is never nil.
func (r *Request) Context() context.Context {
	if r.ctx == nil {
		return context.Background()
	}
	return r.ctx
}

// SetContext replaces the request's context. Later middlewares and the
// handler observe the new context.
func (r *Request) SetContext(ctx context.Context) {
	if ctx != nil {
		r.ctx = ctx
	}
}

// Cookies returns the parsed Cookie header. Malformed entries are skipped.
func (r *Request) Cookies() map[string]string {
	if r.cookies == nil {
		r.cookies = cookie.FromHeader(r.Header)
	}
	return r.cookies
}

// Cookie returns the named cookie value and whether it was present.
func (r *Request) Cookie(name string) (string, bool) {
	v, ok := r.Cookies()[name]
	return v, ok
}
