package session

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/dispatch/pkg/cookie"
)

// Default session configuration.
const (
	DefaultMaxAge = 86400 * 30 // 30 days

	DefaultRemoteCookieName    = "session_id"
	DefaultSignedCookieName    = "signed_session"
	DefaultEncryptedCookieName = "encrypted_session"
)

// Provider is a pluggable session backend.
// One provider is configured per app and shared by all requests,
// so implementations must be safe for concurrent use.
type Provider interface {
	// New creates an empty session with a fresh ID.
	New(ctx context.Context) (*Session, error)

	// Open restores the session carried by the request headers.
	// A request without session evidence gets a new empty session.
	Open(ctx context.Context, h http.Header) (*Session, error)

	// Save persists the session and returns the cookie the response
	// must carry for the client to present the session again.
	Save(ctx context.Context, s *Session) (*http.Cookie, error)
}

// Deleter is implemented by providers that can end a session. All
// providers in this package implement it.
type Deleter interface {
	// Delete removes the session and returns the cookie that clears it
	// on the client.
	Delete(ctx context.Context, s *Session) (*http.Cookie, error)
}

// Option configures a provider.
type Option func(*config)

type config struct {
	newID      func() string
	cookieName string
	cookieOpts []cookie.Option
	maxAge     int
}

func newConfig(defaultName string, opts ...Option) *config {
	cfg := &config{
		cookieName: defaultName,
		maxAge:     DefaultMaxAge,
		newID:      uuid.NewString,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// WithCookieName sets the name of the cookie carrying the session.
func WithCookieName(name string) Option {
	return func(c *config) {
		if name != "" {
			c.cookieName = name
		}
	}
}

// WithMaxAge sets the cookie max age in seconds.
// For the remote provider it is also the stored document TTL.
func WithMaxAge(seconds int) Option {
	return func(c *config) {
		if seconds > 0 {
			c.maxAge = seconds
		}
	}
}

// WithCookieOptions sets cookie attributes (domain, path, secure, same-site).
func WithCookieOptions(opts ...cookie.Option) Option {
	return func(c *config) {
		c.cookieOpts = append(c.cookieOpts, opts...)
	}
}

// WithIDGenerator replaces the default UUIDv4 session ID generator.
func WithIDGenerator(fn func() string) Option {
	return func(c *config) {
		if fn != nil {
			c.newID = fn
		}
	}
}

func (c *config) ttl() time.Duration {
	return time.Duration(c.maxAge) * time.Second
}
