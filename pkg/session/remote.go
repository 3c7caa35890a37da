package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/dispatch/pkg/cookie"
)

const keyPrefix = "session"

// Key returns the store key of a session document: "session:<id>".
func Key(id string) string {
	return keyPrefix + ":" + id
}

// RemoteProvider keeps session documents in a Store and hands the client
// only the session ID, in the "session_id" cookie by default.
//
// An unknown ID is a hard failure (ErrNotFound), never silently replaced
// with a fresh session.
type RemoteProvider struct {
	store   Store
	cfg     *config
	cookies *cookie.Manager
}

// NewRemoteProvider creates a provider over any Store.
func NewRemoteProvider(store Store, opts ...Option) *RemoteProvider {
	cfg := newConfig(DefaultRemoteCookieName, opts...)
	return &RemoteProvider{
		store:   store,
		cfg:     cfg,
		cookies: cookie.New(cfg.cookieOpts...),
	}
}

// NewRedisProvider creates a remote provider backed by Redis.
//
// Example:
//
//	client := redis.MustOpen(ctx, os.Getenv("REDIS_URL"))
//	provider := session.NewRedisProvider(client, session.WithMaxAge(3600))
func NewRedisProvider(client redis.UniversalClient, opts ...Option) *RemoteProvider {
	return NewRemoteProvider(NewRedisStore(client), opts...)
}

// New generates a fresh ID, stores an empty document and returns the session.
func (p *RemoteProvider) New(ctx context.Context) (*Session, error) {
	s := New(p.cfg.newID())
	if err := p.write(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

// Open loads the session named by the session cookie.
// Without the cookie a new session is created.
func (p *RemoteProvider) Open(ctx context.Context, h http.Header) (*Session, error) {
	sid, err := cookie.Get(h, p.cfg.cookieName)
	if err != nil || sid == "" {
		return p.New(ctx)
	}

	data, err := p.store.Get(ctx, Key(sid))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, sid)
		}
		return nil, fmt.Errorf("session: load %s: %w", sid, err)
	}

	values := make(map[string]any)
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, errors.Join(ErrMalformed, err)
	}
	if values == nil {
		values = make(map[string]any)
	}

	return &Session{ID: sid, Values: values}, nil
}

// Save writes the document back under the session key and returns
// the cookie carrying the session ID. A clean session is not rewritten.
func (p *RemoteProvider) Save(ctx context.Context, s *Session) (*http.Cookie, error) {
	if s.IsDirty() {
		if err := p.write(ctx, s); err != nil {
			return nil, err
		}
	}
	return p.cookies.Cookie(p.cfg.cookieName, s.ID, p.cfg.maxAge), nil
}

// Delete removes the stored document and returns a cookie that clears
// the session ID on the client.
func (p *RemoteProvider) Delete(ctx context.Context, s *Session) (*http.Cookie, error) {
	if err := p.store.Delete(ctx, Key(s.ID)); err != nil {
		return nil, fmt.Errorf("session: delete %s: %w", s.ID, err)
	}
	return p.cookies.Expire(p.cfg.cookieName), nil
}

func (p *RemoteProvider) write(ctx context.Context, s *Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return errors.Join(ErrMalformed, err)
	}
	if err := p.store.Set(ctx, Key(s.ID), data, p.cfg.ttl()); err != nil {
		return fmt.Errorf("session: save %s: %w", s.ID, err)
	}
	s.ClearDirty()
	return nil
}
