package session

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrymomot/dispatch/pkg/cookie"
)

// payload is the JSON carried inside session cookies.
type payload struct {
	ID     string         `json:"id"`
	Values map[string]any `json:"values"`
}

// codec turns a payload into a cookie value and back.
type codec interface {
	encode(data []byte) (string, error)
	decode(raw string) ([]byte, error)
}

// cookieProvider stores the whole session in a client cookie.
// The server holds no state.
type cookieProvider struct {
	cfg     *config
	cookies *cookie.Manager
	codec   codec
}

func newCookieProvider(secret, defaultName string, mk func(*cookie.Manager) codec, opts ...Option) (*cookieProvider, error) {
	cfg := newConfig(defaultName, opts...)
	m := cookie.New(append(cfg.cookieOpts, cookie.WithSecret(secret))...)
	if !m.HasSecret() {
		return nil, cookie.ErrNoSecret
	}
	return &cookieProvider{cfg: cfg, cookies: m, codec: mk(m)}, nil
}

func (p *cookieProvider) New(context.Context) (*Session, error) {
	return New(p.cfg.newID()), nil
}

// Open decodes the session cookie. An absent or empty cookie yields a
// new session; a cookie that fails verification yields ErrTampered.
func (p *cookieProvider) Open(ctx context.Context, h http.Header) (*Session, error) {
	raw, err := cookie.Get(h, p.cfg.cookieName)
	if err != nil || raw == "" {
		return p.New(ctx)
	}

	data, err := p.codec.decode(raw)
	if err != nil {
		return nil, errors.Join(ErrTampered, err)
	}

	var pl payload
	if err := json.Unmarshal(data, &pl); err != nil {
		return nil, errors.Join(ErrMalformed, err)
	}
	if pl.ID == "" {
		return nil, ErrMalformed
	}
	if pl.Values == nil {
		pl.Values = make(map[string]any)
	}

	return &Session{ID: pl.ID, Values: pl.Values}, nil
}

// Save encodes the session into a cookie.
// Returns ErrTooLarge if the encoded value exceeds cookie.MaxSize.
func (p *cookieProvider) Save(_ context.Context, s *Session) (*http.Cookie, error) {
	values := s.Values
	if values == nil {
		values = map[string]any{}
	}

	data, err := json.Marshal(payload{ID: s.ID, Values: values})
	if err != nil {
		return nil, errors.Join(ErrMalformed, err)
	}

	raw, err := p.codec.encode(data)
	if err != nil {
		return nil, err
	}
	if len(raw) > cookie.MaxSize {
		return nil, ErrTooLarge
	}

	s.ClearDirty()
	return p.cookies.Cookie(p.cfg.cookieName, raw, p.cfg.maxAge), nil
}

// Delete returns a cookie that removes the session from the client.
func (p *cookieProvider) Delete(_ context.Context, _ *Session) (*http.Cookie, error) {
	return p.cookies.Expire(p.cfg.cookieName), nil
}

type signer struct{ m *cookie.Manager }

func (c signer) encode(data []byte) (string, error) { return c.m.Sign(data) }
func (c signer) decode(raw string) ([]byte, error)  { return c.m.Verify(raw) }

type sealer struct{ m *cookie.Manager }

func (c sealer) encode(data []byte) (string, error) { return c.m.Encrypt(data) }
func (c sealer) decode(raw string) ([]byte, error)  { return c.m.Decrypt(raw) }

// SignedCookieProvider keeps the session in a cookie signed with
// HMAC-SHA256. Values are readable by the client but cannot be altered.
type SignedCookieProvider struct {
	*cookieProvider
}

// NewSignedCookieProvider creates a signed-cookie provider.
// The secret must be at least 32 bytes.
func NewSignedCookieProvider(secret string, opts ...Option) (*SignedCookieProvider, error) {
	p, err := newCookieProvider(secret, DefaultSignedCookieName,
		func(m *cookie.Manager) codec { return signer{m} }, opts...)
	if err != nil {
		return nil, err
	}
	return &SignedCookieProvider{p}, nil
}

// EncryptedCookieProvider keeps the session in a cookie sealed with
// AES-256-GCM. Values are neither readable nor alterable by the client.
type EncryptedCookieProvider struct {
	*cookieProvider
}

// NewEncryptedCookieProvider creates an encrypted-cookie provider.
// The secret must be at least 32 bytes.
func NewEncryptedCookieProvider(secret string, opts ...Option) (*EncryptedCookieProvider, error) {
	p, err := newCookieProvider(secret, DefaultEncryptedCookieName,
		func(m *cookie.Manager) codec { return sealer{m} }, opts...)
	if err != nil {
		return nil, err
	}
	return &EncryptedCookieProvider{p}, nil
}

var (
	_ Provider = (*RemoteProvider)(nil)
	_ Provider = (*SignedCookieProvider)(nil)
	_ Provider = (*EncryptedCookieProvider)(nil)

	_ Deleter = (*RemoteProvider)(nil)
	_ Deleter = (*SignedCookieProvider)(nil)
	_ Deleter = (*EncryptedCookieProvider)(nil)

	_ Store = (*MemoryStore)(nil)
	_ Store = (*RedisStore)(nil)
	_ Store = (*PostgresStore)(nil)
)
