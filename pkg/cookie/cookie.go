package cookie

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"io"
	"net/http"
	"strings"
)

// MaxSize is the largest encoded cookie value browsers are guaranteed to keep.
const MaxSize = 4096

// Errors.
var (
	ErrNotFound = errors.New("cookie: not found")
	ErrNoSecret = errors.New("cookie: secret required")
	ErrBadSig   = errors.New("cookie: invalid signature")
	ErrDecrypt  = errors.New("cookie: decryption failed")
)

// Manager signs, encrypts and builds cookies with shared attributes.
// It never touches a request or response directly, so it can be used
// from any transport.
type Manager struct {
	secret   []byte // nil = no encryption/signing
	domain   string
	path     string
	sameSite http.SameSite
	secure   bool
	httpOnly bool
}

// Option configures the Manager.
type Option func(*Manager)

// New creates a cookie Manager with the given options.
func New(opts ...Option) *Manager {
	m := &Manager{
		path:     "/",
		httpOnly: true,
		sameSite: http.SameSiteLaxMode,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// WithSecret sets the secret for signing and encryption.
// Secrets shorter than 32 bytes are ignored.
func WithSecret(secret string) Option {
	return func(m *Manager) {
		if len(secret) >= 32 {
			m.secret = []byte(secret)
		}
	}
}

// WithDomain sets the cookie domain.
func WithDomain(domain string) Option {
	return func(m *Manager) {
		m.domain = domain
	}
}

// WithPath sets the cookie path.
func WithPath(path string) Option {
	return func(m *Manager) {
		if path != "" {
			m.path = path
		}
	}
}

// WithSecure sets the Secure flag.
func WithSecure(secure bool) Option {
	return func(m *Manager) {
		m.secure = secure
	}
}

// WithHTTPOnly sets the HttpOnly flag.
func WithHTTPOnly(httpOnly bool) Option {
	return func(m *Manager) {
		m.httpOnly = httpOnly
	}
}

// WithSameSite sets the SameSite attribute.
func WithSameSite(ss http.SameSite) Option {
	return func(m *Manager) {
		m.sameSite = ss
	}
}

// HasSecret reports whether signing and encryption are available.
func (m *Manager) HasSecret() bool {
	return m.secret != nil
}

// Cookie builds a cookie with the manager's attributes.
// A negative maxAge expires the cookie, zero makes it a session cookie.
func (m *Manager) Cookie(name, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     m.path,
		Domain:   m.domain,
		MaxAge:   maxAge,
		Secure:   m.secure,
		HttpOnly: m.httpOnly,
		SameSite: m.sameSite,
	}
}

// Expire builds a cookie that removes name from the client.
func (m *Manager) Expire(name string) *http.Cookie {
	return m.Cookie(name, "", -1)
}

// Sign returns value in the form base64url(value).base64url(HMAC-SHA256(value)),
// without padding.
func (m *Manager) Sign(value []byte) (string, error) {
	if m.secret == nil {
		return "", ErrNoSecret
	}

	return base64.RawURLEncoding.EncodeToString(value) +
		"." + base64.RawURLEncoding.EncodeToString(m.mac(value)), nil
}

// Verify checks a value produced by Sign and returns the original payload.
// Returns ErrBadSig if the format is wrong or the signature does not match.
func (m *Manager) Verify(raw string) ([]byte, error) {
	if m.secret == nil {
		return nil, ErrNoSecret
	}

	payload, signature, ok := strings.Cut(raw, ".")
	if !ok {
		return nil, ErrBadSig
	}

	value, err := base64.RawURLEncoding.DecodeString(payload)
	if err != nil {
		return nil, ErrBadSig
	}

	sig, err := base64.RawURLEncoding.DecodeString(signature)
	if err != nil {
		return nil, ErrBadSig
	}

	if !hmac.Equal(sig, m.mac(value)) {
		return nil, ErrBadSig
	}

	return value, nil
}

// Encrypt seals value with AES-256-GCM and returns base64url(nonce||ciphertext).
func (m *Manager) Encrypt(value []byte) (string, error) {
	if m.secret == nil {
		return "", ErrNoSecret
	}

	aead, err := m.aead()
	if err != nil {
		return "", err
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}

	return base64.RawURLEncoding.EncodeToString(aead.Seal(nonce, nonce, value, nil)), nil
}

// Decrypt opens a value produced by Encrypt.
// Returns ErrDecrypt if the value was altered or sealed with another secret.
func (m *Manager) Decrypt(raw string) ([]byte, error) {
	if m.secret == nil {
		return nil, ErrNoSecret
	}

	data, err := base64.RawURLEncoding.DecodeString(raw)
	if err != nil {
		return nil, ErrDecrypt
	}

	aead, err := m.aead()
	if err != nil {
		return nil, err
	}

	if len(data) < aead.NonceSize() {
		return nil, ErrDecrypt
	}

	nonce, ciphertext := data[:aead.NonceSize()], data[aead.NonceSize():]
	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, ErrDecrypt
	}

	return plaintext, nil
}

func (m *Manager) mac(value []byte) []byte {
	h := hmac.New(sha256.New, m.secret)
	h.Write(value)
	return h.Sum(nil)
}

// aead derives a 32-byte key from the secret.
func (m *Manager) aead() (cipher.AEAD, error) {
	key := sha256.Sum256(m.secret)

	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, err
	}

	return cipher.NewGCM(block)
}
