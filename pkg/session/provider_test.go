package session_test

import (
	"context"
	"encoding/base64"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/dispatch/pkg/session"
)

const testSecret = "0123456789abcdef0123456789abcdef"

// header builds request headers carrying c the way a browser would send it back.
func header(c *http.Cookie) http.Header {
	h := http.Header{}
	if c != nil {
		h.Set("Cookie", c.Name+"="+c.Value)
	}
	return h
}

func TestRemoteProvider(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("no cookie creates and stores an empty session", func(t *testing.T) {
		t.Parallel()

		store := session.NewMemoryStore()
		p := session.NewRemoteProvider(store)

		s, err := p.Open(ctx, http.Header{})
		require.NoError(t, err)
		require.NotEmpty(t, s.ID)
		require.Empty(t, s.Values)

		data, err := store.Get(ctx, session.Key(s.ID))
		require.NoError(t, err)
		require.JSONEq(t, `{}`, string(data))
	})

	t.Run("round trip", func(t *testing.T) {
		t.Parallel()

		p := session.NewRemoteProvider(session.NewMemoryStore())

		s, err := p.New(ctx)
		require.NoError(t, err)
		s.Set("visits", 3)
		s.Set("name", "alice")

		c, err := p.Save(ctx, s)
		require.NoError(t, err)
		require.Equal(t, session.DefaultRemoteCookieName, c.Name)
		require.Equal(t, s.ID, c.Value)
		require.Equal(t, session.DefaultMaxAge, c.MaxAge)

		got, err := p.Open(ctx, header(c))
		require.NoError(t, err)
		require.Equal(t, s.ID, got.ID)
		require.Equal(t, "alice", got.Values["name"])

		visits, ok := session.Int(got, "visits")
		require.True(t, ok)
		require.Equal(t, int64(3), visits)
	})

	t.Run("unknown id is not found", func(t *testing.T) {
		t.Parallel()

		p := session.NewRemoteProvider(session.NewMemoryStore())
		_, err := p.Open(ctx, header(&http.Cookie{Name: "session_id", Value: "does-not-exist"}))
		require.ErrorIs(t, err, session.ErrNotFound)
	})

	t.Run("corrupt document is malformed", func(t *testing.T) {
		t.Parallel()

		store := session.NewMemoryStore()
		require.NoError(t, store.Set(ctx, session.Key("bad"), []byte("not json"), 0))

		p := session.NewRemoteProvider(store)
		_, err := p.Open(ctx, header(&http.Cookie{Name: "session_id", Value: "bad"}))
		require.ErrorIs(t, err, session.ErrMalformed)
	})

	t.Run("custom cookie name and id generator", func(t *testing.T) {
		t.Parallel()

		p := session.NewRemoteProvider(session.NewMemoryStore(),
			session.WithCookieName("sid"),
			session.WithIDGenerator(func() string { return "fixed" }),
		)

		s, err := p.New(ctx)
		require.NoError(t, err)
		require.Equal(t, "fixed", s.ID)

		c, err := p.Save(ctx, s)
		require.NoError(t, err)
		require.Equal(t, "sid", c.Name)
	})

	t.Run("delete removes the document", func(t *testing.T) {
		t.Parallel()

		store := session.NewMemoryStore()
		p := session.NewRemoteProvider(store)

		s, err := p.New(ctx)
		require.NoError(t, err)

		c, err := p.Delete(ctx, s)
		require.NoError(t, err)
		require.Equal(t, -1, c.MaxAge)

		_, err = store.Get(ctx, session.Key(s.ID))
		require.ErrorIs(t, err, session.ErrNotFound)
	})
}

func TestKey(t *testing.T) {
	t.Parallel()
	require.Equal(t, "session:abc", session.Key("abc"))
}

func TestSignedCookieProvider(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("short secret is rejected", func(t *testing.T) {
		t.Parallel()

		_, err := session.NewSignedCookieProvider("short")
		require.Error(t, err)
	})

	t.Run("no cookie yields a fresh empty session", func(t *testing.T) {
		t.Parallel()

		p, err := session.NewSignedCookieProvider(testSecret)
		require.NoError(t, err)

		s, err := p.Open(ctx, http.Header{})
		require.NoError(t, err)
		require.NotEmpty(t, s.ID)
		require.Empty(t, s.Values)
		require.True(t, s.IsNew())
	})

	t.Run("round trip", func(t *testing.T) {
		t.Parallel()

		p, err := session.NewSignedCookieProvider(testSecret)
		require.NoError(t, err)

		s, err := p.New(ctx)
		require.NoError(t, err)
		s.Set("counter", 7)

		c, err := p.Save(ctx, s)
		require.NoError(t, err)
		require.Equal(t, session.DefaultSignedCookieName, c.Name)

		payload, _, ok := strings.Cut(c.Value, ".")
		require.True(t, ok)
		decoded, err := base64.RawURLEncoding.DecodeString(payload)
		require.NoError(t, err)
		require.JSONEq(t, `{"id":"`+s.ID+`","values":{"counter":7}}`, string(decoded))

		got, err := p.Open(ctx, header(c))
		require.NoError(t, err)
		require.Equal(t, s.ID, got.ID)
		n, ok := session.Int(got, "counter")
		require.True(t, ok)
		require.Equal(t, int64(7), n)
	})

	t.Run("tampered signature", func(t *testing.T) {
		t.Parallel()

		p, err := session.NewSignedCookieProvider(testSecret)
		require.NoError(t, err)

		s, err := p.New(ctx)
		require.NoError(t, err)
		c, err := p.Save(ctx, s)
		require.NoError(t, err)

		forged := base64.RawURLEncoding.EncodeToString([]byte(`{"id":"x","values":{"admin":true}}`))
		_, sig, _ := strings.Cut(c.Value, ".")
		c.Value = forged + "." + sig

		_, err = p.Open(ctx, header(c))
		require.ErrorIs(t, err, session.ErrTampered)
	})

	t.Run("cookie from another secret", func(t *testing.T) {
		t.Parallel()

		p1, err := session.NewSignedCookieProvider(testSecret)
		require.NoError(t, err)
		p2, err := session.NewSignedCookieProvider(strings.Repeat("z", 32))
		require.NoError(t, err)

		s, err := p1.New(ctx)
		require.NoError(t, err)
		c, err := p1.Save(ctx, s)
		require.NoError(t, err)

		_, err = p2.Open(ctx, header(c))
		require.ErrorIs(t, err, session.ErrTampered)
	})

	t.Run("too large", func(t *testing.T) {
		t.Parallel()

		p, err := session.NewSignedCookieProvider(testSecret)
		require.NoError(t, err)

		s, err := p.New(ctx)
		require.NoError(t, err)
		s.Set("blob", strings.Repeat("a", 5000))

		_, err = p.Save(ctx, s)
		require.ErrorIs(t, err, session.ErrTooLarge)
	})
}

func TestEncryptedCookieProvider(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("round trip", func(t *testing.T) {
		t.Parallel()

		p, err := session.NewEncryptedCookieProvider(testSecret)
		require.NoError(t, err)

		s, err := p.New(ctx)
		require.NoError(t, err)
		s.Set("secret", "value")

		c, err := p.Save(ctx, s)
		require.NoError(t, err)
		require.Equal(t, session.DefaultEncryptedCookieName, c.Name)
		require.NotContains(t, c.Value, "value")

		got, err := p.Open(ctx, header(c))
		require.NoError(t, err)
		require.Equal(t, s.ID, got.ID)
		require.Equal(t, "value", got.Values["secret"])
	})

	t.Run("tampered ciphertext", func(t *testing.T) {
		t.Parallel()

		p, err := session.NewEncryptedCookieProvider(testSecret)
		require.NoError(t, err)

		s, err := p.New(ctx)
		require.NoError(t, err)
		c, err := p.Save(ctx, s)
		require.NoError(t, err)

		b := []byte(c.Value)
		mid := len(b) / 2
		if b[mid] == 'A' {
			b[mid] = 'B'
		} else {
			b[mid] = 'A'
		}
		c.Value = string(b)

		_, err = p.Open(ctx, header(c))
		require.ErrorIs(t, err, session.ErrTampered)
	})

	t.Run("empty cookie is treated as absent", func(t *testing.T) {
		t.Parallel()

		p, err := session.NewEncryptedCookieProvider(testSecret)
		require.NoError(t, err)

		h := http.Header{}
		h.Set("Cookie", "encrypted_session=")
		s, err := p.Open(ctx, h)
		require.NoError(t, err)
		require.True(t, s.IsNew())
	})
}
