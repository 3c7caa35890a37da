//go:build integration

package session_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/dispatch/pkg/db"
	"github.com/dmitrymomot/dispatch/pkg/session"
)

func TestPostgresStore(t *testing.T) {
	url := os.Getenv("DATABASE_URL")
	if url == "" {
		t.Skip("DATABASE_URL not set")
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, db.Config{URL: url})
	require.NoError(t, err)
	defer pool.Close()

	require.NoError(t, db.Migrate(ctx, pool, session.Migrations, "", nil))

	store := session.NewPostgresStore(pool)
	p := session.NewRemoteProvider(store)

	s, err := p.New(ctx)
	require.NoError(t, err)
	defer store.Delete(ctx, session.Key(s.ID))

	s.Set("visits", 2)
	c, err := p.Save(ctx, s)
	require.NoError(t, err)

	got, err := p.Open(ctx, header(c))
	require.NoError(t, err)
	n, ok := session.Int(got, "visits")
	require.True(t, ok)
	require.Equal(t, int64(2), n)

	require.NoError(t, store.Set(ctx, "session:expired", []byte("{}"), time.Millisecond))
	time.Sleep(10 * time.Millisecond)
	_, err = store.Get(ctx, "session:expired")
	require.ErrorIs(t, err, session.ErrNotFound)

	deleted, err := store.DeleteExpired(ctx)
	require.NoError(t, err)
	require.GreaterOrEqual(t, deleted, int64(1))
}
