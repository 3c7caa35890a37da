package session_test

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/dispatch/pkg/session"
)

func TestMigrations(t *testing.T) {
	t.Parallel()

	names, err := fs.Glob(session.Migrations, "*.sql")
	require.NoError(t, err)
	require.NotEmpty(t, names)

	data, err := fs.ReadFile(session.Migrations, names[0])
	require.NoError(t, err)
	require.Contains(t, string(data), "-- +goose Up")
	require.Contains(t, string(data), "CREATE TABLE IF NOT EXISTS sessions")
}
