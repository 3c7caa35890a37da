package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type testConfig struct {
	Name    string        `env:"DISPATCH_TEST_NAME" envDefault:"default"`
	Timeout time.Duration `env:"DISPATCH_TEST_TIMEOUT" envDefault:"3s"`
	Port    int           `env:"DISPATCH_TEST_PORT"`
}

type requiredConfig struct {
	Secret string `env:"DISPATCH_TEST_REQUIRED_SECRET,required"`
}

// Tests share the process environment and the cache, so they run serially.

func TestLoad(t *testing.T) {
	t.Run("defaults and overrides", func(t *testing.T) {
		reset()
		t.Setenv("DISPATCH_TEST_PORT", "9090")

		var cfg testConfig
		require.NoError(t, Load(&cfg))
		require.Equal(t, "default", cfg.Name)
		require.Equal(t, 3*time.Second, cfg.Timeout)
		require.Equal(t, 9090, cfg.Port)
	})

	t.Run("cached per type", func(t *testing.T) {
		reset()
		t.Setenv("DISPATCH_TEST_NAME", "first")

		var first testConfig
		require.NoError(t, Load(&first))

		t.Setenv("DISPATCH_TEST_NAME", "second")
		var second testConfig
		require.NoError(t, Load(&second))

		require.Equal(t, "first", second.Name)
	})

	t.Run("missing required", func(t *testing.T) {
		reset()

		var cfg requiredConfig
		require.ErrorIs(t, Load(&cfg), ErrParse)
		require.Panics(t, func() { MustLoad(&cfg) })
	})

	t.Run("invalid value", func(t *testing.T) {
		reset()
		t.Setenv("DISPATCH_TEST_PORT", "not-a-number")

		var cfg testConfig
		require.ErrorIs(t, Load(&cfg), ErrParse)
	})
}
