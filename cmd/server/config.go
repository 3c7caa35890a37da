package main

import (
	"fmt"
	"time"

	"github.com/dmitrymomot/dispatch/pkg/db"
	"github.com/dmitrymomot/dispatch/pkg/logger"
	"github.com/dmitrymomot/dispatch/pkg/redis"
)

// Session backends selectable with SESSION_PROVIDER.
const (
	providerRedis     = "redis"
	providerPostgres  = "postgres"
	providerMemory    = "memory"
	providerSigned    = "signed"
	providerEncrypted = "encrypted"
)

// Config is the demo server configuration, read from the environment.
type Config struct {
	Addr            string        `env:"ADDR" envDefault:":8080"`
	StaticDir       string        `env:"STATIC_DIR" envDefault:"static"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"15s"`

	SessionProvider     string        `env:"SESSION_PROVIDER" envDefault:"redis"`
	SessionSecret       string        `env:"SESSION_SECRET"`
	SessionMaxAge       time.Duration `env:"SESSION_MAX_AGE" envDefault:"720h"`
	SessionSecure       bool          `env:"SESSION_SECURE" envDefault:"false"`
	SessionCleanupEvery time.Duration `env:"SESSION_CLEANUP_INTERVAL" envDefault:"1h"`
	SessionMaxEntries   int           `env:"SESSION_MAX_ENTRIES" envDefault:"0"`

	Log   logger.Config
	Redis redis.Config
	DB    db.Config
}

func (c Config) validate() error {
	switch c.SessionProvider {
	case providerRedis:
		if c.Redis.URL == "" {
			return fmt.Errorf("SESSION_PROVIDER=%s requires REDIS_URL", c.SessionProvider)
		}
	case providerPostgres:
		if c.DB.URL == "" {
			return fmt.Errorf("SESSION_PROVIDER=%s requires DATABASE_URL", c.SessionProvider)
		}
	case providerSigned, providerEncrypted:
		if len(c.SessionSecret) < 32 {
			return fmt.Errorf("SESSION_PROVIDER=%s requires SESSION_SECRET of at least 32 bytes", c.SessionProvider)
		}
	case providerMemory:
	default:
		return fmt.Errorf("unknown SESSION_PROVIDER %q", c.SessionProvider)
	}
	return nil
}
