// Package config loads typed configuration from environment variables.
//
// Fields are described with caarlos0/env tags. A .env file, if present, is
// read once before the first load:
//
//	type Config struct {
//		Addr            string `env:"ADDR" envDefault:":8080"`
//		SessionProvider string `env:"SESSION_PROVIDER" envDefault:"signed"`
//	}
//
//	var cfg Config
//	config.MustLoad(&cfg)
//
// Each config type is parsed once per process and cached.
package config
