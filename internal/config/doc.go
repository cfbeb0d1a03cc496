// Package config provides type-safe environment variable loading with
// per-type caching. Configuration structs declare their variables with
// env/envDefault tags and are parsed once per application lifetime:
//
//	type SessionConfig struct {
//		TTL time.Duration `env:"SESSION_TTL" envDefault:"168h"`
//	}
//
//	var cfg SessionConfig
//	config.MustLoad(&cfg)
//
// A .env file in the working directory is loaded automatically on first use,
// which should only occur in local development.
package config
