package main

import (
	"github.com/benwis/gatehouse/internal/auth"
	"github.com/benwis/gatehouse/internal/cookie"
	"github.com/benwis/gatehouse/internal/database/pg"
	"github.com/benwis/gatehouse/internal/server"
	"github.com/benwis/gatehouse/internal/session"
)

// Config is the application configuration, loaded once from the
// environment (and .env in development).
type Config struct {
	AppName string `env:"APP_NAME" envDefault:"gatehouse"`
	AppEnv  string `env:"APP_ENV" envDefault:"development"`

	// SessionBackend selects where sessions live: postgres, redis or
	// memory. Users always live in Postgres.
	SessionBackend string `env:"SESSION_BACKEND" envDefault:"postgres"`
	RedisURL       string `env:"REDIS_URL" envDefault:"redis://localhost:6379/0"`

	SessionCookieName string `env:"SESSION_COOKIE_NAME" envDefault:"gatehouse_session"`

	// AdminPermission gates the /admin endpoint. Empty disables it.
	AdminPermission string `env:"ADMIN_PERMISSION" envDefault:"admin.access"`

	DB      pg.Config
	Session session.Config
	Cookie  cookie.Config
	Auth    auth.Config
	Server  server.Config
}
