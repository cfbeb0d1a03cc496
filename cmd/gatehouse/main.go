package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/benwis/gatehouse/internal/auth"
	"github.com/benwis/gatehouse/internal/config"
	"github.com/benwis/gatehouse/internal/cookie"
	"github.com/benwis/gatehouse/internal/database/pg"
	"github.com/benwis/gatehouse/internal/logger"
	"github.com/benwis/gatehouse/internal/password"
	"github.com/benwis/gatehouse/internal/permission"
	"github.com/benwis/gatehouse/internal/server"
	"github.com/benwis/gatehouse/internal/session"
	"github.com/benwis/gatehouse/internal/sessionstore"
	"github.com/benwis/gatehouse/internal/sessiontransport"
	"github.com/benwis/gatehouse/internal/user"
	"github.com/benwis/gatehouse/internal/web"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var cfg Config
	config.MustLoad(&cfg)

	log := logger.New(logger.WithProduction(cfg.AppName))
	if cfg.AppEnv == "development" {
		log = logger.New(logger.WithDevelopment(cfg.AppName))
	}

	if err := run(ctx, cfg, log); err != nil {
		log.Error("application failed", logger.Error(err))
		os.Exit(1)
	}
	log.Info("application stopped")
}

func run(ctx context.Context, cfg Config, log *slog.Logger) error {
	db, err := pg.Connect(ctx, cfg.DB)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	if err := pg.Migrate(ctx, cfg.DB, log.With(logger.Component("migration"))); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}

	users := user.NewPostgresStore(db)

	store, err := buildSessionStore(cfg, db)
	if err != nil {
		return fmt.Errorf("session store: %w", err)
	}
	sessions := session.NewFromConfig(cfg.Session, store)

	cookies, err := cookie.NewFromConfig(cfg.Cookie)
	if err != nil {
		return fmt.Errorf("cookie manager: %w", err)
	}
	transport := sessiontransport.NewCookie(sessions, cookies, cfg.SessionCookieName)

	svc := auth.NewService(cfg.Auth, users, password.New(),
		auth.WithLogger(log.With(logger.Component("auth"))))

	handler := web.NewHandler(svc, cookies,
		web.WithReadycheck(pg.Healthcheck(db)),
		web.WithHandlerLogger(log.With(logger.Component("web"))))

	router := web.NewRouter(web.RouterDeps{
		Handler:         handler,
		Transport:       transport,
		Manager:         sessions,
		Users:           users,
		Evaluator:       permission.SetEvaluator{},
		Logger:          log.With(logger.Component("http")),
		AdminPermission: cfg.AdminPermission,
	})

	srv, err := server.NewFromConfig(cfg.Server,
		server.WithLogger(log.With(logger.Component("server"))))
	if err != nil {
		return fmt.Errorf("server: %w", err)
	}

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(srv.Run(ctx, router))
	eg.Go(sessionGC(ctx, sessions, cfg.Session.CleanupInterval, log.With(logger.Component("session.gc"))))

	return eg.Wait()
}

// buildSessionStore selects the session backend. Users always live in
// Postgres; sessions may live elsewhere.
func buildSessionStore(cfg Config, db *pgxpool.Pool) (session.Store, error) {
	switch cfg.SessionBackend {
	case "postgres":
		return sessionstore.NewPostgres(db), nil
	case "redis":
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		return sessionstore.NewRedis(redis.NewClient(opts)), nil
	case "memory":
		return sessionstore.NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown session backend %q", cfg.SessionBackend)
	}
}

// sessionGC sweeps expired sessions on the configured interval.
func sessionGC(ctx context.Context, sessions *session.Manager, interval time.Duration, log *slog.Logger) func() error {
	return func() error {
		if interval <= 0 {
			return nil
		}

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				n, err := sessions.CleanupExpired(ctx)
				if err != nil {
					log.ErrorContext(ctx, "expired session sweep failed", logger.Error(err))
					continue
				}
				if n > 0 {
					log.InfoContext(ctx, "expired sessions removed", logger.Count("sessions", n))
				}
			}
		}
	}
}
