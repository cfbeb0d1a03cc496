package web

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/benwis/gatehouse/internal/permission"
	"github.com/benwis/gatehouse/internal/session"
	"github.com/benwis/gatehouse/internal/sessiontransport"
	"github.com/benwis/gatehouse/internal/user"
)

// RouterDeps carries everything the router needs wired in.
type RouterDeps struct {
	Handler   *Handler
	Transport *sessiontransport.Cookie
	Manager   *session.Manager
	Users     user.Store
	Evaluator permission.Evaluator
	Logger    *slog.Logger

	// AdminPermission gates the /admin endpoint. Empty disables the route.
	AdminPermission string
}

// NewRouter assembles the HTTP routing table. Health endpoints sit outside
// the session middleware so probes never touch the session store.
func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(Logging(deps.Logger))
	r.Use(chimw.Recoverer)

	r.Get("/healthz", deps.Handler.Healthz)
	r.Get("/readyz", deps.Handler.Readyz)

	r.Group(func(r chi.Router) {
		r.Use(SessionMiddleware(deps.Transport, deps.Manager, deps.Users, deps.Evaluator, deps.Logger))

		r.Post("/auth/login", deps.Handler.Login)
		r.Post("/auth/signup", deps.Handler.Signup)
		r.Post("/auth/logout", deps.Handler.Logout)
		r.Get("/auth/me", deps.Handler.Me)

		r.Post("/prefs/darkmode", deps.Handler.ToggleDarkMode)

		if deps.AdminPermission != "" {
			r.With(RequirePermission(deps.AdminPermission)).Get("/admin", deps.Handler.Admin)
		}
	})

	return r
}
