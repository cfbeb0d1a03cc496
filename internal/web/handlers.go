package web

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/benwis/gatehouse/internal/auth"
	"github.com/benwis/gatehouse/internal/cookie"
	"github.com/benwis/gatehouse/internal/logger"
	"github.com/benwis/gatehouse/internal/user"
)

const darkModeCookie = "darkmode"

// Handler holds the HTTP surface. All domain decisions live in the auth
// service; handlers translate between HTTP and the core types.
type Handler struct {
	svc     *auth.Service
	cookies *cookie.Manager
	ready   func(ctx context.Context) error
	log     *slog.Logger
}

// HandlerOption configures optional Handler collaborators.
type HandlerOption func(*Handler)

// WithReadycheck sets the dependency probe behind GET /readyz.
func WithReadycheck(probe func(ctx context.Context) error) HandlerOption {
	return func(h *Handler) {
		h.ready = probe
	}
}

// WithHandlerLogger sets the structured logger. Default discards.
func WithHandlerLogger(log *slog.Logger) HandlerOption {
	return func(h *Handler) {
		if log != nil {
			h.log = log
		}
	}
}

// NewHandler wires the HTTP handler set.
func NewHandler(svc *auth.Service, cookies *cookie.Manager, opts ...HandlerOption) *Handler {
	switch {
	case svc == nil:
		panic("web: auth service is required")
	case cookies == nil:
		panic("web: cookie manager is required")
	}

	h := &Handler{
		svc:     svc,
		cookies: cookies,
		log:     logger.Discard(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Login handles POST /auth/login with form fields username, password and
// remember. Success redirects home; bad credentials return 401 without
// revealing which check failed.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	as := AuthSession(r.Context())
	if as == nil {
		writeError(w, http.StatusInternalServerError, "session unavailable")
		return
	}

	redirect, err := h.svc.Login(r.Context(), as, auth.LoginParams{
		Username: r.PostFormValue("username"),
		Password: r.PostFormValue("password"),
		Remember: formBool(r, "remember"),
	})
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	case err != nil:
		h.serverError(w, r, "login failed", err)
		return
	}

	http.Redirect(w, r, redirect, http.StatusSeeOther)
}

// Signup handles POST /auth/signup with form fields username, display_name,
// password, password_confirmation and remember. A policy rejection issues a
// redirect rather than an error page, matching the login-flow UX.
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	as := AuthSession(r.Context())
	if as == nil {
		writeError(w, http.StatusInternalServerError, "session unavailable")
		return
	}

	redirect, err := h.svc.Signup(r.Context(), as, auth.SignupParams{
		Username:             r.PostFormValue("username"),
		DisplayName:          r.PostFormValue("display_name"),
		Password:             r.PostFormValue("password"),
		PasswordConfirmation: r.PostFormValue("password_confirmation"),
		Remember:             formBool(r, "remember"),
	})
	switch {
	case errors.Is(err, auth.ErrPasswordMismatch):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, auth.ErrSignupNotAllowed):
		http.Redirect(w, r, redirect, http.StatusSeeOther)
		return
	case errors.Is(err, user.ErrDuplicateUsername):
		writeError(w, http.StatusConflict, err.Error())
		return
	case err != nil:
		h.serverError(w, r, "signup failed", err)
		return
	}

	http.Redirect(w, r, redirect, http.StatusSeeOther)
}

// Logout handles POST /auth/logout. Always redirects home.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	as := AuthSession(r.Context())
	if as == nil {
		writeError(w, http.StatusInternalServerError, "session unavailable")
		return
	}

	redirect, err := h.svc.Logout(r.Context(), as)
	if err != nil {
		h.serverError(w, r, "logout failed", err)
		return
	}
	http.Redirect(w, r, redirect, http.StatusSeeOther)
}

type currentUserResponse struct {
	ID          int64    `json:"id"`
	Username    string   `json:"username"`
	DisplayName string   `json:"display_name"`
	Permissions []string `json:"permissions"`
}

// Me handles GET /auth/me, returning the authenticated user or 401.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	as := AuthSession(r.Context())
	if as == nil {
		writeError(w, http.StatusInternalServerError, "session unavailable")
		return
	}

	u, err := as.CurrentUser(r.Context())
	if err != nil {
		h.serverError(w, r, "current user lookup failed", err)
		return
	}
	if u == nil {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	writeJSON(w, http.StatusOK, currentUserResponse{
		ID:          u.ID,
		Username:    u.Username,
		DisplayName: u.DisplayName,
		Permissions: u.Permissions.Tokens(),
	})
}

// ToggleDarkMode handles POST /prefs/darkmode with form field enabled.
// The preference is a plain long-lived cookie the client reads directly.
func (h *Handler) ToggleDarkMode(w http.ResponseWriter, r *http.Request) {
	value := "false"
	if formBool(r, "enabled") {
		value = "true"
	}

	const yearSeconds = 365 * 24 * 60 * 60
	if err := h.cookies.Set(w, darkModeCookie, value,
		cookie.WithMaxAge(yearSeconds), cookie.WithHTTPOnly(false)); err != nil {
		h.serverError(w, r, "preference cookie write failed", err)
		return
	}

	redirect := r.Referer()
	if redirect == "" {
		redirect = "/"
	}
	http.Redirect(w, r, redirect, http.StatusSeeOther)
}

// Healthz reports process liveness.
func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Readyz reports dependency readiness via the configured probe.
func (h *Handler) Readyz(w http.ResponseWriter, r *http.Request) {
	if h.ready != nil {
		if err := h.ready(r.Context()); err != nil {
			h.log.ErrorContext(r.Context(), "readiness probe failed",
				logger.Component("web"), logger.Error(err))
			writeError(w, http.StatusServiceUnavailable, "not ready")
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// Admin is the permission-gated example endpoint.
func (h *Handler) Admin(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) serverError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	h.log.ErrorContext(r.Context(), msg,
		logger.Component("web"), logger.Method(r.Method), logger.Path(r.URL.Path), logger.Error(err))
	writeError(w, http.StatusInternalServerError, "internal error")
}

func formBool(r *http.Request, field string) bool {
	switch r.PostFormValue(field) {
	case "true", "on", "1":
		return true
	}
	return false
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
