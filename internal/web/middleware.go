package web

import (
	"log/slog"
	"net/http"

	"github.com/benwis/gatehouse/internal/auth"
	"github.com/benwis/gatehouse/internal/logger"
	"github.com/benwis/gatehouse/internal/permission"
	"github.com/benwis/gatehouse/internal/session"
	"github.com/benwis/gatehouse/internal/sessiontransport"
	"github.com/benwis/gatehouse/internal/user"
)

// SessionMiddleware loads the request's session from its cookie, exposes an
// auth.Session through the request context and commits session state back
// to the store and the cookie when the response starts.
//
// Cookies must be written before the response body, so the commit rides on
// a wrapped ResponseWriter that fires on the first write. Handlers mutate
// the session freely until then.
func SessionMiddleware(
	transport *sessiontransport.Cookie,
	manager *session.Manager,
	users user.Store,
	perms permission.Evaluator,
	log *slog.Logger,
) func(http.Handler) http.Handler {
	if log == nil {
		log = logger.Discard()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, err := transport.Load(r)
			if err != nil {
				log.ErrorContext(r.Context(), "session load failed",
					logger.Component("web"), logger.Error(err))
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				return
			}

			as := auth.NewSession(&sess, users, perms)
			ctx := withAuthSession(r.Context(), as)

			cw := &commitWriter{
				ResponseWriter: w,
				commit: func() {
					if err := manager.Commit(r.Context(), sess); err != nil {
						log.ErrorContext(r.Context(), "session commit failed",
							logger.Component("web"), logger.SessionID(sess.ID.String()), logger.Error(err))
						return
					}
					if err := transport.Save(w, sess); err != nil {
						log.ErrorContext(r.Context(), "session cookie write failed",
							logger.Component("web"), logger.SessionID(sess.ID.String()), logger.Error(err))
					}
				},
			}

			next.ServeHTTP(cw, r.WithContext(ctx))
			cw.finish()
		})
	}
}

// commitWriter defers the session commit until the response headers are
// about to leave. finish covers handlers that never write.
type commitWriter struct {
	http.ResponseWriter
	commit    func()
	committed bool
}

func (w *commitWriter) WriteHeader(status int) {
	w.finish()
	w.ResponseWriter.WriteHeader(status)
}

func (w *commitWriter) Write(b []byte) (int, error) {
	w.finish()
	return w.ResponseWriter.Write(b)
}

func (w *commitWriter) finish() {
	if w.committed {
		return
	}
	w.committed = true
	w.commit()
}

// RequirePermission guards a route behind a permission token. Anonymous
// requests get 401, authenticated ones without the capability get 403.
func RequirePermission(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			as := AuthSession(r.Context())
			if as == nil || !as.IsAuthenticated() {
				writeError(w, http.StatusUnauthorized, "authentication required")
				return
			}
			if !as.HasPermission(r.Context(), token) {
				writeError(w, http.StatusForbidden, "permission denied")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
