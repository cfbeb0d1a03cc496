package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/benwis/gatehouse/internal/permission"
	"github.com/benwis/gatehouse/internal/session"
	"github.com/benwis/gatehouse/internal/user"
)

// Session is the request-scoped view of an authenticated (or anonymous)
// client: it binds the server-side session to the user store and permission
// evaluator, and caches the loaded user for the duration of the request.
// One instance per in-flight request; not safe for concurrent use.
type Session struct {
	sess  *session.Session
	users user.Store
	perms permission.Evaluator

	// current caches the resolved user; resolved distinguishes "not yet
	// looked up" from "looked up, anonymous".
	current  *user.User
	resolved bool
}

// NewSession wires a Session. Missing collaborators are a wiring error, not
// a runtime condition, so they fail fast.
func NewSession(sess *session.Session, users user.Store, perms permission.Evaluator) *Session {
	switch {
	case sess == nil:
		panic("auth: session is required")
	case users == nil:
		panic("auth: user store is required")
	case perms == nil:
		panic("auth: permission evaluator is required")
	}
	return &Session{sess: sess, users: users, perms: perms}
}

// LoginUser transitions the session to authenticated for userID. The caller
// has already verified credentials; logging in over a different user simply
// replaces it. The user cache is reset so the next CurrentUser reloads.
func (a *Session) LoginUser(userID int64) error {
	if err := a.sess.Authenticate(userID); err != nil {
		return err
	}
	a.current = nil
	a.resolved = false
	return nil
}

// LogoutUser transitions the session back to anonymous and drops the
// persist flag unless remember-me keeps the session durable. Idempotent.
func (a *Session) LogoutUser() error {
	if err := a.sess.ClearUser(); err != nil {
		return err
	}
	if !a.sess.Remembered {
		a.sess.SetPersist(false)
	}
	a.current = nil
	a.resolved = true // anonymous resolves to no user without a lookup
	return nil
}

// RememberUser sets the long-lived-session flag. Does not authenticate.
func (a *Session) RememberUser(flag bool) {
	a.sess.Remember(flag)
}

// SetPersist controls whether the session is written to durable storage.
func (a *Session) SetPersist(flag bool) {
	a.sess.SetPersist(flag)
}

// IsAuthenticated reports whether a user id is attached to the session.
func (a *Session) IsAuthenticated() bool {
	return a.sess.IsAuthenticated()
}

// CurrentUser lazily resolves the authenticated user, caching the result
// for the rest of the request. Anonymous sessions resolve to nil without
// repeated lookups. A session whose user no longer exists also resolves to
// nil: authentication fails closed instead of failing the request. Only
// infrastructure failures return an error, and those leave the cache unset
// so a retry can succeed.
func (a *Session) CurrentUser(ctx context.Context) (*user.User, error) {
	if a.resolved {
		return a.current, nil
	}

	if !a.sess.IsAuthenticated() {
		a.resolved = true
		return nil, nil
	}

	u, err := a.users.ByID(ctx, a.sess.UserID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			a.resolved = true
			return nil, nil
		}
		return nil, fmt.Errorf("auth: load current user: %w", err)
	}

	a.current = u
	a.resolved = true
	return u, nil
}

// HasPermission reports whether the session's user holds the capability
// named by token. Anonymous sessions never hold permissions, and lookup
// failures deny rather than error: absence of identity is absence of
// permission, not a fault.
func (a *Session) HasPermission(ctx context.Context, token string) bool {
	u, err := a.CurrentUser(ctx)
	if err != nil || u == nil {
		return false
	}
	return a.perms.Has(u, token)
}
