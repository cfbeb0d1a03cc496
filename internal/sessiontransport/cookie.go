package sessiontransport

import (
	"net/http"
	"time"

	"github.com/benwis/gatehouse/internal/cookie"
	"github.com/benwis/gatehouse/internal/session"
)

// DefaultCookieName is the session cookie name used when none is configured.
const DefaultCookieName = "gatehouse_session"

// Cookie carries the session token between client and server in a signed
// HTTP cookie. Only the token crosses the wire; all session state stays
// server-side.
type Cookie struct {
	manager *session.Manager
	cookies *cookie.Manager
	name    string
}

// NewCookie creates a cookie-based session transport. An empty name falls
// back to DefaultCookieName.
func NewCookie(manager *session.Manager, cookies *cookie.Manager, name string) *Cookie {
	switch {
	case manager == nil:
		panic("sessiontransport: session manager is required")
	case cookies == nil:
		panic("sessiontransport: cookie manager is required")
	}
	if name == "" {
		name = DefaultCookieName
	}
	return &Cookie{manager: manager, cookies: cookies, name: name}
}

// Load resolves the request's session from its cookie. A missing cookie, a
// bad signature or an unknown token all degrade to a fresh anonymous
// session rather than an error: every request gets a usable session.
func (c *Cookie) Load(r *http.Request) (session.Session, error) {
	token, err := c.cookies.GetSigned(r, c.name)
	if err != nil {
		return c.manager.New(r.Context())
	}

	sess, err := c.manager.GetByToken(r.Context(), token)
	if err != nil {
		return c.manager.New(r.Context())
	}
	return sess, nil
}

// Save writes the session token to the response as a signed cookie.
// Remembered sessions get a MaxAge matching the server-side expiry so the
// cookie survives browser restarts; others are browser-session cookies.
// Destroyed or non-persistent sessions clear the cookie instead.
func (c *Cookie) Save(w http.ResponseWriter, sess session.Session) error {
	if sess.IsDestroyed() || !sess.Persist {
		c.cookies.Delete(w, c.name)
		return nil
	}

	opts := []cookie.Option{cookie.WithHTTPOnly(true)}
	if sess.Remembered {
		until := time.Until(sess.ExpiresAt)
		if until <= 0 {
			return session.ErrExpired
		}
		opts = append(opts, cookie.WithMaxAge(int(until.Seconds())))
	}

	return c.cookies.SetSigned(w, c.name, sess.Token, opts...)
}

// CookieName returns the configured cookie name.
func (c *Cookie) CookieName() string {
	return c.name
}
