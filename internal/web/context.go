package web

import (
	"context"

	"github.com/benwis/gatehouse/internal/auth"
)

type authSessionKey struct{}

// AuthSession retrieves the request's auth session placed by the session
// middleware. Returns nil when the middleware did not run.
func AuthSession(ctx context.Context) *auth.Session {
	as, _ := ctx.Value(authSessionKey{}).(*auth.Session)
	return as
}

func withAuthSession(ctx context.Context, as *auth.Session) context.Context {
	return context.WithValue(ctx, authSessionKey{}, as)
}
