// Package auth binds sessions, users and permissions into the
// authentication surface of the application.
//
// Two layers live here. Session is the request-scoped view: it answers
// "who is this" (CurrentUser), "are they logged in" (IsAuthenticated) and
// "may they do X" (HasPermission), caching the user lookup for the life of
// the request and failing closed when identity cannot be established.
// Service is the process-wide flow layer: Login, Signup and Logout
// implement the credential checks, the signup gate and the session
// transitions, and report where the client should be redirected next.
//
// Credential failures are deliberately indistinguishable: unknown
// usernames, wrong passwords and corrupt stored hashes all surface as
// ErrInvalidCredentials.
package auth
