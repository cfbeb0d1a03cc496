// Package web is the thin HTTP surface over the auth core: chi routing,
// the session-loading middleware, form handlers for login, signup and
// logout, and the dark-mode preference cookie. Handlers translate between
// HTTP and the core packages and hold no domain logic of their own.
//
// Session state is committed lazily. The middleware wraps the
// ResponseWriter and flushes the session to the store and the cookie on
// the first write, so handlers may mutate the session at any point before
// producing output.
package web
