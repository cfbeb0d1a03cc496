// Package user defines the account record and the Store abstraction for
// loading and creating accounts. Lookups that find nothing return
// ErrNotFound rather than failing, and username uniqueness is owned by the
// storage layer so concurrent signups cannot race past each other.
package user
