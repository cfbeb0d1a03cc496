package user

import "context"

// CreateParams carries the fields signup provides for a new account.
type CreateParams struct {
	Username     string
	DisplayName  string
	PasswordHash string
	Permissions  Permissions
}

// Store loads and creates user records in durable storage.
// Implementations must be safe for concurrent use.
//
// Lookups return ErrNotFound when no row matches; callers are expected to
// treat that as a valid outcome, not a fault. Create relies on the storage
// level uniqueness constraint for usernames, so two concurrent signups with
// the same name race safely: one wins, the other observes
// ErrDuplicateUsername.
type Store interface {
	ByID(ctx context.Context, id int64) (*User, error)
	ByUsername(ctx context.Context, username string) (*User, error)
	Create(ctx context.Context, params CreateParams) (*User, error)
}
