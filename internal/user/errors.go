package user

import "errors"

var (
	// ErrNotFound is returned by lookups when no user matches.
	// "No such user" is a valid outcome callers must handle, not a server
	// fault.
	ErrNotFound = errors.New("user not found")

	// ErrDuplicateUsername is returned by Create when the username is
	// already taken. Signup surfaces this to the client.
	ErrDuplicateUsername = errors.New("username already taken")
)
