package password

import "errors"

var (
	// ErrHashing is returned when a hash could not be derived, which only
	// happens on a catastrophic RNG failure.
	ErrHashing = errors.New("password hashing failed")

	// ErrMismatch is returned when the candidate password does not match
	// the stored hash.
	ErrMismatch = errors.New("password does not match")

	// ErrMalformedHash is returned when a stored hash cannot be parsed,
	// which indicates data corruption rather than a bad password.
	ErrMalformedHash = errors.New("malformed password hash")
)
