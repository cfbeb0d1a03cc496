package auth

import "errors"

var (
	// ErrInvalidCredentials is the single user-facing login failure.
	// Unknown username and wrong password collapse into it so a response
	// never reveals which check failed.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrPasswordMismatch is returned when signup's password and
	// confirmation differ.
	ErrPasswordMismatch = errors.New("passwords did not match")

	// ErrSignupNotAllowed is returned when the signup policy rejects the
	// requested username.
	ErrSignupNotAllowed = errors.New("signup is not open for this username")
)
