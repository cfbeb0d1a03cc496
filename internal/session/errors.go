package session

import "errors"

var (
	// ErrNotFound is returned when no session matches the given id or token.
	ErrNotFound = errors.New("session not found")
	// ErrExpired is returned when a stored session is past its expiry.
	ErrExpired = errors.New("session has expired")
	// ErrTokenGeneration is returned when the system RNG fails.
	ErrTokenGeneration = errors.New("failed to generate session token")
	// ErrSaveSession wraps store failures during save.
	ErrSaveSession = errors.New("failed to save session")
	// ErrDeleteSession wraps store failures during delete.
	ErrDeleteSession = errors.New("failed to delete session")
)
