package session

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Session is server-side state tied to a client through an opaque cookie
// token. A session starts anonymous and ephemeral; login attaches a user id
// and the flows decide whether it becomes durable.
type Session struct {
	// ID is the stable session identifier used as the storage key.
	ID uuid.UUID

	// Token is the cryptographically random value delivered via the cookie
	// (32 bytes, base64url). Rotated whenever authentication state changes.
	Token string

	// UserID is the authenticated account, or 0 for anonymous sessions.
	UserID int64

	// Persist controls whether this session is written to durable storage
	// at all. Anonymous sessions stay ephemeral until a flow opts in.
	Persist bool

	// Remembered marks the session as outliving the browser session: the
	// transport issues a long-lived cookie instead of a session cookie.
	Remembered bool

	ExpiresAt time.Time
	CreatedAt time.Time
	UpdatedAt time.Time

	// destroyed marks the session for deletion from the store.
	destroyed bool
	// modified tracks whether the session needs saving.
	modified bool
	// stored records that a durable copy exists, so dropping Persist
	// erases it instead of merely skipping the next save.
	stored bool
}

// New creates an anonymous session with a fresh id and token.
func New(ttl time.Duration) (Session, error) {
	token, err := generateToken()
	if err != nil {
		return Session{}, errors.Join(ErrTokenGeneration, err)
	}

	now := time.Now()
	return Session{
		ID:        uuid.New(),
		Token:     token,
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
		UpdatedAt: now,
		modified:  true,
	}, nil
}

// Authenticate attaches userID to the session and rotates the token.
// Logging in again as the same user is a no-op; a different user simply
// replaces the previous one, since the caller has already verified
// credentials.
func (s *Session) Authenticate(userID int64) error {
	if userID != 0 && s.UserID == userID {
		return nil
	}
	if err := s.rotateToken(); err != nil {
		return err
	}
	s.UserID = userID
	s.UpdatedAt = time.Now()
	s.modified = true
	return nil
}

// ClearUser transitions the session back to anonymous, rotating the token.
// Already-anonymous sessions are left untouched.
func (s *Session) ClearUser() error {
	if s.UserID == 0 {
		return nil
	}
	if err := s.rotateToken(); err != nil {
		return err
	}
	s.UserID = 0
	s.UpdatedAt = time.Now()
	s.modified = true
	return nil
}

// Remember sets the long-lived-cookie flag. Independent of authentication.
func (s *Session) Remember(flag bool) {
	if s.Remembered == flag {
		return
	}
	s.Remembered = flag
	s.UpdatedAt = time.Now()
	s.modified = true
}

// SetPersist controls whether session state is written to durable storage.
func (s *Session) SetPersist(flag bool) {
	if s.Persist == flag {
		return
	}
	s.Persist = flag
	s.UpdatedAt = time.Now()
	s.modified = true
}

// Touch extends the expiration when at least touchInterval has elapsed
// since the last update, throttling storage writes on busy sessions.
func (s *Session) Touch(ttl, touchInterval time.Duration) {
	if time.Since(s.UpdatedAt) >= touchInterval {
		now := time.Now()
		s.ExpiresAt = now.Add(ttl)
		s.UpdatedAt = now
		s.modified = true
	}
}

// Destroy marks the session for deletion from the store.
func (s *Session) Destroy() {
	s.destroyed = true
	s.modified = true
}

// IsAuthenticated reports whether a user id is attached.
func (s Session) IsAuthenticated() bool {
	return s.UserID != 0 && s.Token != ""
}

// IsExpired reports whether the session passed its expiry.
func (s Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// IsModified reports whether the session has unsaved changes.
func (s Session) IsModified() bool {
	return s.modified
}

// IsDestroyed reports whether the session is marked for deletion.
func (s Session) IsDestroyed() bool {
	return s.destroyed
}

func (s *Session) rotateToken() error {
	token, err := generateToken()
	if err != nil {
		return errors.Join(ErrTokenGeneration, err)
	}
	s.Token = token
	s.modified = true
	return nil
}

// generateToken creates a 32-byte (256-bit) random token encoded as
// base64url without padding.
func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
