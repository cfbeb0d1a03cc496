package session

import (
	"context"

	"github.com/google/uuid"
)

// Store is the persistence contract for sessions. Implementations must be
// safe for concurrent use; writes for the same session id are serialized by
// the backend (upsert, last writer wins, no merge semantics).
type Store interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Session, error)
	GetByToken(ctx context.Context, token string) (*Session, error)
	// Save upserts the session state atomically.
	Save(ctx context.Context, sess *Session) error
	Delete(ctx context.Context, id uuid.UUID) error
	// DeleteExpired removes expired sessions and returns how many went away.
	DeleteExpired(ctx context.Context) (int64, error)
}
