package session

import (
	"context"
	"errors"
	"time"
)

// Manager owns the session lifecycle: creation, lookup with expiry
// validation, and committing request-end state back to the store.
type Manager struct {
	store         Store
	ttl           time.Duration
	touchInterval time.Duration
}

// NewManager creates a Manager. touchInterval throttles expiry extensions
// so busy sessions do not write to the store on every request.
func NewManager(store Store, ttl, touchInterval time.Duration) *Manager {
	if store == nil {
		panic("session: manager requires a store")
	}
	return &Manager{
		store:         store,
		ttl:           ttl,
		touchInterval: touchInterval,
	}
}

// NewFromConfig creates a Manager from environment configuration.
func NewFromConfig(cfg Config, store Store) *Manager {
	return NewManager(store, cfg.TTL, cfg.TouchInterval)
}

// New creates a fresh anonymous session. Nothing is written to the store
// until the session is committed with Persist set.
func (m *Manager) New(ctx context.Context) (Session, error) {
	return New(m.ttl)
}

// GetByToken loads a session by its cookie token and validates expiry.
func (m *Manager) GetByToken(ctx context.Context, token string) (Session, error) {
	sess, err := m.store.GetByToken(ctx, token)
	if err != nil {
		return Session{}, err
	}
	if sess.IsExpired() {
		return Session{}, ErrExpired
	}

	loaded := *sess
	loaded.Persist = true
	loaded.stored = true
	loaded.modified = false
	return loaded, nil
}

// Commit writes the session's end-of-request state to the store:
// destroyed sessions are deleted, non-persisted sessions have any durable
// copy erased, and everything else is touched and saved when modified.
func (m *Manager) Commit(ctx context.Context, sess Session) error {
	if sess.IsDestroyed() {
		return m.delete(ctx, sess)
	}

	if !sess.Persist {
		// Logout drops the persist flag; an existing durable copy must not
		// outlive it.
		if sess.stored {
			return m.delete(ctx, sess)
		}
		return nil
	}

	sess.Touch(m.ttl, m.touchInterval)

	if sess.IsModified() {
		if err := m.store.Save(ctx, &sess); err != nil {
			return errors.Join(ErrSaveSession, err)
		}
	}
	return nil
}

// CleanupExpired removes expired sessions from the store.
// Run periodically; the store never GCs on its own.
func (m *Manager) CleanupExpired(ctx context.Context) (int64, error) {
	return m.store.DeleteExpired(ctx)
}

// TTL returns the configured session time-to-live.
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

func (m *Manager) delete(ctx context.Context, sess Session) error {
	if err := m.store.Delete(ctx, sess.ID); err != nil && !errors.Is(err, ErrNotFound) {
		return errors.Join(ErrDeleteSession, err)
	}
	return nil
}
