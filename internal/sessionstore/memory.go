package sessionstore

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/benwis/gatehouse/internal/session"
)

// Memory is an in-process session store for tests and single-node
// development. Writes are serialized by the store mutex; the last writer
// for a session id wins.
type Memory struct {
	mu      sync.RWMutex
	byID    map[uuid.UUID]session.Session
	byToken map[string]uuid.UUID
}

// NewMemory creates an empty Memory store.
func NewMemory() *Memory {
	return &Memory{
		byID:    make(map[uuid.UUID]session.Session),
		byToken: make(map[string]uuid.UUID),
	}
}

func (m *Memory) GetByID(ctx context.Context, id uuid.UUID) (*session.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	sess, ok := m.byID[id]
	if !ok {
		return nil, session.ErrNotFound
	}
	return &sess, nil
}

func (m *Memory) GetByToken(ctx context.Context, token string) (*session.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.byToken[token]
	if !ok {
		return nil, session.ErrNotFound
	}
	sess := m.byID[id]
	return &sess, nil
}

func (m *Memory) Save(ctx context.Context, sess *session.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if prev, ok := m.byID[sess.ID]; ok && prev.Token != sess.Token {
		delete(m.byToken, prev.Token)
	}
	m.byID[sess.ID] = *sess
	m.byToken[sess.Token] = sess.ID
	return nil
}

func (m *Memory) Delete(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, ok := m.byID[id]
	if !ok {
		return session.ErrNotFound
	}
	delete(m.byToken, sess.Token)
	delete(m.byID, id)
	return nil
}

func (m *Memory) DeleteExpired(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var removed int64
	now := time.Now()
	for id, sess := range m.byID {
		if now.After(sess.ExpiresAt) {
			delete(m.byToken, sess.Token)
			delete(m.byID, id)
			removed++
		}
	}
	return removed, nil
}
