package user

import (
	"context"
	"sync"
)

// MemoryStore is an in-memory Store used in tests and local development.
// Uniqueness of usernames is enforced under the store mutex, mirroring the
// storage-level constraint of the Postgres implementation.
type MemoryStore struct {
	mu     sync.RWMutex
	nextID int64
	byID   map[int64]*User
	byName map[string]int64
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		nextID: 1,
		byID:   make(map[int64]*User),
		byName: make(map[string]int64),
	}
}

func (s *MemoryStore) ByID(ctx context.Context, id int64) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneUser(u), nil
}

func (s *MemoryStore) ByUsername(ctx context.Context, username string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byName[username]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneUser(s.byID[id]), nil
}

func (s *MemoryStore) Create(ctx context.Context, params CreateParams) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byName[params.Username]; exists {
		return nil, ErrDuplicateUsername
	}

	u := &User{
		ID:           s.nextID,
		Username:     params.Username,
		DisplayName:  params.DisplayName,
		PasswordHash: params.PasswordHash,
		Permissions:  params.Permissions,
	}
	if u.Permissions == nil {
		u.Permissions = NewPermissions()
	}

	s.nextID++
	s.byID[u.ID] = u
	s.byName[u.Username] = u.ID

	return cloneUser(u), nil
}

// Delete removes a user, simulating an account that vanished between
// session creation and lookup. Test helper only.
func (s *MemoryStore) Delete(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if u, ok := s.byID[id]; ok {
		delete(s.byName, u.Username)
		delete(s.byID, id)
	}
}

func cloneUser(u *User) *User {
	clone := *u
	clone.Permissions = make(Permissions, len(u.Permissions))
	for t := range u.Permissions {
		clone.Permissions[t] = struct{}{}
	}
	return &clone
}
