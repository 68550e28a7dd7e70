package userstore

import (
	"context"
	"errors"
	"strings"
	"sync"

	goTokenAuth "github.com/MrEthical07/goTokenAuth"
)

var (
	// ErrEmailTaken is returned by Put when another user owns the email.
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidUser is returned by Put for a user without ID or email.
	ErrInvalidUser = errors.New("user requires id and email")
)

// MemoryStore is a mutex-guarded map store.
type MemoryStore struct {
	mu      sync.RWMutex
	byID    map[string]goTokenAuth.User
	byEmail map[string]string
}

var _ goTokenAuth.UserProvider = (*MemoryStore)(nil)

// NewMemory returns a store seeded with users. It panics on a seed that Put
// would reject.
func NewMemory(users ...goTokenAuth.User) *MemoryStore {
	s := &MemoryStore{
		byID:    make(map[string]goTokenAuth.User),
		byEmail: make(map[string]string),
	}
	for _, u := range users {
		if err := s.Put(u); err != nil {
			panic("userstore: " + err.Error())
		}
	}
	return s
}

// Put inserts or replaces u.
func (s *MemoryStore) Put(u goTokenAuth.User) error {
	if u.ID == "" || strings.TrimSpace(u.Email) == "" {
		return ErrInvalidUser
	}
	email := normalizeEmail(u.Email)

	s.mu.Lock()
	defer s.mu.Unlock()

	if owner, ok := s.byEmail[email]; ok && owner != u.ID {
		return ErrEmailTaken
	}
	if prev, ok := s.byID[u.ID]; ok {
		delete(s.byEmail, normalizeEmail(prev.Email))
	}
	s.byID[u.ID] = u
	s.byEmail[email] = u.ID
	return nil
}

// Delete removes the user with id. Missing users are ignored.
func (s *MemoryStore) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if prev, ok := s.byID[id]; ok {
		delete(s.byEmail, normalizeEmail(prev.Email))
		delete(s.byID, id)
	}
}

func (s *MemoryStore) GetUserByID(_ context.Context, id string) (goTokenAuth.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.byID[id]
	if !ok {
		return goTokenAuth.User{}, goTokenAuth.ErrUserNotFound
	}
	return u, nil
}

func (s *MemoryStore) GetUserByEmail(_ context.Context, email string) (goTokenAuth.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byEmail[normalizeEmail(email)]
	if !ok {
		return goTokenAuth.User{}, goTokenAuth.ErrUserNotFound
	}
	return s.byID[id], nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
