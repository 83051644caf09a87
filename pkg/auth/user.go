package auth

import (
	"context"
	"strings"
	"sync"
)

// Sign-in methods recorded on User.
const (
	MethodPassword    = "password"
	MethodOAuthGoogle = "oauth_google"
)

// User is an account known to a sign-in backend.
type User struct {
	ID            string `yaml:"id"`
	Email         string `yaml:"email"`
	Name          string `yaml:"name,omitempty"`
	EmailVerified bool   `yaml:"email_verified"`
	PasswordHash  string `yaml:"password_hash,omitempty"`
	AuthMethod    string `yaml:"-"`
}

// UserStore looks users up for the password authenticator.
type UserStore interface {
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	GetUserByID(ctx context.Context, id string) (*User, error)
}

// NormalizeEmail trims and lowercases an address for lookups.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// MemoryStore is a concurrency-safe UserStore held in memory.
type MemoryStore struct {
	mu      sync.RWMutex
	byEmail map[string]User
	byID    map[string]User
}

func NewMemoryStore(users ...User) *MemoryStore {
	s := &MemoryStore{
		byEmail: make(map[string]User, len(users)),
		byID:    make(map[string]User, len(users)),
	}
	for _, u := range users {
		s.Put(u)
	}
	return s
}

// Put adds or replaces a user keyed by ID and normalized email.
func (s *MemoryStore) Put(u User) {
	u.Email = NormalizeEmail(u.Email)

	s.mu.Lock()
	defer s.mu.Unlock()

	if prev, ok := s.byID[u.ID]; ok {
		delete(s.byEmail, prev.Email)
	}
	s.byID[u.ID] = u
	s.byEmail[u.Email] = u
}

func (s *MemoryStore) GetUserByEmail(_ context.Context, email string) (*User, error) {
	s.mu.RLock()
	u, ok := s.byEmail[NormalizeEmail(email)]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrUserNotFound
	}
	return &u, nil
}

func (s *MemoryStore) GetUserByID(_ context.Context, id string) (*User, error) {
	s.mu.RLock()
	u, ok := s.byID[id]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrUserNotFound
	}
	return &u, nil
}

func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}
