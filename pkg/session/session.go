package session

import (
	"time"

	"github.com/google/uuid"
)

// Session is server-side state bound to a browser by an opaque token.
type Session struct {
	ID              uuid.UUID      `json:"id"`
	Token           string         `json:"token"`
	SubjectID       string         `json:"subject_id,omitempty"`
	Email           string         `json:"email,omitempty"`
	Data            map[string]any `json:"data,omitempty"`
	AuthenticatedAt *time.Time     `json:"authenticated_at,omitempty"`
	ExpiresAt       time.Time      `json:"expires_at"`
	LastActivityAt  time.Time      `json:"last_activity_at"`
	CreatedAt       time.Time      `json:"created_at"`
}

// NewSession creates an anonymous session expiring after ttl.
func NewSession(token string, ttl time.Duration) *Session {
	now := time.Now()
	return &Session{
		ID:             uuid.New(),
		Token:          token,
		Data:           make(map[string]any),
		ExpiresAt:      now.Add(ttl),
		LastActivityAt: now,
		CreatedAt:      now,
	}
}

// IsAuthenticated reports whether a sign-in was recorded on the session.
func (s *Session) IsAuthenticated() bool {
	return s != nil && s.AuthenticatedAt != nil
}

func (s *Session) IsExpired() bool {
	return s != nil && time.Now().After(s.ExpiresAt)
}

func (s *Session) Get(key string) (any, bool) {
	if s == nil || s.Data == nil {
		return nil, false
	}
	v, ok := s.Data[key]
	return v, ok
}

func (s *Session) GetString(key string) (string, bool) {
	v, ok := s.Get(key)
	if !ok {
		return "", false
	}
	str, ok := v.(string)
	return str, ok
}

func (s *Session) Set(key string, value any) {
	if s == nil {
		return
	}
	if s.Data == nil {
		s.Data = make(map[string]any)
	}
	s.Data[key] = value
}

func (s *Session) Delete(key string) {
	if s == nil || s.Data == nil {
		return
	}
	delete(s.Data, key)
}

// Touch updates the last activity time.
func (s *Session) Touch() {
	if s == nil {
		return
	}
	s.LastActivityAt = time.Now()
}

// clone returns a deep enough copy for stores that hand out sessions.
func (s *Session) clone() *Session {
	c := *s
	if s.Data != nil {
		c.Data = make(map[string]any, len(s.Data))
		for k, v := range s.Data {
			c.Data[k] = v
		}
	}
	if s.AuthenticatedAt != nil {
		at := *s.AuthenticatedAt
		c.AuthenticatedAt = &at
	}
	return &c
}
