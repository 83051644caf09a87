package session

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrymomot/portalsso/pkg/cookie"
)

// Manager runs the session life cycle over a Store and a Transport.
type Manager struct {
	store     Store
	transport Transport
	config    Config
	cookies   *cookie.Manager
	ownsStore bool
	activity  chan activityUpdate
	done      chan struct{}
	stopped   chan struct{}
}

type activityUpdate struct {
	token string
	at    time.Time
}

// New creates a Manager. Without WithStore an in-memory store is used;
// without WithTransport a cookie manager is required.
func New(opts ...Option) (*Manager, error) {
	m := &Manager{
		config:   DefaultConfig(),
		activity: make(chan activityUpdate, 1000),
		done:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(m)
	}

	if m.transport == nil {
		if m.cookies == nil {
			return nil, ErrNoTransport
		}
		m.transport = NewCookieTransport(m.cookies, m.config.CookieName, m.config.SecureCookies)
	}
	if m.store == nil {
		m.store = NewMemoryStore(m.config.CleanupInterval)
		m.ownsStore = true
	}

	go m.activityWorker()
	return m, nil
}

// Get loads the session referenced by the request.
func (m *Manager) Get(ctx context.Context, r *http.Request) (*Session, error) {
	token, err := m.transport.GetToken(r)
	if err != nil {
		return nil, err
	}

	s, err := m.store.Get(ctx, token)
	if err != nil {
		return nil, err
	}
	if s.IsExpired() {
		return nil, ErrSessionExpired
	}
	return s, nil
}

// Ensure returns the current session, creating an anonymous one if needed.
func (m *Manager) Ensure(ctx context.Context, w http.ResponseWriter, r *http.Request) (*Session, error) {
	if s, err := m.Get(ctx, r); err == nil {
		if m.shouldUpdateActivity(s) {
			m.queueActivityUpdate(s.Token)
		}
		return s, nil
	}

	s, err := m.create(ctx, false)
	if err != nil {
		return nil, err
	}

	idle, _ := m.config.Timeouts(false)
	if err := m.transport.SetToken(w, s.Token, idle); err != nil {
		_ = m.store.Delete(ctx, s.Token)
		return nil, err
	}
	return s, nil
}

// Authenticate records a sign-in on the session. The token is always
// rotated so a pre-login token cannot be reused after sign-in.
func (m *Manager) Authenticate(ctx context.Context, w http.ResponseWriter, r *http.Request, subjectID, email string) (*Session, error) {
	s, err := m.Get(ctx, r)
	if err != nil {
		if s, err = m.create(ctx, true); err != nil {
			return nil, err
		}
	} else {
		token, err := generateToken()
		if err != nil {
			return nil, err
		}
		_ = m.store.Delete(ctx, s.Token)

		now := time.Now()
		idle, maxLifetime := m.config.Timeouts(true)
		s.Token = token
		s.ExpiresAt = calculateExpiry(s.CreatedAt, now, idle, maxLifetime)
		s.AuthenticatedAt = &now
		s.Touch()
	}

	s.SubjectID = subjectID
	s.Email = email
	if err := m.store.Create(ctx, s); err != nil {
		return nil, err
	}

	idle, _ := m.config.Timeouts(true)
	if err := m.transport.SetToken(w, s.Token, idle); err != nil {
		return nil, err
	}
	return s, nil
}

// Destroy deletes the session and clears the token on the client.
func (m *Manager) Destroy(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	if token, err := m.transport.GetToken(r); err == nil {
		_ = m.store.Delete(ctx, token)
	}
	return m.transport.ClearToken(w)
}

// Set stores a value in the session, creating one if needed.
func (m *Manager) Set(ctx context.Context, w http.ResponseWriter, r *http.Request, key string, value any) error {
	s, err := m.Ensure(ctx, w, r)
	if err != nil {
		return err
	}
	s.Set(key, value)
	return m.Save(ctx, s)
}

// Save persists changes made to a session obtained from Get or Ensure.
func (m *Manager) Save(ctx context.Context, s *Session) error {
	if s == nil {
		return ErrInvalidSession
	}
	return m.store.Update(ctx, s)
}

// Pop returns a string value and removes it from the session.
func (m *Manager) Pop(ctx context.Context, r *http.Request, key string) (string, bool) {
	s, err := m.Get(ctx, r)
	if err != nil {
		return "", false
	}
	v, ok := s.GetString(key)
	if !ok {
		return "", false
	}
	s.Delete(key)
	if err := m.store.Update(ctx, s); err != nil {
		return "", false
	}
	return v, true
}

// Close stops the activity worker after draining queued updates.
func (m *Manager) Close() error {
	select {
	case <-m.done:
	default:
		close(m.done)
	}
	<-m.stopped

	if c, ok := m.store.(interface{ Close() error }); ok && m.ownsStore {
		return c.Close()
	}
	return nil
}

func (m *Manager) create(ctx context.Context, authenticated bool) (*Session, error) {
	token, err := generateToken()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	idle, maxLifetime := m.config.Timeouts(authenticated)
	s := NewSession(token, calculateExpiry(now, now, idle, maxLifetime).Sub(now))
	if authenticated {
		s.AuthenticatedAt = &now
	}

	if err := m.store.Create(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

func (m *Manager) shouldUpdateActivity(s *Session) bool {
	return time.Since(s.LastActivityAt) >= m.config.ActivityUpdateThreshold
}

// queueActivityUpdate drops the update when the queue is full.
func (m *Manager) queueActivityUpdate(token string) {
	select {
	case m.activity <- activityUpdate{token: token, at: time.Now()}:
	default:
	}
}

func (m *Manager) activityWorker() {
	defer close(m.stopped)

	for {
		select {
		case u := <-m.activity:
			_ = m.store.UpdateActivity(context.Background(), u.token, u.at)
		case <-m.done:
			for {
				select {
				case u := <-m.activity:
					_ = m.store.UpdateActivity(context.Background(), u.token, u.at)
				default:
					return
				}
			}
		}
	}
}

// calculateExpiry returns the earlier of the idle deadline and the max lifetime.
func calculateExpiry(createdAt, now time.Time, idle, maxLifetime time.Duration) time.Time {
	idleExpiry := now.Add(idle)
	maxExpiry := createdAt.Add(maxLifetime)
	if maxExpiry.Before(idleExpiry) {
		return maxExpiry
	}
	return idleExpiry
}

func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", errors.Join(ErrTokenGeneration, err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
