package identity

import (
	"net/http"

	"github.com/dmitrymomot/portalsso/pkg/session"
)

// SessionProvider identifies requests by their authenticated session.
type SessionProvider struct {
	sessions *session.Manager
}

func NewSessionProvider(sessions *session.Manager) *SessionProvider {
	return &SessionProvider{sessions: sessions}
}

// Identify prefers the session already loaded by session middleware and
// falls back to reading it from the store.
func (p *SessionProvider) Identify(r *http.Request) (Claim, error) {
	s, ok := session.FromContext(r.Context())
	if !ok {
		var err error
		if s, err = p.sessions.Get(r.Context(), r); err != nil {
			return Claim{}, ErrAuthenticationRequired
		}
	}
	if !s.IsAuthenticated() {
		return Claim{}, ErrAuthenticationRequired
	}
	return Claim{SubjectID: s.SubjectID, Email: s.Email}, nil
}
