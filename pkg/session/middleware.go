package session

import "net/http"

// Middleware loads the current session, if any, into the request context.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s, err := m.Get(r.Context(), r)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}
		if m.shouldUpdateActivity(s) {
			m.queueActivityUpdate(s.Token)
		}
		next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), s)))
	})
}
