package session

import (
	"net/http"
)

// CookieName is the cookie carrying the session id
const CookieName = "stockdash_session"

// FromRequest resolves the session for r, setting the cookie on w when a new session is created.
func (s *Store) FromRequest(w http.ResponseWriter, r *http.Request) string {
	var current string
	if c, err := r.Cookie(CookieName); err == nil {
		current = c.Value
	}

	id, created := s.Resolve(current)
	if created {
		http.SetCookie(w, &http.Cookie{
			Name:     CookieName,
			Value:    id,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
	return id
}
