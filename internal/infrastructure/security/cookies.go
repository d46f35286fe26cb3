package security

import (
	"net/http"
	"time"
)

const SessionCookieName = "sid"

// secure cookies use the __Host- prefix: no Domain, Path=/, HTTPS only.
func sessionCookieName(secure bool) string {
	if secure {
		return "__Host-" + SessionCookieName
	}
	return SessionCookieName
}

func SetSessionCookie(w http.ResponseWriter, sid string, ttl time.Duration, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName(secure),
		Value:    sid,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure, // prod=true, dev=false
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(ttl.Seconds()),
	})
}

func ClearSessionCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName(secure),
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}

// ReadSessionCookie returns the session id, preferring the __Host- cookie.
// An absent or empty cookie returns "".
func ReadSessionCookie(r *http.Request) string {
	if c, err := r.Cookie("__Host-" + SessionCookieName); err == nil && c.Value != "" {
		return c.Value
	}
	// plain-HTTP local development
	if c, err := r.Cookie(SessionCookieName); err == nil {
		return c.Value
	}
	return ""
}
