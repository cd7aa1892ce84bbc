// auth/session.go
package auth

import (
	"net/http"

	"github.com/gorilla/sessions"
)

const sessionName = "qbo-oauth-session"

// NewStateStore builds the cookie store that carries the OAuth state between
// /connect and /oauth/callback. The cookie is short-lived and browser-only.
func NewStateStore(secret []byte) *sessions.CookieStore {
	store := sessions.NewCookieStore(secret)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   600, // 10 minutes, the handshake window
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	return store
}
