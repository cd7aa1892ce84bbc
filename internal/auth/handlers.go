// auth/handlers.go
package auth

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/sessions"
)

// Handler provides HTTP handlers for the OAuth handshake
type Handler struct {
	service  *Service
	sessions *sessions.CookieStore
}

// NewHandler creates a new auth handler
func NewHandler(service *Service, stateStore *sessions.CookieStore) *Handler {
	return &Handler{
		service:  service,
		sessions: stateStore,
	}
}

// generateState creates a secure random state for OAuth
func (h *Handler) generateState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

// ConnectHandler initiates the QuickBooks authorization flow
func (h *Handler) ConnectHandler(w http.ResponseWriter, r *http.Request) {
	state, err := h.generateState()
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]interface{}{
			"error": "state_generation_failed",
		})
		return
	}

	// Save state in the cookie session for verification on callback
	session, _ := h.sessions.Get(r, sessionName)
	session.Values["qbo_state"] = state
	session.Values["qbo_state_expiry"] = time.Now().Add(10 * time.Minute).Unix()
	if err := session.Save(r, w); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]interface{}{
			"error": "session_save_failed",
		})
		return
	}

	http.Redirect(w, r, h.service.AuthorizationURL(state), http.StatusFound)
}

// CallbackHandler receives the provider redirect, verifies the CSRF state,
// exchanges the code, and upserts the realm's token record.
func (h *Handler) CallbackHandler(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	code := query.Get("code")
	realmID := query.Get("realmId")
	state := query.Get("state")

	if code == "" || realmID == "" || state == "" {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"error":   "missing_params",
			"code":    code,
			"realmId": realmID,
			"state":   state,
		})
		return
	}

	session, _ := h.sessions.Get(r, sessionName)
	savedState, ok := session.Values["qbo_state"].(string)
	if !ok || savedState != state {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"error": "invalid_state",
		})
		return
	}
	expiry, ok := session.Values["qbo_state_expiry"].(int64)
	if !ok || time.Now().Unix() > expiry {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"error": "invalid_state",
		})
		return
	}

	// State is single-use
	delete(session.Values, "qbo_state")
	delete(session.Values, "qbo_state_expiry")
	_ = session.Save(r, w)

	_, err := h.service.Exchange(r.Context(), code, realmID)
	if err != nil {
		switch {
		case errors.Is(err, ErrMissingTokens):
			writeJSON(w, http.StatusInternalServerError, map[string]interface{}{
				"error":   "missing_tokens_in_response",
				"details": err.Error(),
			})
		default:
			writeJSON(w, http.StatusInternalServerError, map[string]interface{}{
				"error":   "token_exchange_failed",
				"details": err.Error(),
			})
		}
		return
	}

	// Tokens never leave this service
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"connected": true,
		"realmId":   realmID,
	})
}

// StatusHandler reports whether a realm is connected
func (h *Handler) StatusHandler(w http.ResponseWriter, r *http.Request) {
	realmID := r.URL.Query().Get("realmId")
	if realmID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"error": "missing_params",
		})
		return
	}

	rec, err := h.service.Status(r.Context(), realmID)
	if err != nil {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"connected": false,
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"connected":  true,
		"realmId":    rec.RealmID,
		"expires_at": rec.ExpiresAt,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
