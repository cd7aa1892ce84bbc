// system/handlers.go
package system

import (
	"encoding/json"
	"net/http"

	"github.com/brightops/qbobridge/infrastructure/postgres"
)

// Handler serves the liveness endpoints
type Handler struct {
	dbHealth *postgres.HealthChecker
}

// NewHandler creates a new system handler
func NewHandler(dbHealth *postgres.HealthChecker) *Handler {
	return &Handler{dbHealth: dbHealth}
}

// Health reports process liveness
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"ok": true})
}

// DBHealth runs a live check against the token store
func (h *Handler) DBHealth(w http.ResponseWriter, r *http.Request) {
	if h.dbHealth.Check(r.Context()) {
		writeJSON(w, http.StatusOK, map[string]interface{}{"ok": true})
		return
	}

	writeJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
		"ok":    false,
		"state": h.dbHealth.State(),
	})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
