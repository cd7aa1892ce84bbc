// company/handlers.go
package company

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/brightops/qbobridge/internal/auth"
	"github.com/brightops/qbobridge/pkg/qbclient"
)

// Source fetches company records from QBO
type Source interface {
	CompanyInfo(ctx context.Context, realmID string) (map[string]interface{}, error)
}

// Handler serves the company-info passthrough
type Handler struct {
	qb Source
}

// NewHandler creates a new company handler
func NewHandler(qb Source) *Handler {
	return &Handler{qb: qb}
}

// CompanyInfoHandler returns the realm's CompanyInfo record
func (h *Handler) CompanyInfoHandler(w http.ResponseWriter, r *http.Request) {
	realmID := r.URL.Query().Get("realmId")
	if realmID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"error": "missing_params",
		})
		return
	}

	info, err := h.qb.CompanyInfo(r.Context(), realmID)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrReconnectRequired):
			writeJSON(w, http.StatusUnauthorized, map[string]interface{}{
				"error":       "reconnect_required",
				"connect_url": "/connect",
				"message":     err.Error(),
			})
		case errors.Is(err, qbclient.ErrAuthFailed):
			writeJSON(w, http.StatusUnauthorized, map[string]interface{}{
				"error":   "auth_failed",
				"message": err.Error(),
			})
		case errors.Is(err, qbclient.ErrQueryFailed):
			writeJSON(w, http.StatusBadGateway, map[string]interface{}{
				"error":   "qbo_query_failed",
				"message": err.Error(),
			})
		default:
			writeJSON(w, http.StatusInternalServerError, map[string]interface{}{
				"error":   "auth_failed",
				"message": err.Error(),
			})
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"realmId":     realmID,
		"companyInfo": info,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
