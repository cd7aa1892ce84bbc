// report/handlers.go
package report

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/brightops/qbobridge/internal/auth"
	"github.com/brightops/qbobridge/pkg/qbclient"
)

// InvoiceSource pages through the QBO query API
type InvoiceSource interface {
	QueryAll(ctx context.Context, realmID, entity, query string) ([]map[string]interface{}, error)
}

// Handler provides the invoice report endpoints
type Handler struct {
	qb InvoiceSource
}

// NewHandler creates a new report handler
func NewHandler(qb InvoiceSource) *Handler {
	return &Handler{qb: qb}
}

// InvoicesForYear exports one row per invoice for a calendar year
func (h *Handler) InvoicesForYear(w http.ResponseWriter, r *http.Request) {
	h.export(w, r, "invoices", func(realmID string, invoice map[string]interface{}) []map[string]interface{} {
		return []map[string]interface{}{FlattenInvoice(realmID, invoice)}
	}, InvoiceColumns)
}

// InvoiceLinesForYear exports one row per invoice line for a calendar year
func (h *Handler) InvoiceLinesForYear(w http.ResponseWriter, r *http.Request) {
	h.export(w, r, "invoice_lines_all", FlattenInvoiceLines, InvoiceLineColumns)
}

// export runs the shared fetch-flatten-serialize pipeline
func (h *Handler) export(
	w http.ResponseWriter,
	r *http.Request,
	reportName string,
	flatten func(realmID string, invoice map[string]interface{}) []map[string]interface{},
	columns []string,
) {
	realmID := r.URL.Query().Get("realmId")
	if realmID == "" {
		writeJSONResponse(w, http.StatusBadRequest, map[string]interface{}{
			"error": "missing_params",
		})
		return
	}

	format := strings.ToLower(r.URL.Query().Get("format"))
	if format == "" {
		format = "json"
	}
	if format != "json" && format != "csv" {
		writeJSONResponse(w, http.StatusBadRequest, map[string]interface{}{
			"error":   "invalid_format",
			"allowed": []string{"json", "csv"},
		})
		return
	}

	year := mux.Vars(r)["year"]

	// All invoices in the year, newest first
	query := fmt.Sprintf(
		"SELECT * FROM Invoice WHERE TxnDate >= '%s-01-01' AND TxnDate <= '%s-12-31' ORDER BY TxnDate DESC",
		year, year,
	)

	invoices, err := h.qb.QueryAll(r.Context(), realmID, "Invoice", query)
	if err != nil {
		writeQueryError(w, err)
		return
	}

	var rows []map[string]interface{}
	for _, invoice := range invoices {
		rows = append(rows, flatten(realmID, invoice)...)
	}

	filename := fmt.Sprintf("%s_%s_%s.%s", reportName, year, realmID, format)

	var buf bytes.Buffer
	if format == "csv" {
		if err := WriteCSV(&buf, columns, rows); err != nil {
			writeJSONResponse(w, http.StatusInternalServerError, map[string]interface{}{
				"error": "export_failed",
			})
			return
		}
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	} else {
		if err := WriteJSON(&buf, rows); err != nil {
			writeJSONResponse(w, http.StatusInternalServerError, map[string]interface{}{
				"error": "export_failed",
			})
			return
		}
		w.Header().Set("Content-Type", "application/json")
	}

	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// writeQueryError maps token and query failures onto wire error codes
func writeQueryError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, auth.ErrReconnectRequired):
		writeJSONResponse(w, http.StatusUnauthorized, map[string]interface{}{
			"error":       "reconnect_required",
			"connect_url": "/connect",
			"message":     err.Error(),
		})
	case errors.Is(err, qbclient.ErrAuthFailed):
		writeJSONResponse(w, http.StatusUnauthorized, map[string]interface{}{
			"error":   "auth_failed",
			"message": err.Error(),
		})
	case errors.Is(err, qbclient.ErrQueryFailed):
		writeJSONResponse(w, http.StatusBadGateway, map[string]interface{}{
			"error":   "qbo_query_failed",
			"message": err.Error(),
		})
	default:
		writeJSONResponse(w, http.StatusInternalServerError, map[string]interface{}{
			"error":   "auth_failed",
			"message": err.Error(),
		})
	}
}

func writeJSONResponse(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
