// routes/reports.go
package routes

import (
	"github.com/gorilla/mux"

	"github.com/brightops/qbobridge/internal/report"
)

// RegisterReportRoutes registers the invoice export routes
func RegisterReportRoutes(router *mux.Router, reportHandler *report.Handler) {
	router.HandleFunc("/reports/invoices/year/{year:[0-9]{4}}", reportHandler.InvoicesForYear).Methods("GET")
	router.HandleFunc("/reports/invoice_lines_all/year/{year:[0-9]{4}}", reportHandler.InvoiceLinesForYear).Methods("GET")
}
