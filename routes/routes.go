// routes/routes.go
package routes

import (
	"github.com/gorilla/mux"

	"github.com/brightops/qbobridge/internal/auth"
	"github.com/brightops/qbobridge/internal/company"
	"github.com/brightops/qbobridge/internal/report"
	"github.com/brightops/qbobridge/internal/system"
)

// SetupRoutes configures all API routes
func SetupRoutes(
	router *mux.Router,
	authHandler *auth.Handler,
	reportHandler *report.Handler,
	companyHandler *company.Handler,
	systemHandler *system.Handler,
) {
	// Register auth routes
	RegisterAuthRoutes(router, authHandler)

	// Register report routes
	RegisterReportRoutes(router, reportHandler)

	// Company passthrough
	router.HandleFunc("/qbo/company-info", companyHandler.CompanyInfoHandler).Methods("GET")

	// Liveness
	router.HandleFunc("/health", systemHandler.Health).Methods("GET")
	router.HandleFunc("/db-health", systemHandler.DBHealth).Methods("GET")
}
