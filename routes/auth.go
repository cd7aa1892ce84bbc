// routes/auth.go
package routes

import (
	"github.com/gorilla/mux"

	"github.com/brightops/qbobridge/internal/auth"
)

// RegisterAuthRoutes registers all authentication-related routes
func RegisterAuthRoutes(router *mux.Router, authHandler *auth.Handler) {
	router.HandleFunc("/connect", authHandler.ConnectHandler).Methods("GET")
	router.HandleFunc("/oauth/callback", authHandler.CallbackHandler).Methods("GET")
	router.HandleFunc("/auth/status", authHandler.StatusHandler).Methods("GET")
}
