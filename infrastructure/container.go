// infrastructure/container.go
package infrastructure

import (
	"context"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/brightops/qbobridge/config"
	"github.com/brightops/qbobridge/infrastructure/postgres"
	"github.com/brightops/qbobridge/internal/auth"
	"github.com/brightops/qbobridge/internal/company"
	"github.com/brightops/qbobridge/internal/report"
	"github.com/brightops/qbobridge/internal/system"
	"github.com/brightops/qbobridge/pkg/qbclient"
)

// Container provides application dependencies
type Container struct {
	// Services
	AuthService *auth.Service

	// Handlers
	AuthHandler    *auth.Handler
	ReportHandler  *report.Handler
	CompanyHandler *company.Handler
	SystemHandler  *system.Handler

	// Infrastructure
	DB         *gorm.DB
	DBHealth   *postgres.HealthChecker
	TokenStore auth.TokenStore
	QBClient   *qbclient.Client
}

// NewContainer creates and initializes the dependency container
func NewContainer(ctx context.Context, cfg config.Config) (*Container, error) {
	container := &Container{}

	// Connect the token store database
	db, err := postgres.Connect(postgres.DefaultConfig(cfg.Database.URL))
	if err != nil {
		return nil, err
	}
	container.DB = db

	// Create health checker
	container.DBHealth = postgres.NewHealthChecker(db, 30*time.Second)

	// Create token store
	container.TokenStore = auth.NewGormTokenStore(db)

	// Initialize the token lifecycle service
	container.AuthService = auth.NewService(auth.OAuthConfig{
		ClientID:     cfg.QuickBooks.ClientID,
		ClientSecret: cfg.QuickBooks.ClientSecret,
		RedirectURI:  cfg.QuickBooks.RedirectURI,
		Scopes:       cfg.QuickBooks.Scopes,
		AuthURL:      cfg.QuickBooks.AuthURL,
		TokenURL:     cfg.QuickBooks.TokenURL,
	}, container.TokenStore)

	// Initialize QuickBooks client
	container.QBClient = qbclient.NewClient(cfg.QuickBooks.APIBaseURL, container.AuthService)

	// Initialize handlers
	stateStore := auth.NewStateStore([]byte(cfg.SessionSecret))
	container.AuthHandler = auth.NewHandler(container.AuthService, stateStore)
	container.ReportHandler = report.NewHandler(container.QBClient)
	container.CompanyHandler = company.NewHandler(container.QBClient)
	container.SystemHandler = system.NewHandler(container.DBHealth)

	return container, nil
}

// Shutdown gracefully closes connections
func (c *Container) Shutdown() {
	if c.DB != nil {
		sqlDB, err := c.DB.DB()
		if err == nil {
			if err := sqlDB.Close(); err != nil {
				log.Printf("Error closing database connection: %v", err)
			}
		}
	}
}
