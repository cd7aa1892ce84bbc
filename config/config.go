// config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Intuit OAuth endpoints are environment-independent; only the API base
// differs between sandbox and production.
const (
	AuthorizeURL = "https://appcenter.intuit.com/connect/oauth2"
	TokenURL     = "https://oauth.platform.intuit.com/oauth2/v1/tokens/bearer"

	sandboxAPIBase    = "https://sandbox-quickbooks.api.intuit.com"
	productionAPIBase = "https://quickbooks.api.intuit.com"

	defaultScope = "com.intuit.quickbooks.accounting"
)

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port    string
	Timeout int // seconds, applied to read and write
}

// DatabaseConfig holds the token store connection settings
type DatabaseConfig struct {
	URL string
}

// QuickBooksConfig holds OAuth and API settings for the selected environment
type QuickBooksConfig struct {
	Environment  string // "sandbox" or "production"
	ClientID     string
	ClientSecret string
	RedirectURI  string
	Scopes       []string
	AuthURL      string
	TokenURL     string
	APIBaseURL   string
}

// Config is the full application configuration
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	QuickBooks QuickBooksConfig
	// SessionSecret signs the OAuth state cookie
	SessionSecret string
}

// Load reads configuration from the environment. Missing required values
// are an error; the caller is expected to treat that as fatal.
func Load() (Config, error) {
	cfg := Config{}

	env := strings.ToLower(getEnv("QBO_ENVIRONMENT", "sandbox"))
	if env != "sandbox" && env != "production" {
		return cfg, fmt.Errorf("invalid QBO_ENVIRONMENT %q: must be sandbox or production", env)
	}

	var clientID, clientSecret string
	var err error
	if env == "production" {
		clientID, err = requireEnv("INTUIT_PRODUCTION_CLIENT_ID")
		if err != nil {
			return cfg, err
		}
		clientSecret, err = requireEnv("INTUIT_PRODUCTION_CLIENT_SECRET")
		if err != nil {
			return cfg, err
		}
		cfg.QuickBooks.APIBaseURL = productionAPIBase
	} else {
		clientID, err = requireEnv("INTUIT_SANDBOX_CLIENT_ID")
		if err != nil {
			return cfg, err
		}
		clientSecret, err = requireEnv("INTUIT_SANDBOX_CLIENT_SECRET")
		if err != nil {
			return cfg, err
		}
		cfg.QuickBooks.APIBaseURL = sandboxAPIBase
	}

	redirectURI, err := requireEnv("INTUIT_REDIRECT_URI")
	if err != nil {
		return cfg, err
	}

	dbURL, err := requireEnv("DATABASE_URL")
	if err != nil {
		return cfg, err
	}

	cfg.QuickBooks.Environment = env
	cfg.QuickBooks.ClientID = clientID
	cfg.QuickBooks.ClientSecret = clientSecret
	cfg.QuickBooks.RedirectURI = redirectURI
	cfg.QuickBooks.Scopes = strings.Fields(getEnv("INTUIT_SCOPE", defaultScope))
	cfg.QuickBooks.AuthURL = AuthorizeURL
	cfg.QuickBooks.TokenURL = TokenURL

	cfg.Database.URL = dbURL
	cfg.SessionSecret = getEnv("SESSION_SECRET", "change-me-session-secret")

	cfg.Server.Port = getEnv("PORT", "8080")
	timeout, err := strconv.Atoi(getEnv("SERVER_TIMEOUT", "15"))
	if err != nil {
		return cfg, fmt.Errorf("invalid SERVER_TIMEOUT: %w", err)
	}
	cfg.Server.Timeout = timeout

	return cfg, nil
}

func getEnv(name, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(name)); val != "" {
		return val
	}
	return fallback
}

func requireEnv(name string) (string, error) {
	val := strings.TrimSpace(os.Getenv(name))
	if val == "" {
		return "", fmt.Errorf("missing env var: %s", name)
	}
	return val, nil
}
