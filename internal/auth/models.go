// auth/models.go
package auth

import (
	"context"
	"time"
)

// TokenRecord is the persisted OAuth state for one QuickBooks company.
// Exactly one row exists per realm; rows are upserted, never deleted.
type TokenRecord struct {
	RealmID          string     `gorm:"column:realm_id;primaryKey" json:"realm_id"`
	AccessToken      string     `gorm:"column:access_token;not null" json:"-"`
	RefreshToken     string     `gorm:"column:refresh_token;not null" json:"-"`
	ExpiresAt        time.Time  `gorm:"column:expires_at;not null" json:"expires_at"`
	RefreshExpiresAt *time.Time `gorm:"column:refresh_expires_at" json:"refresh_expires_at,omitempty"`
	UpdatedAt        time.Time  `gorm:"column:updated_at" json:"updated_at"`
}

// TableName maps the record onto the qbo_tokens table
func (TokenRecord) TableName() string {
	return "qbo_tokens"
}

// bearerResponse is the Intuit bearer token endpoint payload, shared by the
// authorization_code and refresh_token grants.
type bearerResponse struct {
	AccessToken      string `json:"access_token"`
	RefreshToken     string `json:"refresh_token"`
	TokenType        string `json:"token_type"`
	ExpiresIn        int    `json:"expires_in"`
	RefreshExpiresIn int    `json:"x_refresh_token_expires_in"`
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

// OAuthConfig holds OAuth 2.0 configuration
type OAuthConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
	Scopes       []string
	AuthURL      string
	TokenURL     string
}

// TokenStore interface for token persistence implementations
type TokenStore interface {
	Upsert(ctx context.Context, rec *TokenRecord) error
	Get(ctx context.Context, realmID string) (*TokenRecord, error)
}
