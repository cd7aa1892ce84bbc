// auth/service.go
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// DefaultSkew is the minimum remaining validity an access token must have
// before it is handed to a caller.
const DefaultSkew = 5 * time.Minute

// Service handles OAuth 2.0 operations
type Service struct {
	config     OAuthConfig
	tokenStore TokenStore
	httpClient *http.Client

	// realmLocks serializes refreshes per realm so two concurrent requests
	// cannot race a rotated refresh token.
	realmLocks sync.Map // realmID -> *sync.Mutex
}

// NewService creates a new auth service
func NewService(config OAuthConfig, tokenStore TokenStore) *Service {
	return &Service{
		config:     config,
		tokenStore: tokenStore,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// AuthorizationURL generates the QuickBooks consent URL for the given state
func (s *Service) AuthorizationURL(state string) string {
	u, _ := url.Parse(s.config.AuthURL)
	q := u.Query()

	q.Set("client_id", s.config.ClientID)
	q.Set("response_type", "code")
	q.Set("scope", strings.Join(s.config.Scopes, " "))
	q.Set("redirect_uri", s.config.RedirectURI)
	q.Set("state", state)

	u.RawQuery = q.Encode()
	return u.String()
}

// Exchange trades an authorization code for tokens and upserts the realm's
// record. Nothing is persisted on any failure path.
func (s *Service) Exchange(ctx context.Context, code, realmID string) (*TokenRecord, error) {
	data := url.Values{}
	data.Set("grant_type", "authorization_code")
	data.Set("code", code)
	data.Set("redirect_uri", s.config.RedirectURI)

	tok, status, body, err := s.tokenRequest(ctx, data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenExchangeFailed, err)
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d: %s", ErrTokenExchangeFailed, status, body)
	}
	if tok.AccessToken == "" || tok.RefreshToken == "" {
		return nil, fmt.Errorf("%w: %s", ErrMissingTokens, body)
	}

	now := time.Now().UTC()
	rec := &TokenRecord{
		RealmID:      realmID,
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		ExpiresAt:    now.Add(expiresIn(tok.ExpiresIn)),
	}
	if tok.RefreshExpiresIn > 0 {
		refreshExpiry := now.Add(time.Duration(tok.RefreshExpiresIn) * time.Second)
		rec.RefreshExpiresAt = &refreshExpiry
	}

	if err := s.tokenStore.Upsert(ctx, rec); err != nil {
		return nil, fmt.Errorf("failed to save token: %w", err)
	}

	return rec, nil
}

// ValidAccessToken returns an access token usable for at least skew from now,
// refreshing synchronously when the stored one is too close to expiry.
// A non-positive skew selects DefaultSkew.
func (s *Service) ValidAccessToken(ctx context.Context, realmID string, skew time.Duration) (string, error) {
	if skew <= 0 {
		skew = DefaultSkew
	}

	mu := s.realmLock(realmID)
	mu.Lock()
	defer mu.Unlock()

	rec, err := s.tokenStore.Get(ctx, realmID)
	if err != nil {
		if errors.Is(err, ErrNoRecord) {
			return "", fmt.Errorf("%w: realm %s is not connected", ErrReconnectRequired, realmID)
		}
		return "", fmt.Errorf("failed to get token: %w", err)
	}

	if rec.AccessToken != "" && time.Until(rec.ExpiresAt) > skew {
		return rec.AccessToken, nil
	}

	return s.refreshLocked(ctx, rec)
}

// Refresh forces a refresh_token grant for the realm and returns the new
// access token.
func (s *Service) Refresh(ctx context.Context, realmID string) (string, error) {
	mu := s.realmLock(realmID)
	mu.Lock()
	defer mu.Unlock()

	rec, err := s.tokenStore.Get(ctx, realmID)
	if err != nil {
		if errors.Is(err, ErrNoRecord) {
			return "", fmt.Errorf("%w: realm %s is not connected", ErrReconnectRequired, realmID)
		}
		return "", fmt.Errorf("failed to get token for refresh: %w", err)
	}

	return s.refreshLocked(ctx, rec)
}

// Status reports whether the realm has a stored record, without exposing
// the tokens themselves.
func (s *Service) Status(ctx context.Context, realmID string) (*TokenRecord, error) {
	return s.tokenStore.Get(ctx, realmID)
}

// refreshLocked performs the refresh_token grant. The caller holds the
// realm's lock.
func (s *Service) refreshLocked(ctx context.Context, rec *TokenRecord) (string, error) {
	if rec.RefreshToken == "" {
		return "", fmt.Errorf("%w: no refresh token stored for realm %s", ErrReconnectRequired, rec.RealmID)
	}
	if rec.RefreshExpiresAt != nil && !time.Now().Before(*rec.RefreshExpiresAt) {
		return "", fmt.Errorf("%w: refresh token for realm %s expired at %s", ErrReconnectRequired, rec.RealmID, rec.RefreshExpiresAt.Format(time.RFC3339))
	}

	data := url.Values{}
	data.Set("grant_type", "refresh_token")
	data.Set("refresh_token", rec.RefreshToken)

	tok, status, body, err := s.tokenRequest(ctx, data)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTokenRefreshFailed, err)
	}
	if status != http.StatusOK {
		if tok.Error == "invalid_grant" || strings.Contains(string(body), "invalid_grant") {
			return "", fmt.Errorf("%w: refresh token for realm %s was rejected (invalid_grant)", ErrReconnectRequired, rec.RealmID)
		}
		return "", fmt.Errorf("%w: status %d: %s", ErrTokenRefreshFailed, status, body)
	}
	if tok.AccessToken == "" {
		return "", fmt.Errorf("%w: refresh response has no access token", ErrTokenRefreshFailed)
	}

	now := time.Now().UTC()
	rec.AccessToken = tok.AccessToken
	rec.ExpiresAt = now.Add(expiresIn(tok.ExpiresIn))

	// Intuit rotates refresh tokens; keep the old one when no new one came back
	if tok.RefreshToken != "" {
		rec.RefreshToken = tok.RefreshToken
	}
	if tok.RefreshExpiresIn > 0 {
		refreshExpiry := now.Add(time.Duration(tok.RefreshExpiresIn) * time.Second)
		rec.RefreshExpiresAt = &refreshExpiry
	}

	if err := s.tokenStore.Upsert(ctx, rec); err != nil {
		return "", fmt.Errorf("failed to save refreshed token: %w", err)
	}

	return rec.AccessToken, nil
}

// tokenRequest performs the actual request to the Intuit bearer endpoint
// using HTTP Basic client authentication.
func (s *Service) tokenRequest(ctx context.Context, data url.Values) (*bearerResponse, int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, "POST", s.config.TokenURL, strings.NewReader(data.Encode()))
	if err != nil {
		return nil, 0, nil, fmt.Errorf("failed to create token request: %w", err)
	}

	req.Header.Add("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Add("Accept", "application/json")
	req.SetBasicAuth(s.config.ClientID, s.config.ClientSecret)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, 0, nil, fmt.Errorf("token request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, nil, fmt.Errorf("failed to read token response: %w", err)
	}

	var tok bearerResponse
	if len(body) > 0 {
		// The error path may carry a non-JSON body; the raw bytes are kept
		// for the caller's message either way.
		_ = json.Unmarshal(body, &tok)
	}

	return &tok, resp.StatusCode, body, nil
}

func (s *Service) realmLock(realmID string) *sync.Mutex {
	mu, _ := s.realmLocks.LoadOrStore(realmID, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

func expiresIn(seconds int) time.Duration {
	if seconds <= 0 {
		seconds = 3600
	}
	return time.Duration(seconds) * time.Second
}
