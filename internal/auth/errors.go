// auth/errors.go
package auth

import "errors"

// Sentinel errors for the token lifecycle. Handlers map these onto wire
// error codes; callers test them with errors.Is.
var (
	// ErrNoRecord means no token row exists for the realm.
	ErrNoRecord = errors.New("no token record for realm")

	// ErrReconnectRequired means the stored refresh credential is absent,
	// expired, or revoked and the user must restart the handshake at /connect.
	ErrReconnectRequired = errors.New("reconnect required")

	// ErrTokenRefreshFailed covers every other refresh failure.
	ErrTokenRefreshFailed = errors.New("token refresh failed")

	// ErrTokenExchangeFailed means the authorization-code exchange was
	// rejected by the provider.
	ErrTokenExchangeFailed = errors.New("token exchange failed")

	// ErrMissingTokens means a 2xx token response lacked the expected tokens.
	ErrMissingTokens = errors.New("missing tokens in response")
)
