package raiaccept

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenInfo holds the registered claims of an access or ID token.
type TokenInfo struct {
	Subject   string
	Issuer    string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Expired reports whether the token expires at or before now. Tokens
// without an exp claim never expire.
func (t *TokenInfo) Expired(now time.Time) bool {
	return !t.ExpiresAt.IsZero() && !now.Before(t.ExpiresAt)
}

// InspectToken reads the claims of a token issued by the gateway without
// verifying its signature. The result is advisory; the gateway remains the
// authority on whether a token is accepted.
func InspectToken(tokenString string) (*TokenInfo, error) {
	if tokenString == "" {
		return nil, missing("token", "InspectToken")
	}

	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, &claims); err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	info := &TokenInfo{
		Subject: claims.Subject,
		Issuer:  claims.Issuer,
	}
	if claims.IssuedAt != nil {
		info.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		info.ExpiresAt = claims.ExpiresAt.Time
	}
	return info, nil
}
