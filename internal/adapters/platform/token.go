package platform

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// HasuraClaimsKey is the namespace the platform stores its claims under.
const HasuraClaimsKey = "https://hasura.io/jwt/claims"

// HasuraUserIDKey is the user id entry inside the Hasura claims.
const HasuraUserIDKey = "x-hasura-user-id"

// TokenInfo is what the service needs to know about a bearer token.
type TokenInfo struct {
	UserID    string    `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at,omitempty"`
}

// Session is the outcome of a successful sign-in.
type Session struct {
	Token string `json:"token"`
	TokenInfo
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) (string, error) {
	const prefix = "bearer "
	h := strings.TrimSpace(header)
	if h == "" {
		return "", ErrMissingToken
	}
	if len(h) <= len(prefix) || !strings.EqualFold(h[:len(prefix)], prefix) {
		return "", fmt.Errorf("%w: authorization header must use the Bearer scheme", ErrInvalidToken)
	}
	return strings.TrimSpace(h[len(prefix):]), nil
}

// ParseToken reads the user id and expiry from raw without checking the
// signature; only the platform holds the signing key. A token whose expiry
// is not after now yields ErrTokenExpired.
func ParseToken(raw string, now time.Time) (TokenInfo, error) {
	if strings.TrimSpace(raw) == "" {
		return TokenInfo{}, ErrMissingToken
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return TokenInfo{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	var info TokenInfo
	exp, err := claims.GetExpirationTime()
	if err != nil {
		return TokenInfo{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if exp != nil {
		info.ExpiresAt = exp.UTC()
		if !now.Before(exp.Time) {
			return info, ErrTokenExpired
		}
	}

	if h, ok := claims[HasuraClaimsKey].(map[string]any); ok {
		if id, ok := h[HasuraUserIDKey].(string); ok {
			info.UserID = id
		}
	}
	if info.UserID == "" {
		if sub, err := claims.GetSubject(); err == nil {
			info.UserID = sub
		}
	}
	return info, nil
}
