package security

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrTokenInvalid = errors.New("token is invalid")
)

// TokenInspector reads claims out of a bearer token without verifying its
// signature. The client never holds the server's signing key; verification
// happens server-side on every call. Local inspection only decides whether
// a stored session is worth presenting at all.
type TokenInspector struct{}

// NewTokenInspector creates a new token inspector.
func NewTokenInspector() *TokenInspector {
	return &TokenInspector{}
}

// ExpiresAt returns the token's expiry claim. The zero time means the token
// carries no expiry and should be treated as valid until rejected.
func (s *TokenInspector) ExpiresAt(tokenString string) (time.Time, error) {
	if tokenString == "" {
		return time.Time{}, ErrTokenInvalid
	}

	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(tokenString, claims); err != nil {
		return time.Time{}, ErrTokenInvalid
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, nil
	}
	return exp.Time, nil
}

// Expired reports whether the token's expiry claim has passed. A token
// that does not parse as a JWT is opaque to the client and is presented
// as-is; only the server can reject it.
func (s *TokenInspector) Expired(tokenString string) bool {
	exp, err := s.ExpiresAt(tokenString)
	if err != nil || exp.IsZero() {
		return false
	}
	return exp.Before(time.Now())
}
