// Package token signs and verifies the bearer tokens that address
// sessions. The token only proves possession, the session row in the
// database stays authoritative so that logout actually revokes access.
package token

import (
	"errors"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrTokenInvalid = errors.New("the token is invalid or expired")
)

// Claims carried by a session token.
type Claims struct {
	jwt.RegisteredClaims
	SessionID uuid.UUID `json:"sid"`
	UserID    uuid.UUID `json:"uid"`
}

// secret returns the signing secret. TOKEN_SECRET must be set in
// production, the fallback only exists for development setups.
func secret() []byte {
	if s, ok := os.LookupEnv("TOKEN_SECRET"); ok {
		return []byte(s)
	}

	return []byte("cpag-insecure-dev-secret")
}

// Sign creates a signed token for the session.
func Sign(sessionID, userID uuid.UUID, expiresAt time.Time) (string, error) {
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		SessionID: sessionID,
		UserID:    userID,
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret())
}

// Parse verifies the token signature and returns its claims.
func Parse(tokenString string) (Claims, error) {
	var claims Claims

	parsed, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return secret(), nil
	})
	if err != nil || !parsed.Valid {
		return Claims{}, ErrTokenInvalid
	}

	return claims, nil
}
