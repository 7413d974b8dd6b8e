// Package token mints and verifies the signed session tokens handed to
// clients after login.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

// Claims carries the registered claims plus the opaque user id, serialized
// as "id" to match what clients already store.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"id"`
}

// Generate signs an HS256 token for userID expiring ttl from now.
func Generate(userID string, secret []byte, ttl time.Duration) (string, error) {
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
		UserID: userID,
	})
	return tok.SignedString(secret)
}

// Parse verifies signature and expiry and returns the user id claim.
// Malformed, tampered and expired tokens all yield ErrInvalidToken so the
// caller cannot leak which check failed.
func Parse(raw string, secret []byte) (string, error) {
	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !tok.Valid || claims.UserID == "" {
		return "", ErrInvalidToken
	}
	return claims.UserID, nil
}
