package middleware

import (
	"fmt"
	"time"

	"github.com/SscSPs/installment_ledger_app/internal/core/domain"
	"github.com/golang-jwt/jwt/v5"
)

// IssueToken signs an HS256 bearer token that AuthMiddleware accepts for actor.
// It is used for local tooling and tests; production tokens come from the
// identity provider.
func IssueToken(actor domain.Actor, secret string, issuer string, ttl time.Duration, now time.Time) (string, error) {
	if actor.UserID == "" {
		return "", fmt.Errorf("token subject is required")
	}
	claims := Claims{
		Role: string(actor.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   actor.UserID,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}
