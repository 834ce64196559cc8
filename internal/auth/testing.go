package auth

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// ContextWithPrincipal adds a principal to the context for testing purposes.
// This is exported to allow other packages to create test contexts.
func ContextWithPrincipal(ctx context.Context, principal *Principal) context.Context {
	return context.WithValue(ctx, principalKey, principal)
}

// TestToken mints a signed HS256 token accepted by a Verifier using cfg.
// Test helper only; production tokens come from the identity provider.
func TestToken(cfg Config, sub string, roles []string) (string, error) {
	claims := jwt.MapClaims{
		"iss":   cfg.Issuer,
		"sub":   sub,
		"exp":   time.Now().Add(time.Hour).Unix(),
		"roles": roles,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.Secret))
}
