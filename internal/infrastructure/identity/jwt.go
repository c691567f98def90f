// Package identity adapts the external identity provider's session tokens
// into principals. Tokens are HS256 JWTs issued by the session engine; this
// adapter only validates and extracts, it never issues.
package identity

import (
	"context"

	"github.com/golang-jwt/jwt/v5"

	"github.com/wadesk/console-api/internal/core/domain"
)

// JWTResolver validates session tokens against a shared secret.
type JWTResolver struct {
	secret string
}

func NewJWTResolver(secret string) *JWTResolver {
	return &JWTResolver{secret: secret}
}

// Resolve validates token and builds the principal from its claims.
// Expected claims: sub (account id), role, email_verified. Every failure
// mode collapses to ErrUnauthenticated; callers never learn why a token
// was rejected.
func (r *JWTResolver) Resolve(_ context.Context, token string) (*domain.Principal, error) {
	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(r.secret), nil
	})
	if err != nil || !tkn.Valid {
		return nil, domain.ErrUnauthenticated
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		return nil, domain.ErrUnauthenticated
	}

	rawRole, _ := claims["role"].(string)
	role, ok := domain.ParseRole(rawRole)
	if !ok {
		return nil, domain.ErrUnauthenticated
	}

	verified, _ := claims["email_verified"].(bool)

	return &domain.Principal{
		ID:            sub,
		Role:          role,
		EmailVerified: verified,
	}, nil
}
