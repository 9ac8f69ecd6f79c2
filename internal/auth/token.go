// Package auth verifies bearer tokens issued by an external identity service.
package auth

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"senstosales/internal/config"
	"senstosales/internal/domain"
)

// Claims are the token claims the ledger cares about. Subject becomes the
// owner tag stored on the documents a caller creates.
type Claims struct {
	jwt.RegisteredClaims
	Name string `json:"name,omitempty"`
}

// TokenVerifier validates a raw bearer token.
type TokenVerifier interface {
	Verify(tokenString string) (*Claims, error)
}

type hmacVerifier struct {
	secret []byte
	issuer string
}

// NewVerifier returns an HS256 verifier, or nil when no secret is configured.
func NewVerifier(cfg config.JWTConfig) TokenVerifier {
	if cfg.Secret == "" {
		return nil
	}
	return &hmacVerifier{secret: []byte(cfg.Secret), issuer: cfg.Issuer}
}

func (v *hmacVerifier) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.secret, nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("parsing token: %w", err)
	}
	if !token.Valid {
		return nil, domain.Forbidden("invalid token")
	}
	if claims.Subject == "" {
		return nil, domain.Forbidden("token has no subject")
	}
	return claims, nil
}
