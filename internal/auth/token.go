package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/TMS-2025/proposal-service/internal/models"
)

var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")
)

// Claims is the payload carried inside a session token. Once a token
// verifies, these claims are the sole input to authorization decisions; no
// store lookup happens per request.
type Claims struct {
	Kind  models.PrincipalKind `json:"type"`
	Roles []string             `json:"roles,omitempty"`
	jwt.RegisteredClaims
}

func (c *Claims) HasRole(role models.Role) bool {
	for _, r := range c.Roles {
		if r == string(role) {
			return true
		}
	}
	return false
}

// TokenSigner issues and validates HS256 session tokens. Construction fails
// without a secret; there is no unsigned fallback.
type TokenSigner struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenSigner(secret string, ttl time.Duration) (*TokenSigner, error) {
	if secret == "" {
		return nil, errors.New("jwt secret is required")
	}
	// Zero means "use the default". Negative TTLs are honored so callers can
	// mint already-expired tokens; config rejects non-positive values before
	// they reach here.
	if ttl == 0 {
		ttl = 24 * time.Hour
	}
	return &TokenSigner{secret: []byte(secret), ttl: ttl}, nil
}

// Sign creates a signed token for a principal. Roles are only meaningful for
// docentes; aluno tokens carry none.
func (s *TokenSigner) Sign(subject string, kind models.PrincipalKind, roles []string) (string, error) {
	now := time.Now().UTC()
	claims := Claims{
		Kind:  kind,
		Roles: roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Verify parses and validates a token, distinguishing expiry from every
// other failure mode.
func (s *TokenSigner) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

func (s *TokenSigner) TTL() time.Duration {
	return s.ttl
}
