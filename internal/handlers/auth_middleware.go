package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/TMS-2025/proposal-service/internal/auth"
	"github.com/TMS-2025/proposal-service/internal/models"
	"github.com/TMS-2025/proposal-service/internal/services"
)

const claimsContextKey = "auth_claims"

// AuthMiddleware verifies bearer tokens and exposes the resulting claims to
// downstream handlers. It is pure claim inspection: no store lookup happens
// on the request path.
type AuthMiddleware struct {
	signer *auth.TokenSigner
}

func NewAuthMiddleware(signer *auth.TokenSigner) *AuthMiddleware {
	return &AuthMiddleware{signer: signer}
}

// Required rejects requests without a valid Authorization: Bearer token.
func (m *AuthMiddleware) Required() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Message: "Token em falta"})
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Message: "Token em falta"})
			return
		}

		claims, err := m.signer.Verify(parts[1])
		if err != nil {
			message := "Token inválido"
			if errors.Is(err, auth.ErrTokenExpired) {
				message = "Token expirado"
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Message: message})
			return
		}

		c.Set(claimsContextKey, claims)
		c.Next()
	}
}

// RequireKind gates a route to one principal kind. Admins of either kind do
// not bypass this: kind and role are independent axes.
func (m *AuthMiddleware) RequireKind(kind models.PrincipalKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := claimsFrom(c)
		if !ok || claims.Kind != kind {
			c.AbortWithStatusJSON(http.StatusForbidden, ErrorResponse{Message: "Sem permissões"})
			return
		}
		c.Next()
	}
}

// RequireRole gates a route to principals carrying the given role claim.
func (m *AuthMiddleware) RequireRole(role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := claimsFrom(c)
		if !ok || !claims.HasRole(role) {
			c.AbortWithStatusJSON(http.StatusForbidden, ErrorResponse{Message: "Sem permissões"})
			return
		}
		c.Next()
	}
}

func claimsFrom(c *gin.Context) (*auth.Claims, bool) {
	value, exists := c.Get(claimsContextKey)
	if !exists {
		return nil, false
	}
	claims, ok := value.(*auth.Claims)
	return claims, ok
}

// actorFrom builds the service layer actor from verified claims. It must only
// be called behind Required.
func actorFrom(c *gin.Context) (services.Actor, bool) {
	claims, ok := claimsFrom(c)
	if !ok {
		return services.Actor{}, false
	}
	return services.Actor{
		ID:    claims.Subject,
		Kind:  claims.Kind,
		Roles: claims.Roles,
	}, true
}
