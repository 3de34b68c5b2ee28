package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"tradeflow/trade-portal/trade-portal-backend/internal/workflow"
)

// Context keys set by Middleware
const (
	ContextActor = "auth.actor"
	ContextRole  = "auth.role"
)

// Middleware validates the bearer token and exposes the caller's
// identity to downstream handlers
func Middleware(tokens *TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authorization := c.GetHeader("Authorization")
		if authorization == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authorization"})
			return
		}
		parts := strings.SplitN(authorization, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization"})
			return
		}

		claims, err := tokens.Validate(strings.TrimSpace(parts[1]))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set(ContextActor, claims.Email)
		c.Set(ContextRole, workflow.Role(claims.Role))
		c.Next()
	}
}

// ActorFrom returns the authenticated caller's identity, when present
func ActorFrom(c *gin.Context) (string, workflow.Role, bool) {
	actor, ok := c.Get(ContextActor)
	if !ok {
		return "", "", false
	}
	role, ok := c.Get(ContextRole)
	if !ok {
		return "", "", false
	}
	return actor.(string), role.(workflow.Role), true
}
