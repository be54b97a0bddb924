package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/yamakawa-dev/multitenant-todo-api/internal/constants"
	"github.com/yamakawa-dev/multitenant-todo-api/internal/identity"
	"github.com/yamakawa-dev/multitenant-todo-api/internal/response"
)

// RequireAuth resolves the request's principal via the identity provider and
// aborts with 401 when no valid credential is present.
func RequireAuth(provider identity.Provider) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, err := provider.CurrentUser(c.Request)
		if err != nil {
			response.Unauthorized(c, "Authentication required")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyPrincipal, *principal)
		c.Next()
	}
}

// GetPrincipal returns the authenticated principal stored by RequireAuth.
func GetPrincipal(c *gin.Context) (identity.Principal, bool) {
	value, exists := c.Get(constants.ContextKeyPrincipal)
	if !exists {
		return identity.Principal{}, false
	}
	principal, ok := value.(identity.Principal)
	return principal, ok
}
