// internal/interfaces/http/middleware/auth.go
package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/gurukul-storefront/internal/domain/session"
)

// IdentityKey is the gin context key holding the *session.Identity
const IdentityKey = "identity"

// SessionReader exposes the current session
type SessionReader interface {
	Identity(ctx context.Context) (*session.Identity, bool)
}

// RequireSession rejects requests made while logged out
func RequireSession(sessions SessionReader) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := sessions.Identity(c.Request.Context())
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Please login to continue",
			})
			c.Abort()
			return
		}

		c.Set(IdentityKey, identity)
		c.Next()
	}
}

// RequireAdmin ensures the session has the admin role. It must run after
// RequireSession.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := GetIdentity(c)
		if !ok || !identity.IsAdmin() {
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Admin access required",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// GetIdentity returns the identity stored by RequireSession
func GetIdentity(c *gin.Context) (*session.Identity, bool) {
	v, exists := c.Get(IdentityKey)
	if !exists {
		return nil, false
	}
	identity, ok := v.(*session.Identity)
	return identity, ok
}
