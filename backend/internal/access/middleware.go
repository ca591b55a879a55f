package access

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	apperrors "trojsten-graph/backend/pkg/errors"
)

// TokenQueryParam is the query parameter carrying a verification token
const TokenQueryParam = "token"

const identityKey = "access.identity"

// Authenticate resolves the requester once and stores it on the context
func Authenticate(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(identityKey, auth.Authenticate(c.Request))
		c.Next()
	}
}

// CurrentIdentity returns the identity stored by Authenticate, or anonymous
func CurrentIdentity(c *gin.Context) Identity {
	if v, ok := c.Get(identityKey); ok {
		if id, ok := v.(Identity); ok {
			return id
		}
	}
	return Identity{}
}

// RequireLogin rejects anonymous requests
func RequireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !CurrentIdentity(c).Authenticated() {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "login required"})
			return
		}
		c.Next()
	}
}

// RequireStaff rejects requests from non-staff identities
func RequireStaff() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !CurrentIdentity(c).Staff {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "permission denied"})
			return
		}
		c.Next()
	}
}

// RequireStaffOrToken guards a route with the token gate
func (g *TokenGate) RequireStaffOrToken(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		err := g.Check(c.Request.Context(), CurrentIdentity(c), c.Query(TokenQueryParam), g.now())
		if err == nil {
			c.Next()
			return
		}
		if apperrors.IsErrorType(err, apperrors.ErrorTypeAccess) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "permission denied"})
			return
		}
		log.Error("Token gate lookup failed", zap.Error(err))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify access"})
	}
}
