// README: Bearer-token auth middleware; attaches the verified principal to the request context.
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"guardian/internal/infra"
	"guardian/internal/types"
)

const principalKey = "guardian.principal"

// Auth rejects requests without a valid bearer token and stores the verified
// principal for handlers.
func Auth(verifier infra.TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authorization header"})
			return
		}
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "malformed authorization header"})
			return
		}
		p, err := verifier.Verify(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		c.Set(principalKey, p)
		c.Next()
	}
}

// CallerID returns the authenticated user's id, or "" when the auth
// middleware did not run.
func CallerID(c *gin.Context) types.ID {
	v, ok := c.Get(principalKey)
	if !ok {
		return ""
	}
	p, ok := v.(*infra.Principal)
	if !ok {
		return ""
	}
	return p.UserID
}
