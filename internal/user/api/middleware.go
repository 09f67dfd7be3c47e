package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/ridloal/supermarket-management/internal/user/domain"
	"github.com/ridloal/supermarket-management/internal/user/service"
)

const userContextKey = "user"

// RequireAuth accepts "Authorization: Bearer <token>" matching the active session.
func RequireAuth(as service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   "No bearer token provided",
			})
			return
		}

		user, err := as.ValidateToken(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   "Invalid or expired session",
			})
			return
		}

		c.Set(userContextKey, user)
		c.Next()
	}
}

// RequireRole must run after RequireAuth. Admins pass every role check.
func RequireRole(roles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   "No role information found",
			})
			return
		}

		allowed := user.Role == domain.RoleAdmin
		for _, role := range roles {
			if user.Role == role {
				allowed = true
				break
			}
		}
		if !allowed {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"success": false,
				"error":   "Insufficient permissions",
			})
			return
		}

		c.Next()
	}
}

// CurrentUser returns the user RequireAuth attached to the request.
func CurrentUser(c *gin.Context) (*domain.User, bool) {
	v, exists := c.Get(userContextKey)
	if !exists {
		return nil, false
	}
	user, ok := v.(*domain.User)
	return user, ok && user != nil
}
