package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bookmyhall/banquet-booking-backend/internal/auth"
	"github.com/bookmyhall/banquet-booking-backend/internal/user"
)

// LoadActor resolves the authenticated user from the directory and stores
// their role in the request context. It MUST be used after auth.AuthRequired.
// Roles are read from the directory rather than trusted from the token, so a
// role change takes effect without waiting for the token to expire.
func LoadActor(userService user.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := auth.GetUserID(c)
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		u, err := userService.GetByID(c.Request.Context(), userID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		c.Set("userRole", string(u.Role))
		c.Next()
	}
}

// RequireAdmin keeps customers off admin surfaces. It MUST be used after
// LoadActor. Which admin tier may perform which workflow action is enforced
// in the booking service, not here.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		role := user.Role(auth.GetUserRole(c))
		if !role.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden: admin access required"})
			return
		}
		c.Next()
	}
}
