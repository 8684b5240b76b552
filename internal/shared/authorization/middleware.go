package authorization

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/civicpulse/civicpulse/internal/shared/constants"
	"github.com/civicpulse/civicpulse/internal/shared/utils"
)

// RequireRole aborts with 403 unless the authenticated role is one of roles.
func RequireRole(roles ...UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		current := UserRole(c.GetString(constants.ContextKeyUserRole))
		for _, role := range roles {
			if current == role {
				c.Next()
				return
			}
		}
		utils.ErrorResponse(c, http.StatusForbidden, "insufficient role for this action")
		c.Abort()
	}
}

func RequireAdmin() gin.HandlerFunc {
	return RequireRole(RoleAdmin)
}
