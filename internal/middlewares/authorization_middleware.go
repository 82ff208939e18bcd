package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"startup_journey/internal/responses"
)

// RequireAdmin checks if the authenticated user is an admin.
// This middleware should be used after Authenticate.
func RequireAdmin(c *gin.Context) {
	if _, exists := c.Get(UserIDKey); !exists {
		responses.Abort(c, http.StatusUnauthorized, "Unauthorized")
		return
	}
	if !c.GetBool(IsAdminKey) {
		responses.Abort(c, http.StatusForbidden, "Access denied. Admin privileges required.")
		return
	}
	c.Next()
}
