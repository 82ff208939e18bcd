package middlewares

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"startup_journey/internal/responses"
	"startup_journey/internal/utils"
)

// Context keys set by Authenticate.
const (
	UserIDKey  = "userId"
	IsAdminKey = "isAdmin"
)

// Authenticate verifies the bearer access token issued by the identity
// provider and stores the user id and admin flag in the context.
func Authenticate(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			responses.Abort(c, http.StatusUnauthorized, "Missing Authorization header")
			return
		}

		// Expected format: "Bearer <token>"
		parts := strings.Fields(authHeader)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			responses.Abort(c, http.StatusUnauthorized, "Invalid Authorization format")
			return
		}

		claims, err := utils.VerifyJWT(parts[1], secret)
		if err != nil {
			responses.Abort(c, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		// Service-role keys carry no subject and act as uuid.Nil.
		userID := uuid.Nil
		if !claims.IsServiceRole() || claims.Subject != "" {
			userID, err = claims.UserID()
			if err != nil {
				responses.Abort(c, http.StatusUnauthorized, "Invalid token subject")
				return
			}
		}

		c.Set(UserIDKey, userID)
		c.Set(IsAdminKey, claims.IsAdmin())

		c.Next()
	}
}
