package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RequireHotel rejects accounts that are not bound to a hotel.
// Must be used after AuthMiddleware.
func RequireHotel() gin.HandlerFunc {
	return func(c *gin.Context) {
		userCtx, exists := GetUserContext(c)
		if !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "unauthorized",
				"message": "User context not found",
				"code":    "MISSING_USER_CONTEXT",
			})
			return
		}

		if userCtx.HotelID == nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error":   "no_hotel",
				"message": "Your account is not linked to a hotel",
				"code":    "NO_HOTEL",
			})
			return
		}

		c.Next()
	}
}
