package middleware

import (
	"net/http"

	"github.com/franciscosanchezn/gin-recipe-api/internal/models"
	"github.com/gin-gonic/gin"
)

// RequireStaff is a middleware that only lets staff users through.
// It must run after TokenAuth.
func RequireStaff() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, exists := CurrentUser(c)
		if !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				models.NewAPIError(models.ErrUnauthorized, "Authentication credentials were not provided."))
			return
		}

		if !user.IsStaff {
			c.AbortWithStatusJSON(http.StatusForbidden,
				models.NewAPIError(models.ErrForbidden, "You do not have permission to perform this action."))
			return
		}

		c.Next()
	}
}
