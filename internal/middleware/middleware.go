package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/franciscosanchezn/gin-recipe-api/internal/auth"
	"github.com/franciscosanchezn/gin-recipe-api/internal/models"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// Context keys set by TokenAuth
const (
	userKey   = "user"
	userIDKey = "userID"
	tokenKey  = "token"
)

// TokenAuth resolves the Authorization header to an active user.
// Both "Token <key>" and "Bearer <key>" schemes are accepted.
func TokenAuth(tokens auth.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := extractToken(c.GetHeader("Authorization"))
		if !ok {
			abortUnauthorized(c, "Authentication credentials were not provided.")
			return
		}

		user, err := tokens.Authenticate(c.Request.Context(), token)
		if err != nil {
			switch {
			case errors.Is(err, auth.ErrInactiveUser):
				abortUnauthorized(c, "User inactive or deleted.")
			case errors.Is(err, auth.ErrInvalidToken):
				abortUnauthorized(c, "Invalid token.")
			default:
				log.WithError(err).Error("Token authentication failed")
				c.AbortWithStatusJSON(http.StatusInternalServerError,
					models.NewAPIError(models.ErrInternalServer, "Internal server error"))
			}
			return
		}

		c.Set(userKey, user)
		c.Set(userIDKey, user.ID)
		c.Set(tokenKey, token)
		c.Next()
	}
}

// extractToken parses the scheme and key of an Authorization header
func extractToken(header string) (string, bool) {
	scheme, key, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found {
		return "", false
	}
	if !strings.EqualFold(scheme, "Token") && !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	key = strings.TrimSpace(key)
	if key == "" || strings.Contains(key, " ") {
		return "", false
	}
	return key, true
}

func abortUnauthorized(c *gin.Context, message string) {
	c.Header("WWW-Authenticate", "Token")
	c.AbortWithStatusJSON(http.StatusUnauthorized, models.NewAPIError(models.ErrUnauthorized, message))
}

// CurrentUser returns the user authenticated by TokenAuth
func CurrentUser(c *gin.Context) (*models.User, bool) {
	value, exists := c.Get(userKey)
	if !exists {
		return nil, false
	}
	user, ok := value.(*models.User)
	return user, ok
}

// GetUserID returns the ID of the user authenticated by TokenAuth
func GetUserID(c *gin.Context) (uint, bool) {
	value, exists := c.Get(userIDKey)
	if !exists {
		return 0, false
	}
	id, ok := value.(uint)
	return id, ok
}

// GetToken returns the token the request was authenticated with
func GetToken(c *gin.Context) string {
	return c.GetString(tokenKey)
}
