package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/velourstudio/studio-api/internal/utils"
)

// SessionCookie is the name of the session token cookie.
const SessionCookie = "studio_session"

// AuthMiddleware requires a valid session, read from the session cookie or
// a Bearer token. It puts the session identity into the request context.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := SessionClaims(c)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}

		c.Set("userID", claims.UserID)
		c.Set("userEmail", claims.Email)
		c.Set("userProvider", claims.Provider)

		c.Next()
	}
}

// SessionClaims extracts and validates the session token without aborting,
// for endpoints that shape their own unauthenticated response.
func SessionClaims(c *gin.Context) (*utils.Claims, error) {
	tokenString, err := c.Cookie(SessionCookie)
	if err != nil || tokenString == "" {
		authHeader := c.GetHeader("Authorization")
		tokenString = strings.TrimPrefix(authHeader, "Bearer ")
	}
	return utils.ValidateJWT(tokenString)
}
