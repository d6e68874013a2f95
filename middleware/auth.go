package middleware

import (
	"net/http"
	"strings"

	"github.com/microblog-hq/api-go/repository"
	"github.com/microblog-hq/api-go/utils"

	"github.com/dgrijalva/jwt-go"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AuthMiddleware validates the Bearer access token, stores the claims on the
// request context and touches the account's last-activity timestamp.
func AuthMiddleware(db *gorm.DB, secret string) gin.HandlerFunc {
	users := repository.NewUserRepository(db)

	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
			c.Abort()
			return
		}

		bearerToken := strings.Split(authHeader, " ")
		if len(bearerToken) != 2 {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token format"})
			c.Abort()
			return
		}

		token := bearerToken[1]
		claims := jwt.MapClaims{}
		parsedToken, err := jwt.ParseWithClaims(token, claims, func(token *jwt.Token) (interface{}, error) {
			return []byte(secret), nil
		})

		if err != nil || !parsedToken.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			c.Abort()
			return
		}

		rawID, ok := claims["user_id"].(float64)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token claims"})
			c.Abort()
			return
		}
		userID := uint(rawID)

		// Last-activity touch on every authenticated request.
		_ = users.TouchLastSeen(c.Request.Context(), userID)

		c.Set(string(utils.UserContextKey), &utils.UserClaims{UserID: userID})

		c.Next()
	}
}
