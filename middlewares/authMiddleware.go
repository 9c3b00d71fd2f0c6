package middlewares

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/dgrijalva/jwt-go"
	"github.com/gin-gonic/gin"
)

// Context keys set by the auth middleware.
const (
	CtxUserID    = "user_id"
	CtxRole      = "role"
	CtxAdminRole = "admin_role"
	CtxRegion    = "region"
	CtxAdmin     = "admin"
)

// AuthMiddleware verifies the bearer token and stores the caller's identity
// on the request context. Role defaults to "user" for tokens minted before
// the role claim existed.
func AuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.Request.Header.Get("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "code": "unauthenticated", "message": "No authorization token provided"})
			c.Abort()
			return
		}

		tokenString := authHeader
		if strings.HasPrefix(authHeader, "Bearer ") {
			tokenString = authHeader[7:]
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if token.Method != jwt.SigningMethodHS256 {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(jwtSecret), nil
		})
		if err != nil || !token.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "code": "unauthenticated", "message": "Token is invalid or expired"})
			c.Abort()
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "code": "unauthenticated", "message": "Invalid token claims"})
			c.Abort()
			return
		}

		userID, ok := claims["user_id"].(string)
		if !ok || userID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "code": "unauthenticated", "message": "Invalid token claims"})
			c.Abort()
			return
		}
		c.Set(CtxUserID, userID)

		role := "user"
		if r, ok := claims["role"].(string); ok && r != "" {
			role = r
		}
		c.Set(CtxRole, role)

		if adminRole, ok := claims["admin_role"].(string); ok {
			c.Set(CtxAdminRole, adminRole)
		}
		if region, ok := claims["region"].(string); ok {
			c.Set(CtxRegion, region)
		}

		c.Next()
	}
}
