package authUtils

import (
	"time"

	"github.com/dgrijalva/jwt-go"
)

// GenerateUserToken mints the bearer token for a citizen account.
func GenerateUserToken(secret, userID string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"role":    "user",
		"exp":     time.Now().Add(time.Hour * 72).Unix(),
	})
	return token.SignedString([]byte(secret))
}

// GenerateAdminToken mints the bearer token for an admin account, carrying
// the admin role and region so the authorization layer can scope queries
// without a lookup on every request.
func GenerateAdminToken(secret, adminID, adminRole, region string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":    adminID,
		"role":       "admin",
		"admin_role": adminRole,
		"region":     region,
		"exp":        time.Now().Add(time.Hour * 72).Unix(),
	})
	return token.SignedString([]byte(secret))
}
