package middlewares

import (
	"errors"
	"net/http"

	"voice-be/services"

	"github.com/gin-gonic/gin"
)

// AdminMiddleware requires an admin-role token, loads the acting admin's
// account, and rejects inactive or missing accounts. The resolved admin is
// stored on the context for the handlers. Runs after AuthMiddleware.
func AdminMiddleware(adminService *services.AdminService) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, _ := c.Get(CtxRole)
		if role != "admin" {
			c.JSON(http.StatusForbidden, gin.H{"success": false, "code": "permission_denied", "message": "Admin access required"})
			c.Abort()
			return
		}

		userID, _ := c.Get(CtxUserID)
		admin, err := adminService.ResolveAdmin(c.Request.Context(), userID.(string))
		if err != nil {
			switch {
			case errors.Is(err, services.ErrAdminNotFound), errors.Is(err, services.ErrInvalidID):
				c.JSON(http.StatusForbidden, gin.H{"success": false, "code": "permission_denied", "message": "Admin account not found"})
			case errors.Is(err, services.ErrAdminInactive):
				c.JSON(http.StatusForbidden, gin.H{"success": false, "code": "admin_inactive", "message": "Admin account is inactive"})
			default:
				c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "code": "storage_unavailable", "message": "Error verifying admin access"})
			}
			c.Abort()
			return
		}

		c.Set(CtxAdmin, admin)
		c.Next()
	}
}
