package routes

import (
	"voice-be/controllers"

	"github.com/gin-gonic/gin"
)

// AdminRoutes sets up the administrative routes. Every route requires a
// valid admin token and an active admin account.
func AdminRoutes(r *gin.Engine, admin *controllers.AdminController, authMiddleware, adminMiddleware gin.HandlerFunc) {
	group := r.Group("/api/admin", authMiddleware, adminMiddleware)
	{
		group.GET("/dashboard", admin.Dashboard)
		group.GET("/issues", admin.ListIssues)
		group.PATCH("/issues/:id/status", admin.UpdateStatus)
		group.DELETE("/issues/:id", admin.Delete)
		group.GET("/actions", admin.ListActions)
	}
}
