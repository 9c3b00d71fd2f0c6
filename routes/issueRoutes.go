package routes

import (
	"voice-be/controllers"

	"github.com/gin-gonic/gin"
)

// IssueRoutes sets up the citizen issue routes
func IssueRoutes(r *gin.Engine, issues *controllers.IssueController, authMiddleware, rateLimiter gin.HandlerFunc) {
	group := r.Group("/api/issues")
	{
		group.GET("", issues.List)
		group.GET("/analytics", issues.Analytics)
		group.GET("/:id", issues.Get)
		group.POST("", authMiddleware, rateLimiter, issues.Create)
		group.POST("/:id/upvote", authMiddleware, issues.Upvote)
		group.POST("/:id/remove-upvote", authMiddleware, issues.RemoveUpvote)
	}
}
