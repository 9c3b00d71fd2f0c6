package routes

import (
	"voice-be/controllers"

	"github.com/gin-gonic/gin"
)

// AuthRoutes sets up the authentication routes
func AuthRoutes(r *gin.Engine, auth *controllers.AuthController, authMiddleware gin.HandlerFunc) {
	group := r.Group("/api/auth")
	{
		group.POST("/register", auth.Register)
		group.POST("/login", auth.Login)
		group.GET("/me", authMiddleware, auth.Me)
		group.POST("/admin/login", auth.AdminLogin)
	}
}
