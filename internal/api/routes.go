package api

import (
	"github.com/gin-gonic/gin"

	"flashquiz/internal/api/handlers"
)

// SetupRoutes wires the HTTP surface onto the router.
func SetupRoutes(router *gin.Engine, handler *handlers.Handler) {
	router.Use(CORSMiddleware())

	api := router.Group("/api")
	{
		api.POST("/auth", handler.HandleAuth)
		api.GET("/auth/status", handler.HandleAuthStatus)
		api.POST("/logout", handler.HandleLogout)

		api.POST("/user-data", handler.HandleUserData)
		api.POST("/generate-ai", handler.HandleGenerate)
		api.POST("/extract-text", handler.HandleExtractText)
	}
}
