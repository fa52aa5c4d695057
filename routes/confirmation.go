package routes

import (
	"planhub/controllers"

	"github.com/gin-gonic/gin"
)

// SetupConfirmationRoutes wires the yes/no gate endpoints
func SetupConfirmationRoutes(router *gin.RouterGroup) {
	confirmation := router.Group("/confirmation")
	{
		confirmation.GET("/pending", controllers.GetPendingConfirmation)
		confirmation.POST("/resolve", controllers.ResolveConfirmation)
	}
}
