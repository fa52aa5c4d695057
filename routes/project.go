package routes

import (
	"planhub/controllers"

	"github.com/gin-gonic/gin"
)

// SetupProjectRoutes wires the planning endpoints
func SetupProjectRoutes(router *gin.RouterGroup) {
	project := router.Group("/project")
	{
		project.GET("/state", controllers.GetProjectState)
		project.PUT("/sections/:id/answer", controllers.SetAnswer)
		project.POST("/sections/:id/options/:optionId/toggle", controllers.ToggleChecklistOption)
		project.POST("/sections/:id/feedback", controllers.MarkSectionReviewReady)
		project.POST("/sections/:id/chat", controllers.SendChatMessage)
		project.POST("/navigate", controllers.Navigate)
		project.PUT("/approach", controllers.SetApproach)
		project.POST("/reset", controllers.ResetProject)
		project.GET("/export", controllers.ExportProject)
		project.GET("/answers", controllers.ExportAnswers)
		project.POST("/import", controllers.ImportAnswers)
		project.GET("/preferences", controllers.GetPreferences)
		project.PUT("/preferences", controllers.UpdatePreferences)
	}
}
