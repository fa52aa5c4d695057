package routes

import (
	"planhub/controllers"

	"github.com/gin-gonic/gin"
)

// SetupReviewRoutes wires the paper review endpoints
func SetupReviewRoutes(router *gin.RouterGroup) {
	review := router.Group("/review")
	{
		review.POST("", controllers.CreateReview)
		review.GET("/active", controllers.GetActiveReview)
		review.GET("/export", controllers.ExportReview)
		review.GET("/history", controllers.ListReviewHistory)
		review.DELETE("/history/:id", controllers.DeleteReview)
		review.POST("/history/:id/activate", controllers.ActivateReview)
	}
}
