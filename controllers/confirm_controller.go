package controllers

import (
	"errors"
	"net/http"

	"planhub/services"

	"github.com/gin-gonic/gin"
)

// GetPendingConfirmation returns the outstanding yes/no gate, if any
func GetPendingConfirmation(c *gin.Context) {
	pending, ok := services.Confirmations().Pending()
	if !ok {
		c.JSON(http.StatusOK, gin.H{"pending": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"pending": true, "confirmation": pending})
}

// ResolveConfirmation answers the outstanding confirmation. Closing the
// dialog without choosing maps to accepted=false on the client side.
func ResolveConfirmation(c *gin.Context) {
	var req struct {
		ID       string `json:"id" binding:"required"`
		Accepted bool   `json:"accepted"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	if err := services.Confirmations().Resolve(req.ID, req.Accepted); err != nil {
		if errors.Is(err, services.ErrNoPendingConfirmation) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve confirmation"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"resolved": true})
}
