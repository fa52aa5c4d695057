package controllers

import (
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"planhub/models"
	"planhub/services"
	"planhub/utils"

	"github.com/gin-gonic/gin"
)

// maxUploadBytes caps uploaded documents at 20 MB
const maxUploadBytes = 20 << 20

var acceptedExtensions = map[string]bool{
	".pdf":  true,
	".doc":  true,
	".docx": true,
}

// reviewErrorStatus maps pipeline errors to HTTP status codes
func reviewErrorStatus(err error) int {
	switch {
	case errors.Is(err, services.ErrUnsupportedFormat),
		errors.Is(err, services.ErrEmptyDocument):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrExtractionFailure):
		return http.StatusUnprocessableEntity
	case errors.Is(err, services.ErrReviewBusy):
		return http.StatusConflict
	case errors.Is(err, services.ErrGenerationTimeout):
		return http.StatusGatewayTimeout
	case errors.Is(err, services.ErrGenerationFailure), errors.Is(err, services.ErrEmptyCompletion):
		return http.StatusBadGateway
	case errors.Is(err, services.ErrReviewNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// CreateReview accepts an uploaded paper and runs the critique pipeline.
// Rejects extensions outside pdf/doc/docx before extraction is attempted.
func CreateReview(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A file upload named 'file' is required"})
		return
	}
	if fileHeader.Size > maxUploadBytes {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File exceeds the 20 MB upload limit"})
		return
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if !acceptedExtensions[ext] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Only .pdf, .doc and .docx uploads are accepted"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to open uploaded file"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read uploaded file"})
		return
	}

	record, err := services.Review().ReviewDocument(c.Request.Context(), fileHeader.Filename, data)
	if err != nil {
		c.JSON(reviewErrorStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, record)
}

// GetActiveReview returns the review currently on display
func GetActiveReview(c *gin.Context) {
	record, ok := services.Review().ActiveReview()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "No active review"})
		return
	}
	c.JSON(http.StatusOK, record)
}

// ListReviewHistory returns the persisted reviews, newest first
func ListReviewHistory(c *gin.Context) {
	reviews := services.Review().ListReviews()
	if reviews == nil {
		reviews = []models.ReviewRecord{}
	}
	c.JSON(http.StatusOK, gin.H{"reviews": reviews})
}

// DeleteReview removes one past review; deleting an absent id succeeds
func DeleteReview(c *gin.Context) {
	services.Review().DeleteReview(c.Param("id"))
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

// ActivateReview makes a past review the active one again
func ActivateReview(c *gin.Context) {
	record, err := services.Review().ActivatePastReview(c.Param("id"))
	if err != nil {
		c.JSON(reviewErrorStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, record)
}

// ExportReview returns the active review as a plain-text download named
// {paperName}-review-{yyyy-mm-dd}.txt
func ExportReview(c *gin.Context) {
	record, ok := services.Review().ActiveReview()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "No active review"})
		return
	}

	when := time.Now().UTC()
	if ts, err := time.Parse(time.RFC3339, record.Timestamp); err == nil {
		when = ts
	}
	filename := utils.ReviewFileName(record.PaperName, when)

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(record.ReviewText))
}
