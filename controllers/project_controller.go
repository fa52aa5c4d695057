package controllers

import (
	"errors"
	"io"
	"log"
	"net/http"

	"planhub/models"
	"planhub/services"
	"planhub/utils"

	"github.com/gin-gonic/gin"
)

// sectionErrorStatus maps progression engine errors to HTTP status codes
func sectionErrorStatus(err error) int {
	switch {
	case errors.Is(err, services.ErrUnknownSection):
		return http.StatusNotFound
	case errors.Is(err, services.ErrSectionLocked),
		errors.Is(err, services.ErrSectionIncomplete),
		errors.Is(err, services.ErrFeedbackNotRequired),
		errors.Is(err, services.ErrAnswerKindMismatch):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrSectionBusy):
		return http.StatusConflict
	case errors.Is(err, services.ErrGenerationTimeout):
		return http.StatusGatewayTimeout
	case errors.Is(err, services.ErrGenerationFailure), errors.Is(err, services.ErrEmptyCompletion):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// GetProjectState returns the catalog specs together with the derived
// per-section status
func GetProjectState(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"catalog":        services.Catalog(),
		"sections":       services.Progress().Snapshot(),
		"currentSection": services.Progress().CurrentSection(),
		"approach":       services.Progress().Approach(),
	})
}

// SetAnswer replaces a section's stored answer
func SetAnswer(c *gin.Context) {
	var req struct {
		Answer models.Answer `json:"answer"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload: " + err.Error()})
		return
	}

	sectionID := c.Param("id")
	if err := services.Progress().SetAnswer(sectionID, req.Answer); err != nil {
		c.JSON(sectionErrorStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"sectionId": sectionID,
		"complete":  services.Progress().IsSectionComplete(sectionID),
	})
}

// ToggleChecklistOption flips one option of a checklist section
func ToggleChecklistOption(c *gin.Context) {
	sectionID := c.Param("id")
	optionID := c.Param("optionId")

	if err := services.Progress().ToggleChecklistOption(sectionID, optionID); err != nil {
		c.JSON(sectionErrorStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"sectionId": sectionID,
		"complete":  services.Progress().IsSectionComplete(sectionID),
	})
}

// Navigate moves the current-section pointer: advance, retreat, or a
// direct jump to a named section
func Navigate(c *gin.Context) {
	var req struct {
		Direction string `json:"direction"` // "advance", "retreat" or "goto"
		SectionID string `json:"sectionId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	switch req.Direction {
	case "advance":
		c.JSON(http.StatusOK, gin.H{"currentSection": services.Progress().Advance()})
	case "retreat":
		c.JSON(http.StatusOK, gin.H{"currentSection": services.Progress().Retreat()})
	case "goto":
		if err := services.Progress().GoTo(req.SectionID); err != nil {
			c.JSON(sectionErrorStatus(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"currentSection": services.Progress().CurrentSection()})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "direction must be advance, retreat or goto"})
	}
}

// MarkSectionReviewReady requests AI feedback for a completed section and
// returns the appended assistant message
func MarkSectionReviewReady(c *gin.Context) {
	sectionID := c.Param("id")
	reply, err := services.Progress().MarkSectionReviewReady(c.Request.Context(), sectionID)
	if err != nil {
		c.JSON(sectionErrorStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"sectionId": sectionID, "message": reply})
}

// SendChatMessage appends a user message to a section thread and returns
// the assistant reply
func SendChatMessage(c *gin.Context) {
	var req struct {
		Message string `json:"message" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	sectionID := c.Param("id")
	reply, err := services.Progress().SendChatMessage(c.Request.Context(), sectionID, req.Message)
	if err != nil {
		c.JSON(sectionErrorStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"sectionId": sectionID,
		"message":   reply,
		"thread":    services.Progress().Thread(sectionID),
	})
}

// SetApproach selects the research approach
func SetApproach(c *gin.Context) {
	var req struct {
		Approach string `json:"approach"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}
	services.Progress().SetApproach(req.Approach)
	c.JSON(http.StatusOK, gin.H{"approach": req.Approach})
}

// ResetProject clears all planning work after a confirmation round trip.
// The handler suspends until the confirmation is resolved.
func ResetProject(c *gin.Context) {
	accepted, err := services.Confirmations().Request(c.Request.Context(),
		"Reset all project work? Answers and section chats will be deleted.")
	if err != nil {
		if errors.Is(err, services.ErrConfirmationBusy) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Confirmation failed"})
		return
	}
	if !accepted {
		c.JSON(http.StatusOK, gin.H{"reset": false})
		return
	}

	services.Progress().Reset()
	log.Println("Project state reset")
	c.JSON(http.StatusOK, gin.H{"reset": true})
}

// ExportProject returns the assembled plan document as a download.
// format=html renders the Markdown via goldmark.
func ExportProject(c *gin.Context) {
	state := services.Progress().State()
	doc := utils.BuildProjectDocument(services.Catalog(), state)
	filename := utils.ProjectFileName(state.Approach)

	if c.Query("format") == "html" {
		html, err := utils.MarkdownToHTML(doc)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to render document"})
			return
		}
		c.Header("Content-Disposition", `attachment; filename="`+filename+`.html"`)
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "text/markdown; charset=utf-8", []byte(doc))
}

// ExportAnswers returns the answers map in the import JSON shape
func ExportAnswers(c *gin.Context) {
	data, err := utils.AnswersJSON(services.Progress().State().Answers)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to serialize answers"})
		return
	}
	c.Header("Content-Disposition", `attachment; filename="research-plan-answers.json"`)
	c.Data(http.StatusOK, "application/json", data)
}

// ImportAnswers loads a previously exported answers document. When the
// workspace already holds work, the overwrite is confirmation-gated and
// the handler suspends until the user decides.
func ImportAnswers(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, 1<<20))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read request body"})
		return
	}
	answers, err := utils.ParseAnswersJSON(body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if services.Progress().HasWork() {
		accepted, err := services.Confirmations().Request(c.Request.Context(),
			"Replace current work with the imported project?")
		if err != nil {
			if errors.Is(err, services.ErrConfirmationBusy) {
				c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Confirmation failed"})
			return
		}
		if !accepted {
			c.JSON(http.StatusOK, gin.H{"imported": false})
			return
		}
	}

	if err := services.Progress().ImportAnswers(answers); err != nil {
		c.JSON(sectionErrorStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"imported": true})
}

// GetPreferences returns the persisted UI preference flags
func GetPreferences(c *gin.Context) {
	c.JSON(http.StatusOK, services.LoadPreferences())
}

// UpdatePreferences replaces the persisted UI preference flags
func UpdatePreferences(c *gin.Context) {
	var prefs models.Preferences
	if err := c.ShouldBindJSON(&prefs); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}
	if err := services.SavePreferences(prefs); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save preferences"})
		return
	}
	c.JSON(http.StatusOK, prefs)
}
