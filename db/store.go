package db

import "planhub/models"

// Durable storage keys. Each key is written independently so features
// sharing the store never clobber each other's state.
const (
	KeyProjectState = "projectState"
	KeyPaperReviews = "paperReviews"
	KeyPreferences  = "preferences"
)

// Store is the durable key-value layer shared by the progression engine,
// the review history and the preference flags. Implementations must treat
// an unreadable persisted value as empty rather than failing: losing a key
// must never stop the user from working.
type Store interface {
	LoadProject() (models.ProjectState, error)
	SaveProject(state models.ProjectState) error

	LoadReviews() ([]models.ReviewRecord, error)
	SaveReviews(reviews []models.ReviewRecord) error

	LoadPreferences() (models.Preferences, error)
	SavePreferences(prefs models.Preferences) error
}
