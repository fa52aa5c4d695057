package services

import (
	"log"

	"planhub/db"
	"planhub/models"
)

var (
	progressService     *ProgressService
	reviewService       *ReviewService
	confirmationService *ConfirmationService
	workspaceStore      db.Store
)

// InitServices wires the stateful services to the durable store and the
// push notifier. Called once from main after the store is ready.
func InitServices(store db.Store, notifier Notifier, historyLimit int) {
	workspaceStore = store
	progressService = NewProgressService(store, notifier)
	reviewService = NewReviewService(store, notifier, historyLimit)
	confirmationService = NewConfirmationService()
}

func Progress() *ProgressService          { return progressService }
func Review() *ReviewService              { return reviewService }
func Confirmations() *ConfirmationService { return confirmationService }

// LoadPreferences reads the UI preference flags from the shared store
func LoadPreferences() models.Preferences {
	prefs, err := workspaceStore.LoadPreferences()
	if err != nil {
		log.Printf("Warning: failed to load preferences: %v", err)
	}
	return prefs
}

// SavePreferences writes the UI preference flags. Only the preferences key
// is touched, so planning and review state cannot be clobbered.
func SavePreferences(prefs models.Preferences) error {
	return workspaceStore.SavePreferences(prefs)
}
