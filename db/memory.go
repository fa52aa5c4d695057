package db

import (
	"encoding/json"
	"log"
	"sync"

	"planhub/models"
)

// MemoryStore keeps the workspace keys in memory as JSON payloads. It backs
// tests and runs without a configured database. Values go through the same
// serialize/deserialize cycle as the MongoDB store so corrupt payloads take
// the same fallback path.
type MemoryStore struct {
	mu       sync.Mutex
	payloads map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{payloads: make(map[string][]byte)}
}

// SetRaw stores an arbitrary payload under key, bypassing serialization.
// Tests use it to simulate a corrupted persisted value.
func (s *MemoryStore) SetRaw(key string, payload []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.payloads[key] = append([]byte(nil), payload...)
}

func (s *MemoryStore) loadKey(key string, out any) error {
	s.mu.Lock()
	payload, ok := s.payloads[key]
	s.mu.Unlock()
	if !ok {
		return nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		log.Printf("Warning: corrupt payload under %s, falling back to empty: %v", key, err)
	}
	return nil
}

func (s *MemoryStore) saveKey(key string, value any) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.payloads[key] = payload
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) LoadProject() (models.ProjectState, error) {
	var state models.ProjectState
	err := s.loadKey(KeyProjectState, &state)
	if state.Answers == nil {
		state.Answers = make(map[string]models.Answer)
	}
	return state, err
}

func (s *MemoryStore) SaveProject(state models.ProjectState) error {
	return s.saveKey(KeyProjectState, state)
}

func (s *MemoryStore) LoadReviews() ([]models.ReviewRecord, error) {
	var reviews []models.ReviewRecord
	err := s.loadKey(KeyPaperReviews, &reviews)
	return reviews, err
}

func (s *MemoryStore) SaveReviews(reviews []models.ReviewRecord) error {
	return s.saveKey(KeyPaperReviews, reviews)
}

func (s *MemoryStore) LoadPreferences() (models.Preferences, error) {
	var prefs models.Preferences
	err := s.loadKey(KeyPreferences, &prefs)
	return prefs, err
}

func (s *MemoryStore) SavePreferences(prefs models.Preferences) error {
	return s.saveKey(KeyPreferences, prefs)
}
