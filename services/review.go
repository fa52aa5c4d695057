package services

import (
	"context"
	"errors"
	"log"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"planhub/db"
	"planhub/models"
)

// Review pipeline errors
var (
	ErrReviewBusy     = errors.New("a review is already in progress")
	ErrReviewNotFound = errors.New("review not found")
	ErrNoActiveReview = errors.New("no active review")
)

// ReviewService runs the document critique pipeline and owns the
// deduplicated, size-bounded review history. The active (latest) review is
// tracked separately from the persisted history and set only when a
// generation call succeeds.
type ReviewService struct {
	mu           sync.Mutex
	reviewing    bool
	active       *models.ReviewRecord
	store        db.Store
	notifier     Notifier
	historyLimit int
}

func NewReviewService(store db.Store, notifier Notifier, historyLimit int) *ReviewService {
	if historyLimit <= 0 {
		historyLimit = 10
	}
	return &ReviewService{store: store, notifier: notifier, historyLimit: historyLimit}
}

// ReviewDocument runs the full pipeline for one uploaded file: extract
// text, build the critique prompt, call the generation service, persist
// the result. Any failure aborts the attempt without writing a partial
// record. One review at a time.
func (s *ReviewService) ReviewDocument(ctx context.Context, filename string, data []byte) (models.ReviewRecord, error) {
	s.mu.Lock()
	if s.reviewing {
		s.mu.Unlock()
		return models.ReviewRecord{}, ErrReviewBusy
	}
	s.reviewing = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.reviewing = false
		s.mu.Unlock()
	}()

	text, err := ExtractText(ctx, filename, data)
	if err != nil {
		return models.ReviewRecord{}, err
	}

	paperName := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	prompt := BuildPaperReviewPrompt(Catalog(), paperName, text)

	out, err := generateText(ctx, prompt.System, prompt.User)
	if err != nil {
		return models.ReviewRecord{}, err
	}

	timestamp := time.Now().UTC().Format(time.RFC3339)
	record := models.ReviewRecord{
		ID:         models.NewReviewID(timestamp, paperName),
		PaperName:  paperName,
		Timestamp:  timestamp,
		ReviewText: out,
		Preview:    models.MakePreview(out),
	}

	s.mu.Lock()
	s.active = &record
	s.mu.Unlock()
	s.RecordReview(record)

	if s.notifier != nil {
		s.notifier.ReviewCompleted(record.ID)
	}
	return record, nil
}

// RecordReview prepends record to the persisted history unless a record
// with the same id already exists, then truncates the history to the most
// recent entries. Re-recording the same result is a no-op, which protects
// against duplicate writes from re-renders and retries.
func (s *ReviewService) RecordReview(record models.ReviewRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()

	reviews, err := s.store.LoadReviews()
	if err != nil {
		log.Printf("Warning: failed to load review history: %v", err)
		reviews = nil
	}
	for _, r := range reviews {
		if r.ID == record.ID {
			return
		}
	}

	reviews = append([]models.ReviewRecord{record}, reviews...)
	if len(reviews) > s.historyLimit {
		reviews = reviews[:s.historyLimit]
	}
	if err := s.store.SaveReviews(reviews); err != nil {
		log.Printf("Failed to persist review history: %v", err)
	}
}

// ListReviews returns the persisted history, newest first
func (s *ReviewService) ListReviews() []models.ReviewRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	reviews, err := s.store.LoadReviews()
	if err != nil {
		log.Printf("Warning: failed to load review history: %v", err)
		return nil
	}
	return reviews
}

// DeleteReview removes the record with the given id. Deleting an absent id
// is not an error.
func (s *ReviewService) DeleteReview(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	reviews, err := s.store.LoadReviews()
	if err != nil {
		log.Printf("Warning: failed to load review history: %v", err)
		return
	}
	kept := make([]models.ReviewRecord, 0, len(reviews))
	for _, r := range reviews {
		if r.ID != id {
			kept = append(kept, r)
		}
	}
	if len(kept) == len(reviews) {
		return
	}
	if err := s.store.SaveReviews(kept); err != nil {
		log.Printf("Failed to persist review history: %v", err)
	}

	if s.active != nil && s.active.ID == id {
		s.active = nil
	}
}

// ActiveReview returns the currently displayed review, if any
func (s *ReviewService) ActiveReview() (models.ReviewRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active == nil {
		return models.ReviewRecord{}, false
	}
	return *s.active, true
}

// ActivatePastReview makes a persisted record the active review again
func (s *ReviewService) ActivatePastReview(id string) (models.ReviewRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	reviews, err := s.store.LoadReviews()
	if err != nil {
		log.Printf("Warning: failed to load review history: %v", err)
	}
	for _, r := range reviews {
		if r.ID == id {
			record := r
			s.active = &record
			return record, nil
		}
	}
	return models.ReviewRecord{}, ErrReviewNotFound
}

// Reviewing reports whether the pipeline is currently running
func (s *ReviewService) Reviewing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reviewing
}
