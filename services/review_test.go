package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"planhub/db"
	"planhub/models"
)

func newTestReview(t *testing.T) (*ReviewService, *db.MemoryStore) {
	t.Helper()
	SetTextGenerator(stubGenerator{reply: "Summary: looks fine."}, 2*time.Second)
	store := db.NewMemoryStore()
	return NewReviewService(store, nil, 10), store
}

func makeRecord(i int) models.ReviewRecord {
	timestamp := time.Date(2026, 3, 1, 10, 0, i, 0, time.UTC).Format(time.RFC3339)
	name := fmt.Sprintf("paper-%d", i)
	text := fmt.Sprintf("Review text for %s.", name)
	return models.ReviewRecord{
		ID:         models.NewReviewID(timestamp, name),
		PaperName:  name,
		Timestamp:  timestamp,
		ReviewText: text,
		Preview:    models.MakePreview(text),
	}
}

func TestRecordReviewIsIdempotent(t *testing.T) {
	svc, _ := newTestReview(t)
	record := makeRecord(1)

	svc.RecordReview(record)
	svc.RecordReview(record)

	reviews := svc.ListReviews()
	require.Len(t, reviews, 1)
	assert.Equal(t, record.ID, reviews[0].ID)
}

func TestRecordReviewCapsHistory(t *testing.T) {
	svc, _ := newTestReview(t)

	for i := 0; i < 11; i++ {
		svc.RecordReview(makeRecord(i))
	}

	reviews := svc.ListReviews()
	require.Len(t, reviews, 10)
	// Newest first; the very first record has been evicted.
	assert.Equal(t, "paper-10", reviews[0].PaperName)
	assert.Equal(t, "paper-1", reviews[9].PaperName)
	for _, r := range reviews {
		assert.NotEqual(t, "paper-0", r.PaperName)
	}
}

func TestRecordReviewHonorsConfiguredLimit(t *testing.T) {
	SetTextGenerator(stubGenerator{reply: "ok"}, time.Second)
	svc := NewReviewService(db.NewMemoryStore(), nil, 3)

	for i := 0; i < 5; i++ {
		svc.RecordReview(makeRecord(i))
	}
	assert.Len(t, svc.ListReviews(), 3)
}

func TestReviewDocumentEmptyUploadLeavesNoTrace(t *testing.T) {
	svc, _ := newTestReview(t)

	_, err := svc.ReviewDocument(context.Background(), "thesis.pdf", nil)
	require.ErrorIs(t, err, ErrEmptyDocument)

	assert.Empty(t, svc.ListReviews(), "a failed review must not write a record")
	_, ok := svc.ActiveReview()
	assert.False(t, ok, "a failed review must not become active")
	assert.False(t, svc.Reviewing(), "the busy flag must clear after a failure")
}

func TestReviewDocumentRejectsUnsupportedFormat(t *testing.T) {
	svc, _ := newTestReview(t)

	_, err := svc.ReviewDocument(context.Background(), "notes.txt", []byte("plain text"))
	require.ErrorIs(t, err, ErrUnsupportedFormat)
	assert.Empty(t, svc.ListReviews())
}

func TestReviewDocumentGenerationFailureWritesNothing(t *testing.T) {
	svc, _ := newTestReview(t)
	SetTextGenerator(stubGenerator{err: ErrGenerationFailure}, time.Second)

	// Garbage bytes fail at extraction, before the generator is even
	// reached; either way no record may be written.
	_, err := svc.ReviewDocument(context.Background(), "broken.pdf", []byte("not a pdf"))
	require.Error(t, err)
	assert.Empty(t, svc.ListReviews())
}

func TestDeleteReviewIsIdempotent(t *testing.T) {
	svc, _ := newTestReview(t)
	record := makeRecord(1)
	svc.RecordReview(record)

	svc.DeleteReview(record.ID)
	assert.Empty(t, svc.ListReviews())

	// Deleting again, or deleting an unknown id, is a no-op.
	svc.DeleteReview(record.ID)
	svc.DeleteReview("never-existed")
	assert.Empty(t, svc.ListReviews())
}

func TestDeleteActiveReviewClearsActive(t *testing.T) {
	svc, _ := newTestReview(t)
	record := makeRecord(1)
	svc.RecordReview(record)
	_, err := svc.ActivatePastReview(record.ID)
	require.NoError(t, err)

	svc.DeleteReview(record.ID)
	_, ok := svc.ActiveReview()
	assert.False(t, ok, "deleting the active review must clear it")
}

func TestActivatePastReview(t *testing.T) {
	svc, _ := newTestReview(t)
	first := makeRecord(1)
	second := makeRecord(2)
	svc.RecordReview(first)
	svc.RecordReview(second)

	got, err := svc.ActivatePastReview(first.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.ID)

	active, ok := svc.ActiveReview()
	require.True(t, ok)
	assert.Equal(t, first.ID, active.ID)

	_, err = svc.ActivatePastReview("no-such-review")
	assert.ErrorIs(t, err, ErrReviewNotFound)
}

func TestReviewHistorySurvivesCorruptPayload(t *testing.T) {
	SetTextGenerator(stubGenerator{reply: "ok"}, time.Second)
	store := db.NewMemoryStore()
	store.SetRaw(db.KeyPaperReviews, []byte("{this is not json"))

	svc := NewReviewService(store, nil, 10)
	assert.Empty(t, svc.ListReviews(), "corrupt history must read as empty, not fail")

	record := makeRecord(1)
	svc.RecordReview(record)
	assert.Len(t, svc.ListReviews(), 1, "writes must recover from a corrupt payload")
}

func TestReviewIDDedupesSameSecondSamePaper(t *testing.T) {
	timestamp := "2026-03-01T10:00:00Z"
	a := models.NewReviewID(timestamp, "My Paper.pdf")
	b := models.NewReviewID(timestamp, "my paper.pdf")
	assert.Equal(t, a, b, "id must normalize the paper name")

	c := models.NewReviewID("2026-03-01T10:00:01Z", "My Paper.pdf")
	assert.NotEqual(t, a, c)
}
