package models

import (
	"strings"
	"unicode"
)

const previewLength = 150

// ReviewRecord is one persisted result of running the full-paper critique
// pipeline against an uploaded document. Records are never mutated in place.
type ReviewRecord struct {
	ID         string `json:"id" bson:"id"`
	PaperName  string `json:"paperName" bson:"paperName"`
	Timestamp  string `json:"timestamp" bson:"timestamp"` // ISO-8601
	ReviewText string `json:"reviewText" bson:"reviewText"`
	Preview    string `json:"preview" bson:"preview"`
}

// NewReviewID derives the dedupe key from the timestamp and the normalized
// paper name. Recording the same successful result twice therefore
// collapses to a single record.
func NewReviewID(timestamp, paperName string) string {
	return timestamp + "-" + NormalizeName(paperName)
}

// NormalizeName lowercases the paper name and collapses anything that is
// not a letter or digit into single dashes
func NormalizeName(name string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			lastDash = false
		} else if !lastDash {
			b.WriteByte('-')
			lastDash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// MakePreview returns the first ~150 characters of the review text with an
// ellipsis when the text was longer
func MakePreview(text string) string {
	trimmed := strings.TrimSpace(text)
	runes := []rune(trimmed)
	if len(runes) <= previewLength {
		return trimmed
	}
	return string(runes[:previewLength]) + "..."
}
