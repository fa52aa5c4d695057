package services

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"planhub/models"
)

func TestDocumentCharCapFloor(t *testing.T) {
	assert.GreaterOrEqual(t, documentCharCap, 10000,
		"review prompts must carry at least 10000 characters of paper text")
}

func TestTruncateMarksDroppedContent(t *testing.T) {
	short := "fits"
	assert.Equal(t, short, truncate(short, 100))

	long := strings.Repeat("x", 200)
	got := truncate(long, 100)
	assert.True(t, strings.HasSuffix(got, truncationMarker))
	assert.Equal(t, 100+len(truncationMarker), len(got))
}

func TestBuildPaperReviewPromptContainsAllCriteria(t *testing.T) {
	prompt := BuildPaperReviewPrompt(Catalog(), "my-thesis", "The paper argues that caching helps.")

	for _, spec := range Catalog() {
		assert.Contains(t, prompt.User, spec.Title, "every catalog section must appear in the criteria outline")
	}
	assert.Contains(t, prompt.User, "my-thesis")
	assert.Contains(t, prompt.User, "The paper argues that caching helps.")
	assert.Contains(t, prompt.System, "Summary")
	assert.Contains(t, prompt.System, "Promise vs. delivery")
}

func TestBuildPaperReviewPromptCapsDocument(t *testing.T) {
	huge := strings.Repeat("a", documentCharCap*2)
	prompt := BuildPaperReviewPrompt(Catalog(), "big", huge)

	assert.Contains(t, prompt.User, truncationMarker)
	assert.Less(t, len(prompt.User), documentCharCap+4000,
		"prompt size must stay bounded regardless of document size")
}

func TestTruncateCountsCharactersNotBytes(t *testing.T) {
	// Three bytes per rune: a byte-based cut would keep far fewer
	// characters than the cap and could split a UTF-8 sequence.
	doc := strings.Repeat("研", documentCharCap*2)
	got := truncate(doc, documentCharCap)

	require.True(t, strings.HasSuffix(got, truncationMarker))
	kept := strings.TrimSuffix(got, truncationMarker)
	assert.Equal(t, documentCharCap, len([]rune(kept)))
	assert.True(t, utf8.ValidString(got), "truncation must never produce invalid UTF-8")

	prompt := BuildPaperReviewPrompt(Catalog(), "cjk-paper", doc)
	assert.True(t, utf8.ValidString(prompt.User))
	assert.GreaterOrEqual(t, strings.Count(prompt.User, "研"), 10000,
		"the cap is defined in characters, not bytes")
}

func TestBuildPaperReviewPromptIsDeterministic(t *testing.T) {
	a := BuildPaperReviewPrompt(Catalog(), "paper", "body text")
	b := BuildPaperReviewPrompt(Catalog(), "paper", "body text")
	assert.Equal(t, a, b)
}

func TestBuildSectionFeedbackPrompt(t *testing.T) {
	spec, ok := SectionByID("methodology")
	require.True(t, ok)

	history := []models.Message{
		{Role: models.RoleUser, Content: "Is a survey enough?"},
		{Role: models.RoleAssistant, Content: "Pair it with interviews."},
	}
	prompt := BuildSectionFeedbackPrompt(spec, "We run a controlled experiment.", history)

	assert.Contains(t, prompt.User, spec.Title)
	assert.Contains(t, prompt.User, "We run a controlled experiment.")
	assert.Contains(t, prompt.User, "Student: Is a survey enough?")
	assert.Contains(t, prompt.User, "Supervisor: Pair it with interviews.")
	assert.Contains(t, prompt.User, "Word limit: 600")
	assert.NotEmpty(t, prompt.System)
}

func TestFormatThreadRoles(t *testing.T) {
	out := FormatThread([]models.Message{
		{Role: models.RoleUser, Content: "hello"},
		{Role: models.RoleAssistant, Content: "hi"},
	})
	assert.Equal(t, "Student: hello\nSupervisor: hi\n", out)
}
