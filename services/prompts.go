package services

import (
	"fmt"
	"strings"

	"planhub/models"
)

// Prompt is a system/user prompt pair for the generation service. Both
// fields are plain strings, never executable content.
type Prompt struct {
	System string
	User   string
}

const (
	// sectionContextBudget bounds the answer-plus-transcript payload of a
	// section feedback prompt.
	sectionContextBudget = 6000
	// documentCharCap bounds the extracted paper text embedded in a review
	// prompt. Must stay at or above 10000 characters.
	documentCharCap = 12000

	truncationMarker = "\n[truncated]"
)

const sectionFeedbackPersona = `You are an experienced research supervisor reviewing a student's research plan one section at a time.
Give concrete, actionable feedback on the section content you are shown: name what is strong, name what is missing or vague, and suggest the single most valuable improvement.
Judge the content against the section's own instructions, not against a finished paper. Keep the tone constructive and the answer under 300 words.`

const reviewProtocol = `You are an experienced peer reviewer. Review the paper below against the criteria outline that follows.

Review protocol, in order:
1. Summary: restate in 3-5 sentences what the paper claims to do and to contribute.
2. Section-by-section: for each criterion in the outline, list the major issues in the paper. Skip criteria the paper handles well, but say so.
3. Paper type: state whether this is a hypothesis-driven, exploratory, or needs-driven study, and whether the paper is consistent about it.
4. Classification check: verify the stated hypothesis/need/phenomenon matches what the study actually tests or probes.
5. Citations: check whether claims about prior work are tied to cited sources and whether any load-bearing claim is uncited.
6. Promise vs. delivery: compare what the introduction promises with what the results deliver, and name any gap.

Be specific: quote or paraphrase the passage an issue refers to.`

// truncate cuts s to at most limit characters, appending an explicit
// truncation marker when content was dropped. Counting runes keeps the
// cap stable for non-ASCII documents and never splits a UTF-8 sequence.
func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + truncationMarker
}

// FormatThread renders a chat transcript for inclusion in a prompt
func FormatThread(history []models.Message) string {
	var sb strings.Builder
	for _, msg := range history {
		role := "Student"
		if msg.Role == models.RoleAssistant {
			role = "Supervisor"
		}
		sb.WriteString(fmt.Sprintf("%s: %s\n", role, msg.Content))
	}
	return sb.String()
}

// BuildSectionFeedbackPrompt builds the prompt pair for feedback on one
// section: the section's instructions, the user's current answer and the
// running transcript, bounded to the section context budget.
func BuildSectionFeedbackPrompt(spec models.SectionSpec, answer string, history []models.Message) Prompt {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Section: %s\n", spec.Title))
	sb.WriteString(fmt.Sprintf("Instructions: %s\n", spec.Instructions.Body))
	if spec.Instructions.WorkStep != "" {
		sb.WriteString(fmt.Sprintf("Work step: %s\n", spec.Instructions.WorkStep))
	}
	if spec.WordLimit > 0 {
		sb.WriteString(fmt.Sprintf("Word limit: %d\n", spec.WordLimit))
	}

	sb.WriteString("\nStudent's current answer:\n")
	sb.WriteString(truncate(answer, sectionContextBudget))
	sb.WriteString("\n")

	if len(history) > 0 {
		sb.WriteString("\nConversation so far:\n")
		sb.WriteString(truncate(FormatThread(history), sectionContextBudget))
	}

	return Prompt{System: sectionFeedbackPersona, User: sb.String()}
}

// criteriaOutline serializes the catalog into the numbered outline the
// review protocol refers to
func criteriaOutline(sections []models.SectionSpec) string {
	var sb strings.Builder
	for i, s := range sections {
		sb.WriteString(fmt.Sprintf("%d. %s - %s\n", i+1, s.Title, s.Instructions.Title))
		sb.WriteString(fmt.Sprintf("   %s\n", s.Instructions.Body))
	}
	return sb.String()
}

// BuildPaperReviewPrompt builds the prompt pair for a full-paper critique:
// the fixed review protocol, the criteria outline derived from the catalog,
// and the extracted document text capped at documentCharCap.
func BuildPaperReviewPrompt(sections []models.SectionSpec, paperName, documentText string) Prompt {
	var sb strings.Builder
	sb.WriteString("Criteria outline:\n")
	sb.WriteString(criteriaOutline(sections))
	sb.WriteString(fmt.Sprintf("\nPaper: %s\n\nPaper text:\n", paperName))
	sb.WriteString(truncate(documentText, documentCharCap))
	return Prompt{System: reviewProtocol, User: sb.String()}
}
