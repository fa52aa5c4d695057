package utils

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
	"unicode"

	"planhub/models"

	"github.com/yuin/goldmark"
)

const notCompleted = "_Not completed yet_"

// BuildProjectDocument assembles the exportable Markdown plan: every
// section's current answer substituted into a fixed template, with a
// placeholder line for sections that have no real answer yet.
func BuildProjectDocument(sections []models.SectionSpec, state models.ProjectState) string {
	var sb strings.Builder
	title := "Research Plan"
	if state.Approach != "" {
		title = fmt.Sprintf("Research Plan (%s)", state.Approach)
	}
	sb.WriteString("# " + title + "\n")

	for _, spec := range sections {
		sb.WriteString("\n## " + spec.Title + "\n\n")
		ans := state.Answers[spec.ID]

		if spec.Kind == models.SectionChecklist {
			if len(ans.Options) == 0 {
				sb.WriteString(notCompleted + "\n")
				continue
			}
			for _, id := range ans.Options {
				label := id
				for _, opt := range spec.Options {
					if opt.ID == id {
						label = opt.Label
						break
					}
				}
				sb.WriteString("- " + label + "\n")
			}
			continue
		}

		text := strings.TrimSpace(ans.Text)
		if text == "" || text == strings.TrimSpace(spec.PlaceholderFor(state.Approach)) {
			sb.WriteString(notCompleted + "\n")
			continue
		}
		sb.WriteString(text + "\n")
	}
	return sb.String()
}

// MarkdownToHTML renders the exported document as HTML
func MarkdownToHTML(md string) (string, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(md), &buf); err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return buf.String(), nil
}

// ProjectFileName derives the export filename from the selected approach
func ProjectFileName(approach string) string {
	if approach == "" {
		return "research-plan.md"
	}
	return SanitizeFileName(approach) + "-plan.md"
}

// ReviewFileName builds the export filename for a paper review
func ReviewFileName(paperName string, t time.Time) string {
	return fmt.Sprintf("%s-review-%s.txt", SanitizeFileName(paperName), t.Format("2006-01-02"))
}

// SanitizeFileName keeps letters, digits, dashes and underscores, mapping
// everything else to dashes
func SanitizeFileName(name string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.TrimSpace(name) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_':
			b.WriteRune(r)
			lastDash = false
		case !lastDash:
			b.WriteByte('-')
			lastDash = true
		}
	}
	out := strings.TrimSuffix(b.String(), "-")
	if out == "" {
		return "document"
	}
	return out
}

// AnswersJSON serializes the answers map into the import/export artifact
// shape: section id to string or option-id array.
func AnswersJSON(answers map[string]models.Answer) ([]byte, error) {
	return json.MarshalIndent(answers, "", "  ")
}

// ParseAnswersJSON parses an import artifact back into an answers map
func ParseAnswersJSON(data []byte) (map[string]models.Answer, error) {
	var answers map[string]models.Answer
	if err := json.Unmarshal(data, &answers); err != nil {
		return nil, fmt.Errorf("invalid import document: %w", err)
	}
	return answers, nil
}
