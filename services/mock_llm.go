package services

import (
	"context"
	"strings"
)

// MockGenerator is a placeholder implementation for local runs without a
// provider key. It echoes a short deterministic critique instead of calling
// an external model.
type MockGenerator struct{}

func (MockGenerator) Generate(_ context.Context, _ string, userPrompt string, _ GenerateOptions) (string, error) {
	head := userPrompt
	if idx := strings.IndexByte(head, '\n'); idx > 0 {
		head = head[:idx]
	}
	if runes := []rune(head); len(runes) > 120 {
		head = string(runes[:120])
	}

	var sb strings.Builder
	sb.WriteString("Mock feedback.\n\n")
	sb.WriteString("Prompt received: ")
	sb.WriteString(head)
	sb.WriteString("\n\nStrengths: the structure follows the section guidance.\n")
	sb.WriteString("Weaknesses: claims are not yet tied to evidence; tighten the argument before moving on.\n")
	return sb.String(), nil
}
