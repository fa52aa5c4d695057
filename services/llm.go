package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"planhub/config"
)

// Generation error taxonomy. Transport/provider failures, timeouts and
// empty-but-successful responses must stay distinguishable for callers.
var (
	ErrGenerationFailure = errors.New("text generation failed")
	ErrGenerationTimeout = errors.New("text generation timed out")
	ErrEmptyCompletion   = errors.New("text generation returned no content")
)

// GenerateOptions carries the per-call sampling settings. A nil
// Temperature means provider default; 0 is a valid deterministic setting.
type GenerateOptions struct {
	Temperature     *float64
	MaxOutputTokens int
}

// TextGenerator is the external text-generation collaborator: one prompt
// pair in, one completion out. Output may vary between calls with identical
// inputs.
type TextGenerator interface {
	Generate(ctx context.Context, systemPrompt, userPrompt string, opts GenerateOptions) (string, error)
}

var (
	textGenerator     TextGenerator
	generationTimeout = 45 * time.Second
	generateOptions   GenerateOptions
)

// InitLLM selects and initializes the configured generation provider
func InitLLM(cfg *config.Config) error {
	generationTimeout = time.Duration(cfg.LLM.TimeoutSeconds) * time.Second
	generateOptions = GenerateOptions{
		Temperature:     cfg.LLM.Temperature,
		MaxOutputTokens: cfg.LLM.MaxOutputTokens,
	}

	switch strings.ToLower(cfg.LLM.Provider) {
	case "gemini":
		gen, err := NewGeminiGenerator(context.Background(), cfg.LLM.ApiKey, cfg.LLM.Model)
		if err != nil {
			return fmt.Errorf("failed to initialize Gemini client: %w", err)
		}
		textGenerator = gen
	case "openai":
		gen, err := NewOpenAIGenerator(cfg.LLM.ApiKey, cfg.LLM.Model, cfg.LLM.BaseURL)
		if err != nil {
			return fmt.Errorf("failed to initialize OpenAI client: %w", err)
		}
		textGenerator = gen
	case "mock":
		textGenerator = MockGenerator{}
	default:
		return fmt.Errorf("unknown llm provider %q", cfg.LLM.Provider)
	}
	return nil
}

// SetTextGenerator swaps the generation client. Tests install fakes here.
func SetTextGenerator(gen TextGenerator, timeout time.Duration) {
	textGenerator = gen
	if timeout > 0 {
		generationTimeout = timeout
	}
}

// generateText runs one guarded round trip against the configured
// provider: hung calls become ErrGenerationTimeout so callers' busy flags
// always clear, and an empty completion surfaces as ErrEmptyCompletion.
func generateText(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if textGenerator == nil {
		return "", fmt.Errorf("%w: no generation client configured", ErrGenerationFailure)
	}

	ctx, cancel := context.WithTimeout(ctx, generationTimeout)
	defer cancel()

	out, err := textGenerator.Generate(ctx, systemPrompt, userPrompt, generateOptions)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || ctx.Err() == context.DeadlineExceeded {
			return "", fmt.Errorf("%w after %s", ErrGenerationTimeout, generationTimeout)
		}
		if errors.Is(err, ErrEmptyCompletion) {
			return "", err
		}
		return "", fmt.Errorf("%w: %v", ErrGenerationFailure, err)
	}

	out = cleanModelOutput(out)
	if out == "" {
		return "", ErrEmptyCompletion
	}
	return out, nil
}

// cleanModelOutput strips the code fences some models wrap answers in
func cleanModelOutput(text string) string {
	cleaned := strings.TrimSpace(text)
	cleaned = strings.TrimPrefix(cleaned, "```markdown")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	return strings.TrimSpace(cleaned)
}
