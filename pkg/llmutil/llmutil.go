// Package llmutil holds the helpers shared by every LLM-facing component:
// a retrying generator and a tolerant JSON decoder for model output.
package llmutil

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/tmc/langchaingo/llms"
)

const maxGenerateRetries = 3

// CleanJSON strips the markdown code fences models often wrap around
// JSON output despite instructions not to.
func CleanJSON(raw string) string {
	cleaned := strings.ReplaceAll(raw, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")
	return strings.TrimSpace(cleaned)
}

// DecodeJSON cleans raw model output and unmarshals it into T. The second
// return value reports whether decoding succeeded; on failure the zero
// value is returned so the caller can substitute its fallback.
func DecodeJSON[T any](raw string) (T, bool) {
	var v T
	if err := json.Unmarshal([]byte(CleanJSON(raw)), &v); err != nil {
		var zero T
		return zero, false
	}
	return v, true
}

// GenerateWithRetry attempts to generate content and validates it using the
// provided function. It retries up to 3 times if the LLM fails or the
// validator returns an error, with linear backoff between attempts.
func GenerateWithRetry(
	ctx context.Context,
	model llms.Model,
	logger *slog.Logger,
	prompts []llms.MessageContent,
	validate func(string) error,
	opts ...llms.CallOption,
) (string, error) {
	var lastErr error

	for i := 0; i < maxGenerateRetries; i++ {
		if i > 0 {
			logger.Warn("Retrying LLM generation", "attempt", i+1, "last_error", lastErr)
			select {
			case <-time.After(time.Second * time.Duration(i)):
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}

		resp, err := model.GenerateContent(ctx, prompts, opts...)
		if err != nil {
			lastErr = fmt.Errorf("llm generation failed: %w", err)
			continue
		}

		if len(resp.Choices) == 0 {
			lastErr = fmt.Errorf("llm returned no choices")
			continue
		}

		content := resp.Choices[0].Content
		if validate != nil {
			if err := validate(content); err != nil {
				lastErr = fmt.Errorf("validation failed: %w", err)
				continue
			}
		}

		return content, nil
	}

	return "", fmt.Errorf("operation failed after %d retries: %w", maxGenerateRetries, lastErr)
}
