// Package llm wraps the vision model providers. Both providers take the
// same analysis prompt and hand back raw text; parsing that text is the
// extract package's problem, not this one's.
package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/T332932/for-dachaung/internal/platform/envutil"
	"github.com/T332932/for-dachaung/internal/platform/logger"
)

type Client interface {
	// AnalyzeImage sends one question photo plus the extraction prompt and
	// returns the model's raw text output.
	AnalyzeImage(ctx context.Context, image []byte, mimeType, prompt string) (string, error)

	// GenerateText is a plain text completion.
	GenerateText(ctx context.Context, system, user string) (string, error)

	// Embed returns one vector per input text.
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// NewFromEnv picks the provider from LLM_PROVIDER: "gemini" or "openai"
// (the default, which also covers any OpenAI-compatible gateway).
func NewFromEnv(log *logger.Logger) (Client, error) {
	provider := strings.ToLower(envutil.String("LLM_PROVIDER", "openai"))
	switch provider {
	case "openai", "":
		return NewOpenAI(log)
	case "gemini", "google":
		return NewGemini(log)
	default:
		return nil, fmt.Errorf("unknown LLM_PROVIDER %q", provider)
	}
}
