package ai

import (
	"context"
	"fmt"

	"misterhr/internal/ai/gemini"
	"misterhr/internal/ai/openai"
	"misterhr/internal/config"
)

// NewFromConfig builds the configured provider. Provider "none" returns
// a nil Generator; callers must treat nil as "rules only".
func NewFromConfig(ctx context.Context, cfg config.LLMConfig) (Generator, error) {
	switch cfg.Provider {
	case config.ProviderNone, "":
		return nil, nil
	case config.ProviderOpenAI:
		return openai.New(cfg.APIKey, cfg.Model, cfg.Temperature)
	case config.ProviderGemini:
		return gemini.New(ctx, cfg.APIKey, cfg.Model, cfg.Temperature)
	default:
		return nil, fmt.Errorf("unknown llm provider: %s", cfg.Provider)
	}
}
