package ai

import "context"

// Generator abstracts the LLM provider. Implementations live in
// internal/ai/openai and internal/ai/gemini; a nil Generator means the
// agents run rule-based only.
type Generator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}
