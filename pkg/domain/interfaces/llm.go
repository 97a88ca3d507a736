package interfaces

import "context"

// LLM sends a single prompt to a language model and returns the reply text
type LLM interface {
	Call(ctx context.Context, prompt, systemPrompt string) (string, error)
}
