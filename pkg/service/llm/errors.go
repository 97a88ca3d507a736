package llm

import "errors"

var (
	// ErrConfig is returned when a provider cannot be constructed from its configuration
	ErrConfig = errors.New("invalid LLM configuration")

	// ErrProvider is returned for any failure reported by the LLM provider
	ErrProvider = errors.New("LLM provider error")
)
