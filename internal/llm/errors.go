package llm

import "errors"

// Sentinel errors returned by LLMClient.Generate, wrapped with detail.
// Callers fall back to local behavior on any of them.
var (
	// ErrOllamaUnavailable means no endpoint accepted a connection.
	ErrOllamaUnavailable = errors.New("ollama unavailable")
	// ErrTimeout means the per-task deadline passed before an answer arrived.
	ErrTimeout = errors.New("llm call timed out")
	// ErrInvalidOutput means every answer failed JSON extraction or validation.
	ErrInvalidOutput = errors.New("llm output unusable")
	// ErrRetryExhausted means the server kept failing after all retries.
	ErrRetryExhausted = errors.New("llm retries exhausted")
)
