package shared

import "time"

// TokenUsage captures token accounting reported by the model provider.
type TokenUsage struct {
	Model            string
	PromptTokens     int
	CompletionTokens int
}

// CallMeta records metadata about a single oracle invocation.
type CallMeta struct {
	Operation string
	Usage     TokenUsage
	Latency   time.Duration
}
