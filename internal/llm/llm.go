package llm

import (
	"context"

	"qook-backend/internal/shared"
)

// Request describes a single generation call to the oracle.
type Request struct {
	Prompt string
	// System is an optional system instruction framing the model's role.
	System string
	// Temperature of 0 falls back to the provider default.
	Temperature     float32
	MaxOutputTokens int32
	// JSONOutput asks the provider for a JSON-shaped response. The output
	// is still untrusted text; callers must run it through ExtractJSON.
	JSONOutput bool
	// ImageData holds optional inline image bytes for multimodal calls.
	ImageData []byte
	// ImageFormat is the image subtype ("jpeg", "png") when ImageData is set.
	ImageFormat string
}

// ContentResponse contains the generated text and token usage metadata.
type ContentResponse struct {
	Content string
	Usage   shared.TokenUsage
}

// TextGenerator is an interface for generating text from a prompt.
type TextGenerator interface {
	GenerateContent(ctx context.Context, req Request) (ContentResponse, error)
}

// Closer is an interface for closing resources.
type Closer interface {
	Close() error
}
