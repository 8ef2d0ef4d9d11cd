// Package llm wraps the natural-language completion SDKs behind one
// blocking, non-streaming request/response contract.
package llm

import "context"

// CompletionRequest is a single prompt sent to a completion model.
type CompletionRequest struct {
	// Model overrides the client's default model when non-empty.
	Model string
	// Prompt is the full prompt text.
	Prompt string
	// MaxTokens caps the output size. Zero uses the client default.
	MaxTokens int
}

// CompletionResponse is the concatenated text of a completion reply plus
// token accounting.
type CompletionResponse struct {
	Text             string
	Model            string
	PromptTokens     int64
	CompletionTokens int64
	// CostUSD is derived from token counts and the configured pricing.
	CostUSD float64
}

// Completer is the blocking completion contract shared by all pipelines.
// One round trip per call; no streaming.
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)
}

// Pricing holds USD prices per one million tokens, used to attribute
// provider cost back onto domain records.
type Pricing struct {
	PromptUSDPer1M     float64
	CompletionUSDPer1M float64
}

// Cost returns the USD cost of a call with the given token counts.
func (p Pricing) Cost(promptTokens, completionTokens int64) float64 {
	return float64(promptTokens)/1e6*p.PromptUSDPer1M +
		float64(completionTokens)/1e6*p.CompletionUSDPer1M
}
