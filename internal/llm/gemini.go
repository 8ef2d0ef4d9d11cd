package llm

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

const defaultGeminiModel = "gemini-2.0-flash"

// GeminiClient calls the Gemini API via the Google Gen AI SDK.
type GeminiClient struct {
	client    *genai.Client
	model     string
	maxTokens int
	pricing   Pricing
}

// GeminiOption configures the GeminiClient.
type GeminiOption func(*GeminiClient)

// WithGeminiModel sets the default model name. Empty uses the default.
func WithGeminiModel(model string) GeminiOption {
	return func(c *GeminiClient) {
		if model != "" {
			c.model = model
		}
	}
}

// WithGeminiMaxTokens sets the default output token cap.
func WithGeminiMaxTokens(n int) GeminiOption {
	return func(c *GeminiClient) {
		if n > 0 {
			c.maxTokens = n
		}
	}
}

// WithGeminiPricing sets the per-token pricing used for cost attribution.
func WithGeminiPricing(p Pricing) GeminiOption {
	return func(c *GeminiClient) {
		c.pricing = p
	}
}

// NewGeminiClient creates a Gemini completions client.
func NewGeminiClient(ctx context.Context, apiKey string, opts ...GeminiOption) (*GeminiClient, error) {
	genaiClient, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}

	client := &GeminiClient{
		client:    genaiClient,
		model:     defaultGeminiModel,
		maxTokens: defaultMaxTokens,
	}
	for _, opt := range opts {
		opt(client)
	}

	return client, nil
}

// Complete sends one generate-content request and returns the concatenated
// reply text.
func (c *GeminiClient) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		return nil, ErrEmptyPrompt
	}

	model := c.model
	if req.Model != "" {
		model = req.Model
	}
	maxTokens := c.maxTokens
	if req.MaxTokens > 0 {
		maxTokens = req.MaxTokens
	}

	resp, err := c.client.Models.GenerateContent(ctx, model, genai.Text(prompt), &genai.GenerateContentConfig{
		CandidateCount: 1,
		//nolint:gosec // G115: maxTokens is a small configured cap
		MaxOutputTokens: int32(maxTokens),
	})
	if err != nil {
		return nil, fmt.Errorf("gemini completion: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return nil, ErrNoCompletionInResponse
	}

	var promptTokens, completionTokens int64
	if resp.UsageMetadata != nil {
		promptTokens = int64(resp.UsageMetadata.PromptTokenCount)
		completionTokens = int64(resp.UsageMetadata.CandidatesTokenCount)
	}

	return &CompletionResponse{
		Text:             text,
		Model:            model,
		PromptTokens:     promptTokens,
		CompletionTokens: completionTokens,
		CostUSD:          c.pricing.Cost(promptTokens, completionTokens),
	}, nil
}
