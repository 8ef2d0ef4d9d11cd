package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hashicorp/go-retryablehttp"
	openaisdk "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

var (
	// ErrEmptyPrompt is returned when Complete is called with an empty prompt.
	ErrEmptyPrompt = errors.New("llm: prompt is empty")
	// ErrNoCompletionInResponse is returned when the API response contains no choices.
	ErrNoCompletionInResponse = errors.New("llm: no completion in response")
)

const (
	defaultOpenAIModel = "gpt-4o-mini"
	defaultMaxTokens   = 2048
	openAIRetryMax     = 3
)

// OpenAIClient calls the OpenAI chat completions API via the official SDK.
type OpenAIClient struct {
	sdk       openaisdk.Client
	model     string
	maxTokens int
	pricing   Pricing
}

// OpenAIOption configures the OpenAIClient.
type OpenAIOption func(*OpenAIClient)

// WithOpenAIModel sets the default model. Empty uses gpt-4o-mini.
func WithOpenAIModel(model string) OpenAIOption {
	return func(c *OpenAIClient) {
		if model != "" {
			c.model = model
		}
	}
}

// WithOpenAIMaxTokens sets the default output token cap.
func WithOpenAIMaxTokens(n int) OpenAIOption {
	return func(c *OpenAIClient) {
		if n > 0 {
			c.maxTokens = n
		}
	}
}

// WithOpenAIPricing sets the per-token pricing used for cost attribution.
func WithOpenAIPricing(p Pricing) OpenAIOption {
	return func(c *OpenAIClient) {
		c.pricing = p
	}
}

// NewOpenAIClient creates an OpenAI completions client. Outbound HTTP goes
// through a retrying client so transient 429/5xx responses are retried
// below the SDK.
func NewOpenAIClient(apiKey string, opts ...OpenAIOption) *OpenAIClient {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = openAIRetryMax
	retryClient.Logger = nil

	client := &OpenAIClient{
		sdk: openaisdk.NewClient(
			option.WithAPIKey(apiKey),
			option.WithHTTPClient(retryClient.StandardClient()),
		),
		model:     defaultOpenAIModel,
		maxTokens: defaultMaxTokens,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// Complete sends one chat completion request and returns the reply text.
func (c *OpenAIClient) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
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

	resp, err := c.sdk.Chat.Completions.New(ctx, openaisdk.ChatCompletionNewParams{
		Model: openaisdk.ChatModel(model),
		Messages: []openaisdk.ChatCompletionMessageParamUnion{
			openaisdk.UserMessage(prompt),
		},
		MaxCompletionTokens: openaisdk.Int(int64(maxTokens)),
	})
	if err != nil {
		return nil, fmt.Errorf("openai completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, ErrNoCompletionInResponse
	}

	// Concatenate all choices; the API normally returns one.
	var text strings.Builder
	for _, choice := range resp.Choices {
		text.WriteString(choice.Message.Content)
	}

	return &CompletionResponse{
		Text:             text.String(),
		Model:            model,
		PromptTokens:     resp.Usage.PromptTokens,
		CompletionTokens: resp.Usage.CompletionTokens,
		CostUSD:          c.pricing.Cost(resp.Usage.PromptTokens, resp.Usage.CompletionTokens),
	}, nil
}
