package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/guesthub/hub/internal/llm"
	"github.com/guesthub/hub/internal/models"
)

// LLMEnrichmentProvider enriches contacts through a completion model.
type LLMEnrichmentProvider struct {
	completer llm.Completer
}

// NewLLMEnrichmentProvider creates an enrichment provider backed by the
// given completer.
func NewLLMEnrichmentProvider(completer llm.Completer) *LLMEnrichmentProvider {
	return &LLMEnrichmentProvider{completer: completer}
}

// Enrich asks the model for the contact's missing profile fields. Transport
// errors are reported through the failure variant, never as a Go error.
func (p *LLMEnrichmentProvider) Enrich(ctx context.Context, input EnrichmentInput) EnrichmentResult {
	resp, err := p.completer.Complete(ctx, llm.CompletionRequest{
		Prompt: buildEnrichmentPrompt(input),
	})
	if err != nil {
		return EnrichmentResult{Result: Result{Err: fmt.Sprintf("completion failed: %v", err)}}
	}

	fields := parseEnrichment(resp.Text)

	return EnrichmentResult{
		Result: Result{
			Success:    true,
			RawPayload: resp.Text,
			CostUSD:    resp.CostUSD,
		},
		Fields: fields,
	}
}

func buildEnrichmentPrompt(input EnrichmentInput) string {
	var b strings.Builder

	b.WriteString("You are a contact research assistant for event curation. Using only the facts below, infer the person's likely professional profile.\n\n")
	b.WriteString("Known facts:\n")
	fmt.Fprintf(&b, "- Name: %s\n", input.FullName)
	if len(input.Emails) > 0 {
		fmt.Fprintf(&b, "- Emails: %s\n", strings.Join(input.Emails, ", "))
	}
	if input.Company != nil {
		fmt.Fprintf(&b, "- Company: %s\n", *input.Company)
	}
	if input.Title != nil {
		fmt.Fprintf(&b, "- Title: %s\n", *input.Title)
	}
	if input.ProfileURL != nil {
		fmt.Fprintf(&b, "- Profile link: %s\n", *input.ProfileURL)
	}

	b.WriteString(`
Reply with exactly one JSON object of this shape:
{"title": "VP of Engineering", "company": "Acme Corp", "industry": "SaaS", "seniority": "executive", "summary": "One or two sentences about the person.", "tags": ["engineering", "ai"]}

Do not wrap the JSON in markdown. Do not fabricate facts you cannot infer; use null for unknown fields.`)

	return b.String()
}

// enrichmentPayload is the loose decode target for the model reply.
// Numeric/typed coercion happens in parseEnrichment.
type enrichmentPayload struct {
	Title     any   `json:"title"`
	Company   any   `json:"company"`
	Industry  any   `json:"industry"`
	Seniority any   `json:"seniority"`
	Summary   any   `json:"summary"`
	Tags      []any `json:"tags"`
}

const maxEnrichmentTags = 10

// parseEnrichment turns a model reply into enriched fields. An unparseable
// reply yields the zero value: all facts unknown, so the merge is a no-op.
func parseEnrichment(text string) models.EnrichedFields {
	var payload enrichmentPayload
	if !decodeJSONObject(text, &payload) {
		return models.EnrichedFields{}
	}

	return models.EnrichedFields{
		Title:     optString(payload.Title),
		Company:   optString(payload.Company),
		Industry:  optString(payload.Industry),
		Seniority: optString(payload.Seniority),
		Summary:   optString(payload.Summary),
		Tags:      stringList(payload.Tags, maxEnrichmentTags),
	}
}
