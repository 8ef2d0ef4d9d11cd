package ai

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnrichmentFullReply(t *testing.T) {
	text := `{"title": "CTO", "company": "Acme", "industry": "SaaS", "seniority": "executive",
		"summary": "Builds platforms.", "tags": ["ai", "infra"]}`

	fields := parseEnrichment(text)

	require.NotNil(t, fields.Title)
	assert.Equal(t, "CTO", *fields.Title)
	require.NotNil(t, fields.Company)
	assert.Equal(t, "Acme", *fields.Company)
	assert.Equal(t, []string{"ai", "infra"}, fields.Tags)
}

func TestParseEnrichmentNullsStayUnknown(t *testing.T) {
	text := `{"title": null, "company": "Acme", "industry": "unknown", "seniority": null, "summary": null, "tags": []}`

	fields := parseEnrichment(text)

	assert.Nil(t, fields.Title)
	assert.Nil(t, fields.Industry, "the literal string unknown is not a fact")
	require.NotNil(t, fields.Company)
	assert.Empty(t, fields.Tags)
}

func TestParseEnrichmentUnparseableIsNoOp(t *testing.T) {
	fields := parseEnrichment("I don't know this person.")

	assert.Nil(t, fields.Title)
	assert.Nil(t, fields.Company)
	assert.Nil(t, fields.Industry)
	assert.Nil(t, fields.Seniority)
	assert.Nil(t, fields.Summary)
	assert.Nil(t, fields.Tags)
}

func TestLLMEnrichmentProviderTransportError(t *testing.T) {
	completer := &fakeCompleter{err: errors.New("connection reset")}
	provider := NewLLMEnrichmentProvider(completer)

	result := provider.Enrich(context.Background(), EnrichmentInput{FullName: "Ada"})

	assert.False(t, result.Success)
	assert.Contains(t, result.Err, "connection reset")
}

func TestLLMEnrichmentProviderSuccessCarriesCost(t *testing.T) {
	completer := &fakeCompleter{text: `{"title": "CEO"}`, cost: 0.0007}
	provider := NewLLMEnrichmentProvider(completer)

	result := provider.Enrich(context.Background(), EnrichmentInput{FullName: "Ada"})

	assert.True(t, result.Success)
	assert.Equal(t, 0.0007, result.CostUSD)
	require.NotNil(t, result.Fields.Title)
	assert.Equal(t, "CEO", *result.Fields.Title)
}

func TestBuildEnrichmentPromptIncludesKnownFactsOnly(t *testing.T) {
	company := "Acme"
	prompt := buildEnrichmentPrompt(EnrichmentInput{
		FullName: "Ada Lovelace",
		Emails:   []string{"ada@acme.test"},
		Company:  &company,
	})

	assert.Contains(t, prompt, "Ada Lovelace")
	assert.Contains(t, prompt, "ada@acme.test")
	assert.Contains(t, prompt, "Acme")
	assert.NotContains(t, prompt, "Profile link")
	assert.Contains(t, prompt, "use null for unknown fields")
}
