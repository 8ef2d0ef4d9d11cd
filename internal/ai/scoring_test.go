package ai

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guesthub/hub/internal/llm"
	"github.com/guesthub/hub/internal/models"
)

// fakeCompleter returns a canned reply or error.
type fakeCompleter struct {
	text  string
	cost  float64
	err   error
	calls int
	// lastPrompt captures the prompt of the most recent call.
	lastPrompt string
}

func (f *fakeCompleter) Complete(_ context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	f.calls++
	f.lastPrompt = req.Prompt
	if f.err != nil {
		return nil, f.err
	}
	return &llm.CompletionResponse{Text: f.text, CostUSD: f.cost}, nil
}

func testObjectives(n int) []models.Objective {
	objs := make([]models.Objective, 0, n)
	for i := 0; i < n; i++ {
		objs = append(objs, models.Objective{
			ID:          uuid.Must(uuid.NewV7()),
			Description: "objective " + string(rune('A'+i)),
			Weight:      i + 1,
		})
	}
	return objs
}

func TestParseScoreClampsOutOfRangeValues(t *testing.T) {
	objectives := testObjectives(1)

	tests := []struct {
		name string
		text string
		want int
	}{
		{"above range", `{"relevance_score": 150, "matched_objectives": [], "score_rationale": "x", "talking_points": []}`, 100},
		{"negative", `{"relevance_score": -20, "matched_objectives": [], "score_rationale": "x", "talking_points": []}`, 0},
		{"non-numeric", `{"relevance_score": "very high", "matched_objectives": [], "score_rationale": "x", "talking_points": []}`, 0},
		{"missing", `{"matched_objectives": [], "score_rationale": "x", "talking_points": []}`, 0},
		{"numeric string", `{"relevance_score": "88", "matched_objectives": [], "score_rationale": "x", "talking_points": []}`, 88},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := parseScore(tt.text, objectives)
			assert.True(t, result.Success)
			assert.Equal(t, tt.want, result.RelevanceScore)
		})
	}
}

func TestParseScoreUnparseableFallsBack(t *testing.T) {
	objectives := testObjectives(2)

	for _, text := range []string{"not json", "", "{broken", `{"relevance_score": }`} {
		result := parseScore(text, objectives)

		assert.True(t, result.Success, "fallback is still a usable result")
		assert.Equal(t, 50, result.RelevanceScore)
		require.Len(t, result.MatchedObjectives, 2)
		for i, m := range result.MatchedObjectives {
			assert.Equal(t, objectives[i].ID, m.ObjectiveID)
			assert.Equal(t, 50, m.MatchScore)
			assert.Equal(t, "insufficient data", m.Explanation)
		}
		assert.Contains(t, result.Rationale, "could not be parsed")
		assert.Empty(t, result.TalkingPoints)
	}
}

func TestParseScoreFallbackDistinguishableFromGenuineFifty(t *testing.T) {
	objectives := testObjectives(1)

	genuine := parseScore(`{"relevance_score": 50, "matched_objectives": [], "score_rationale": "middling fit", "talking_points": []}`, objectives)
	fallback := parseScore("not json", objectives)

	assert.Equal(t, genuine.RelevanceScore, fallback.RelevanceScore)
	assert.NotContains(t, genuine.Rationale, "could not be parsed")
	assert.Contains(t, fallback.Rationale, "could not be parsed")
}

func TestParseScoreTruncatesTalkingPoints(t *testing.T) {
	text := `{"relevance_score": 70, "matched_objectives": [], "score_rationale": "x",
		"talking_points": ["a", "b", "c", "d", "e", "f", "g"]}`

	result := parseScore(text, testObjectives(1))

	assert.Len(t, result.TalkingPoints, models.MaxTalkingPoints)
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, result.TalkingPoints)
}

func TestParseScoreMatchesObjectivesByPosition(t *testing.T) {
	objectives := testObjectives(2)
	text := `{"relevance_score": 70, "matched_objectives": [
		{"objective": "whatever the model said", "match_score": 120, "explanation": "strong"},
		{"objective": "second", "match_score": -5, "explanation": "weak"},
		{"objective": "extra entry beyond configured objectives", "match_score": 90, "explanation": "dropped"}
	], "score_rationale": "x", "talking_points": []}`

	result := parseScore(text, objectives)

	require.Len(t, result.MatchedObjectives, 2)
	assert.Equal(t, objectives[0].ID, result.MatchedObjectives[0].ObjectiveID)
	assert.Equal(t, objectives[0].Description, result.MatchedObjectives[0].Objective)
	assert.Equal(t, 100, result.MatchedObjectives[0].MatchScore)
	assert.Equal(t, "strong", result.MatchedObjectives[0].Explanation)
	assert.Equal(t, 0, result.MatchedObjectives[1].MatchScore)
}

func TestParseScoreHandlesMarkdownWrappedReply(t *testing.T) {
	text := "```json\n{\"relevance_score\": 91, \"matched_objectives\": [], \"score_rationale\": \"fits\", \"talking_points\": [\"ai\"]}\n```"

	result := parseScore(text, testObjectives(1))

	assert.Equal(t, 91, result.RelevanceScore)
	assert.Equal(t, "fits", result.Rationale)
	assert.Equal(t, []string{"ai"}, result.TalkingPoints)
}

func TestLLMScoringProviderTransportErrorIsFailureVariant(t *testing.T) {
	completer := &fakeCompleter{err: errors.New("quota exceeded")}
	provider := NewLLMScoringProvider(completer)

	result := provider.Score(context.Background(), ScoringInput{
		Contact:    models.Contact{FullName: "Ada"},
		Objectives: testObjectives(1),
	})

	assert.False(t, result.Success)
	assert.Contains(t, result.Err, "quota exceeded")
}

func TestLLMScoringProviderCarriesCostAndRawPayload(t *testing.T) {
	text := `{"relevance_score": 60, "matched_objectives": [], "score_rationale": "ok", "talking_points": []}`
	completer := &fakeCompleter{text: text, cost: 0.0021}
	provider := NewLLMScoringProvider(completer)

	result := provider.Score(context.Background(), ScoringInput{
		Contact:    models.Contact{FullName: "Ada"},
		Objectives: testObjectives(1),
	})

	assert.True(t, result.Success)
	assert.Equal(t, text, result.RawPayload)
	assert.Equal(t, 0.0021, result.CostUSD)
	assert.Equal(t, 1, completer.calls)
}

func TestBuildScoringPromptListsObjectivesWithWeights(t *testing.T) {
	objectives := testObjectives(2)
	company := "Acme"
	prompt := buildScoringPrompt(ScoringInput{
		Contact:    models.Contact{FullName: "Ada Lovelace", Company: &company},
		Objectives: objectives,
	})

	assert.Contains(t, prompt, "Ada Lovelace")
	assert.Contains(t, prompt, "Acme")
	assert.Contains(t, prompt, objectives[0].Description)
	assert.Contains(t, prompt, "(weight 1)")
	assert.Contains(t, prompt, "(weight 2)")
	assert.Contains(t, prompt, "Do not wrap the JSON in markdown")
}
