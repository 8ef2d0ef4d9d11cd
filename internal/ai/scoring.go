package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/guesthub/hub/internal/llm"
	"github.com/guesthub/hub/internal/models"
)

// fallbackRationaleMarker appears in the rationale of every fallback score
// so a defaulted 50 can be told apart from a genuine 50.
const fallbackRationaleMarker = "model response could not be parsed"

const (
	fallbackScore       = 50
	fallbackExplanation = "insufficient data"
)

// LLMScoringProvider scores contacts against event objectives through a
// completion model.
type LLMScoringProvider struct {
	completer llm.Completer
}

// NewLLMScoringProvider creates a scoring provider backed by the given
// completer.
func NewLLMScoringProvider(completer llm.Completer) *LLMScoringProvider {
	return &LLMScoringProvider{completer: completer}
}

// Score requests one relevance assessment for the contact. An unparseable
// reply degrades to the deterministic fallback score; only transport errors
// produce the failure variant.
func (p *LLMScoringProvider) Score(ctx context.Context, input ScoringInput) ScoringResult {
	resp, err := p.completer.Complete(ctx, llm.CompletionRequest{
		Prompt: buildScoringPrompt(input),
	})
	if err != nil {
		return ScoringResult{Result: Result{Err: fmt.Sprintf("completion failed: %v", err)}}
	}

	result := parseScore(resp.Text, input.Objectives)
	result.RawPayload = resp.Text
	result.CostUSD = resp.CostUSD
	return result
}

func buildScoringPrompt(input ScoringInput) string {
	var b strings.Builder

	b.WriteString("You assess how relevant a guest is to an event's objectives.\n\nGuest:\n")
	fmt.Fprintf(&b, "- Name: %s\n", input.Contact.FullName)
	if input.Contact.Title != nil {
		fmt.Fprintf(&b, "- Title: %s\n", *input.Contact.Title)
	}
	if input.Contact.Company != nil {
		fmt.Fprintf(&b, "- Company: %s\n", *input.Contact.Company)
	}
	if input.Contact.Industry != nil {
		fmt.Fprintf(&b, "- Industry: %s\n", *input.Contact.Industry)
	}
	if input.Contact.Seniority != nil {
		fmt.Fprintf(&b, "- Seniority: %s\n", *input.Contact.Seniority)
	}
	if input.Contact.Summary != nil {
		fmt.Fprintf(&b, "- Summary: %s\n", *input.Contact.Summary)
	}
	if len(input.Contact.Tags) > 0 {
		fmt.Fprintf(&b, "- Tags: %s\n", strings.Join(input.Contact.Tags, ", "))
	}

	b.WriteString("\nEvent objectives (with weights):\n")
	for i, obj := range input.Objectives {
		fmt.Fprintf(&b, "%d. %s (weight %d)\n", i+1, obj.Description, obj.Weight)
	}

	fmt.Fprintf(&b, `
Reply with exactly one JSON object of this shape:
{"relevance_score": 85, "matched_objectives": [{"objective": "text of the objective", "match_score": 90, "explanation": "why this guest matches"}], "score_rationale": "short overall rationale", "talking_points": ["point 1", "point 2"]}

List matched_objectives in the same order as the objectives above. Scores are integers 0-100. At most %d talking points. Do not wrap the JSON in markdown. Do not fabricate facts; use null for anything unknown.`, models.MaxTalkingPoints)

	return b.String()
}

// scoringPayload is the loose decode target for the model reply.
type scoringPayload struct {
	RelevanceScore    any `json:"relevance_score"`
	MatchedObjectives []struct {
		Objective   any `json:"objective"`
		MatchScore  any `json:"match_score"`
		Explanation any `json:"explanation"`
	} `json:"matched_objectives"`
	ScoreRationale any   `json:"score_rationale"`
	TalkingPoints  []any `json:"talking_points"`
}

// parseScore turns a model reply into a schema-valid scoring result.
// Returned entries are matched to the configured objectives by position;
// entries beyond the configured objectives are dropped.
func parseScore(text string, objectives []models.Objective) ScoringResult {
	var payload scoringPayload
	if !decodeJSONObject(text, &payload) {
		return FallbackScoreResult(objectives)
	}

	matched := make([]models.MatchedObjective, 0, len(payload.MatchedObjectives))
	for i, entry := range payload.MatchedObjectives {
		if i >= len(objectives) {
			break
		}
		matched = append(matched, models.MatchedObjective{
			ObjectiveID: objectives[i].ID,
			Objective:   objectives[i].Description,
			MatchScore:  clampInt(entry.MatchScore, 0, 100),
			Explanation: stringOrDefault(entry.Explanation, fallbackExplanation),
		})
	}

	return ScoringResult{
		Result:            Result{Success: true},
		RelevanceScore:    clampInt(payload.RelevanceScore, 0, 100),
		MatchedObjectives: matched,
		Rationale:         stringOrDefault(payload.ScoreRationale, ""),
		TalkingPoints:     stringList(payload.TalkingPoints, models.MaxTalkingPoints),
	}
}

// FallbackScoreResult is the deterministic result used when a scoring reply
// cannot be parsed: a neutral 50 overall, one 50-scored entry per configured
// objective, and a rationale that explicitly flags the parsing failure.
func FallbackScoreResult(objectives []models.Objective) ScoringResult {
	matched := make([]models.MatchedObjective, 0, len(objectives))
	for _, obj := range objectives {
		matched = append(matched, models.MatchedObjective{
			ObjectiveID: obj.ID,
			Objective:   obj.Description,
			MatchScore:  fallbackScore,
			Explanation: fallbackExplanation,
		})
	}

	return ScoringResult{
		Result:            Result{Success: true},
		RelevanceScore:    fallbackScore,
		MatchedObjectives: matched,
		Rationale:         "Default score applied: " + fallbackRationaleMarker + ".",
		TalkingPoints:     []string{},
	}
}

func stringOrDefault(v any, def string) string {
	if s := optString(v); s != nil {
		return *s
	}
	return def
}
