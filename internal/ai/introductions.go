package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/guesthub/hub/internal/llm"
)

// LLMIntroductionsProvider suggests guest introductions through a
// completion model.
type LLMIntroductionsProvider struct {
	completer llm.Completer
}

// NewLLMIntroductionsProvider creates an introductions provider backed by
// the given completer.
func NewLLMIntroductionsProvider(completer llm.Completer) *LLMIntroductionsProvider {
	return &LLMIntroductionsProvider{completer: completer}
}

// SuggestIntroductions sends the full guest list in one call and returns up
// to MaxPairings validated pairings.
func (p *LLMIntroductionsProvider) SuggestIntroductions(ctx context.Context, input IntroductionsInput) IntroductionsResult {
	resp, err := p.completer.Complete(ctx, llm.CompletionRequest{
		Prompt: buildIntroductionsPrompt(input),
	})
	if err != nil {
		return IntroductionsResult{Result: Result{Err: fmt.Sprintf("completion failed: %v", err)}}
	}

	pairings, ok := parseIntroductions(resp.Text, input)
	if !ok {
		return IntroductionsResult{Result: Result{
			Err:        "introduction suggestions could not be parsed",
			RawPayload: resp.Text,
			CostUSD:    resp.CostUSD,
		}}
	}

	return IntroductionsResult{
		Result: Result{
			Success:    true,
			RawPayload: resp.Text,
			CostUSD:    resp.CostUSD,
		},
		Pairings: pairings,
	}
}

func buildIntroductionsPrompt(input IntroductionsInput) string {
	var b strings.Builder

	b.WriteString("You suggest which guests at an event should be introduced to each other.\n\n")
	b.WriteString("Guests (referenced below by zero-based index):\n")
	for i, g := range input.Guests {
		fmt.Fprintf(&b, "%d. %s", i, g.FullName)
		if g.Title != nil {
			fmt.Fprintf(&b, ", %s", *g.Title)
		}
		if g.Company != nil {
			fmt.Fprintf(&b, " at %s", *g.Company)
		}
		if g.Industry != nil {
			fmt.Fprintf(&b, " (%s)", *g.Industry)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, `
Suggest at most %d introductions. Reply with exactly one JSON object of this shape:
{"pairings": [{"contact_a_index": 0, "contact_b_index": 3, "reason": "why they should meet", "mutual_interest": "shared topic", "priority": 1}]}

Indices refer to the guest list above. priority is 1 (highest), 2 or 3. Do not pair a guest with themselves. Do not wrap the JSON in markdown. Do not fabricate facts; use null for anything unknown.`, input.MaxPairings)

	return b.String()
}

// introductionsPayload is the loose decode target for the model reply.
type introductionsPayload struct {
	Pairings []struct {
		ContactAIndex  any `json:"contact_a_index"`
		ContactBIndex  any `json:"contact_b_index"`
		Reason         any `json:"reason"`
		MutualInterest any `json:"mutual_interest"`
		Priority       any `json:"priority"`
	} `json:"pairings"`
}

// parseIntroductions validates the model's pairing array: self-pairs and
// out-of-range indices are silently dropped and the list is truncated to
// MaxPairings. Returns ok=false when the reply has no usable pairing array.
func parseIntroductions(text string, input IntroductionsInput) ([]PairingSuggestion, bool) {
	var payload introductionsPayload
	if !decodeJSONObject(text, &payload) {
		return nil, false
	}

	guests := input.Guests
	pairings := make([]PairingSuggestion, 0, len(payload.Pairings))
	for _, p := range payload.Pairings {
		a := clampInt(p.ContactAIndex, -1, len(guests))
		b := clampInt(p.ContactBIndex, -1, len(guests))
		if a < 0 || a >= len(guests) || b < 0 || b >= len(guests) || a == b {
			continue
		}
		pairings = append(pairings, PairingSuggestion{
			GuestA:         guests[a],
			GuestB:         guests[b],
			Reason:         stringOrDefault(p.Reason, ""),
			MutualInterest: stringOrDefault(p.MutualInterest, ""),
			Priority:       clampInt(p.Priority, 1, 3),
		})
		if input.MaxPairings > 0 && len(pairings) == input.MaxPairings {
			break
		}
	}

	return pairings, true
}
