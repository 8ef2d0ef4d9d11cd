package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/guesthub/hub/internal/llm"
	"github.com/guesthub/hub/internal/models"
)

// LLMSeatingProvider suggests table plans through a completion model.
// The model's plan is validated for index range, table number and confidence
// but deliberately not for per-table capacity; only the deterministic
// fallback planner guarantees capacity.
type LLMSeatingProvider struct {
	completer llm.Completer
}

// NewLLMSeatingProvider creates a seating provider backed by the given
// completer.
func NewLLMSeatingProvider(completer llm.Completer) *LLMSeatingProvider {
	return &LLMSeatingProvider{completer: completer}
}

// SuggestSeating sends the full guest list and table layout in one call.
// Success=false signals the caller to use FallbackSeatingPlan.
func (p *LLMSeatingProvider) SuggestSeating(ctx context.Context, input SeatingInput) SeatingResult {
	resp, err := p.completer.Complete(ctx, llm.CompletionRequest{
		Prompt: buildSeatingPrompt(input),
	})
	if err != nil {
		return SeatingResult{Result: Result{Err: fmt.Sprintf("completion failed: %v", err)}}
	}

	placements, ok := parseSeating(resp.Text, input.Guests)
	if !ok {
		return SeatingResult{Result: Result{
			Err:        "seating suggestion could not be parsed",
			RawPayload: resp.Text,
			CostUSD:    resp.CostUSD,
		}}
	}

	return SeatingResult{
		Result: Result{
			Success:    true,
			RawPayload: resp.Text,
			CostUSD:    resp.CostUSD,
		},
		Placements: placements,
	}
}

// strategyFraming maps each strategy to the sentence that frames the
// optimization goal. Strategy changes prompt framing only, not validation.
var strategyFraming = map[models.SeatingStrategy]string{
	models.StrategyMixedInterests:   "Mix guests with different industries and interests at each table to spark new connections.",
	models.StrategySimilarInterests: "Group guests with similar industries and interests so tables share common ground.",
	models.StrategyScoreBalanced:    "Balance each table so high-relevance and lower-relevance guests are spread evenly.",
}

func buildSeatingPrompt(input SeatingInput) string {
	var b strings.Builder

	b.WriteString("You plan seating for an event.\n\n")
	if framing, ok := strategyFraming[input.Strategy]; ok {
		b.WriteString(framing)
		b.WriteString("\n\n")
	}

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
		if g.RelevanceScore != nil {
			fmt.Fprintf(&b, ", relevance %d", *g.RelevanceScore)
		}
		b.WriteString("\n")
	}

	b.WriteString("\nTables:\n")
	for _, t := range input.Tables {
		fmt.Fprintf(&b, "- Table %d: %d seats\n", t.Number, t.Seats)
	}

	b.WriteString(`
Reply with exactly one JSON object of this shape:
{"assignments": [{"guest_index": 0, "table_number": 1, "rationale": "why this seat", "confidence": 0.8}]}

guest_index refers to the guest list above. confidence is between 0 and 1. Do not wrap the JSON in markdown. Do not invent guests; use null for anything unknown.`)

	return b.String()
}

// seatingPayload is the loose decode target for the model reply.
type seatingPayload struct {
	Assignments []struct {
		GuestIndex  any `json:"guest_index"`
		TableNumber any `json:"table_number"`
		Rationale   any `json:"rationale"`
		Confidence  any `json:"confidence"`
	} `json:"assignments"`
}

// parseSeating validates the model's assignment array. Out-of-range guest
// indices are dropped, table numbers coerced to >= 1 and confidence clamped
// to [0,1]. Returns ok=false when the reply has no usable assignment array.
func parseSeating(text string, guests []models.SeatingGuest) ([]SeatingPlacement, bool) {
	var payload seatingPayload
	if !decodeJSONObject(text, &payload) {
		return nil, false
	}
	if len(payload.Assignments) == 0 {
		return nil, false
	}

	placements := make([]SeatingPlacement, 0, len(payload.Assignments))
	for _, a := range payload.Assignments {
		idx := clampInt(a.GuestIndex, -1, len(guests))
		if idx < 0 || idx >= len(guests) {
			continue
		}
		table := clampInt(a.TableNumber, 0, 1<<30)
		if table < 1 {
			table = 1
		}
		placements = append(placements, SeatingPlacement{
			Guest:       guests[idx],
			TableNumber: table,
			Rationale:   stringOrDefault(a.Rationale, ""),
			Confidence:  clampFloat(a.Confidence, 0, 1),
		})
	}

	return placements, true
}

// FallbackSeatingPlan deterministically places every guest: iterate guests
// in their given order (callers load them score-descending), fill the
// current table to its seat count, then advance, wrapping around the table
// list. No table ever exceeds its configured capacity unless total seats
// run out, in which case remaining guests wrap back onto the tables in
// round-robin order starting from the first.
func FallbackSeatingPlan(guests []models.SeatingGuest, tables []models.Table) []SeatingPlacement {
	if len(guests) == 0 || len(tables) == 0 {
		return nil
	}

	placements := make([]SeatingPlacement, 0, len(guests))
	tableIdx := 0
	seated := 0

	for _, g := range guests {
		// Skip exhausted tables; wrap when every table is full.
		scanned := 0
		for tables[tableIdx].Seats <= seated {
			tableIdx = (tableIdx + 1) % len(tables)
			seated = 0
			scanned++
			if scanned > len(tables) {
				break
			}
		}

		placements = append(placements, SeatingPlacement{
			Guest:       g,
			TableNumber: tables[tableIdx].Number,
			Rationale:   "assigned by capacity-based fallback",
			Confidence:  1,
		})
		seated++
	}

	return placements
}
