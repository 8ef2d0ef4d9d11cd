package ai

import (
	"context"

	"github.com/guesthub/hub/internal/models"
)

// Result carries the fields shared by every provider outcome. Providers
// catch their own transport and parsing problems and report them through
// the failure variant; a Go error never escapes for an expected failure
// mode (quota, timeout, malformed upstream output).
type Result struct {
	Success bool `json:"success"`
	// Err describes the failure when Success is false.
	Err string `json:"error,omitempty"`
	// RawPayload is the verbatim model reply, kept for auditing.
	RawPayload string `json:"raw_payload,omitempty"`
	// CostUSD is the attributed cost of the completion call.
	CostUSD float64 `json:"cost_usd"`
}

// EnrichmentInput is the known facts about one contact.
type EnrichmentInput struct {
	FullName   string
	Emails     []string
	Company    *string
	Title      *string
	ProfileURL *string
}

// EnrichmentResult is the outcome of enriching one contact.
type EnrichmentResult struct {
	Result
	Fields models.EnrichedFields `json:"fields"`
}

// EnrichmentProvider fills in missing profile fields for a contact.
type EnrichmentProvider interface {
	Enrich(ctx context.Context, input EnrichmentInput) EnrichmentResult
}

// ScoringInput is one contact plus the event's weighted objectives.
type ScoringInput struct {
	Contact    models.Contact
	Objectives []models.Objective
}

// ScoringResult is the outcome of scoring one contact against an event.
// A reply that could not be parsed still yields Success=true with the
// deterministic fallback score; only transport-level problems set the
// failure variant.
type ScoringResult struct {
	Result
	RelevanceScore    int                       `json:"relevance_score"`
	MatchedObjectives []models.MatchedObjective `json:"matched_objectives"`
	Rationale         string                    `json:"rationale"`
	TalkingPoints     []string                  `json:"talking_points"`
}

// ScoringProvider scores one contact against an event's objectives.
type ScoringProvider interface {
	Score(ctx context.Context, input ScoringInput) ScoringResult
}

// SeatingInput is the full guest list and table layout for one batched
// seating request.
type SeatingInput struct {
	Guests   []models.SeatingGuest
	Tables   []models.Table
	Strategy models.SeatingStrategy
}

// SeatingResult is the outcome of one batched seating suggestion call.
// Success=false means the reply was absent or malformed and the caller
// should fall back to the deterministic planner.
type SeatingResult struct {
	Result
	Placements []SeatingPlacement `json:"placements"`
}

// SeatingPlacement is one validated guest placement.
type SeatingPlacement struct {
	Guest       models.SeatingGuest `json:"guest"`
	TableNumber int                 `json:"table_number"`
	Rationale   string              `json:"rationale"`
	Confidence  float64             `json:"confidence"`
}

// SeatingProvider suggests a table plan for the whole guest list in one call.
type SeatingProvider interface {
	SuggestSeating(ctx context.Context, input SeatingInput) SeatingResult
}

// IntroductionsInput is the guest list and cap for one batched pairing
// request.
type IntroductionsInput struct {
	Guests      []models.SeatingGuest
	MaxPairings int
}

// PairingSuggestion is one validated introduction suggestion. A and B are
// guaranteed distinct indices into the input guest list, already resolved.
type PairingSuggestion struct {
	GuestA         models.SeatingGuest `json:"guest_a"`
	GuestB         models.SeatingGuest `json:"guest_b"`
	Reason         string              `json:"reason"`
	MutualInterest string              `json:"mutual_interest"`
	Priority       int                 `json:"priority"`
}

// IntroductionsResult is the outcome of one batched pairing call.
type IntroductionsResult struct {
	Result
	Pairings []PairingSuggestion `json:"pairings"`
}

// IntroductionsProvider suggests up to MaxPairings guest introductions in
// one call.
type IntroductionsProvider interface {
	SuggestIntroductions(ctx context.Context, input IntroductionsInput) IntroductionsResult
}
