package models

import (
	"time"

	"github.com/google/uuid"
)

// SeatingStrategy changes how the seating prompt frames the optimization
// goal. It does not change validation.
type SeatingStrategy string

const (
	StrategyMixedInterests   SeatingStrategy = "mixed_interests"
	StrategySimilarInterests SeatingStrategy = "similar_interests"
	StrategyScoreBalanced    SeatingStrategy = "score_balanced"
)

// Table is one entry of an event's externally defined table layout.
type Table struct {
	Number int `json:"number" validate:"min=1"`
	Seats  int `json:"seats" validate:"min=1"`
}

// SeatingAssignment places one guest at a table for an event. Rows produced
// by a single optimizer invocation share a batch ID so one run's suggestions
// can be told apart from a prior run's.
type SeatingAssignment struct {
	ID          uuid.UUID `json:"id"`
	BatchID     uuid.UUID `json:"batch_id"`
	EventID     uuid.UUID `json:"event_id"`
	ContactID   uuid.UUID `json:"contact_id"`
	TableNumber int       `json:"table_number"`
	SeatNumber  *int      `json:"seat_number,omitempty"`
	Rationale   string    `json:"rationale"`
	Confidence  float64   `json:"confidence"`
	CreatedAt   time.Time `json:"created_at"`
}

// IntroductionPairing is a suggested pair of guests recommended to meet.
// Priority 1 is highest. Pairings are insert-only and batch-tagged;
// regenerating for the same event may produce the same pair again.
type IntroductionPairing struct {
	ID             uuid.UUID `json:"id"`
	BatchID        uuid.UUID `json:"batch_id"`
	EventID        uuid.UUID `json:"event_id"`
	ContactAID     uuid.UUID `json:"contact_a_id"`
	ContactBID     uuid.UUID `json:"contact_b_id"`
	Reason         string    `json:"reason"`
	MutualInterest string    `json:"mutual_interest"`
	Priority       int       `json:"priority"`
	CreatedAt      time.Time `json:"created_at"`
}

// SeatingGuest is the per-guest view handed to the seating and introduction
// providers: identity plus the facts the prompt lists.
type SeatingGuest struct {
	ContactID      uuid.UUID `json:"contact_id"`
	FullName       string    `json:"full_name"`
	Company        *string   `json:"company,omitempty"`
	Title          *string   `json:"title,omitempty"`
	Industry       *string   `json:"industry,omitempty"`
	RelevanceScore *int      `json:"relevance_score,omitempty"`
}
