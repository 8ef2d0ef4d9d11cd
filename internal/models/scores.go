package models

import (
	"time"

	"github.com/google/uuid"
)

// MaxTalkingPoints caps the number of talking points stored per score.
const MaxTalkingPoints = 5

// Objective is a weighted textual goal for an event, used as scoring criteria.
type Objective struct {
	ID          uuid.UUID `json:"id"`
	EventID     uuid.UUID `json:"event_id"`
	Description string    `json:"description"`
	Weight      int       `json:"weight"`
	CreatedAt   time.Time `json:"created_at"`
}

// MatchedObjective is the per-objective breakdown inside a guest score.
type MatchedObjective struct {
	ObjectiveID uuid.UUID `json:"objective_id"`
	Objective   string    `json:"objective"`
	MatchScore  int       `json:"match_score"`
	Explanation string    `json:"explanation"`
}

// GuestScore is the relevance assessment of one contact for one event.
// Keyed uniquely by (contact_id, event_id); re-scoring overwrites the row.
type GuestScore struct {
	ID                uuid.UUID          `json:"id"`
	ContactID         uuid.UUID          `json:"contact_id"`
	EventID           uuid.UUID          `json:"event_id"`
	RelevanceScore    int                `json:"relevance_score"`
	MatchedObjectives []MatchedObjective `json:"matched_objectives"`
	Rationale         string             `json:"rationale"`
	TalkingPoints     []string           `json:"talking_points"`
	CreatedAt         time.Time          `json:"created_at"`
	UpdatedAt         time.Time          `json:"updated_at"`
}

// UpsertGuestScoreRequest carries a scoring result to be persisted for a
// (contact, event) pair. A repeat upsert fully replaces the prior row,
// including matched objectives and talking points.
type UpsertGuestScoreRequest struct {
	ContactID         uuid.UUID          `json:"contact_id" validate:"required"`
	EventID           uuid.UUID          `json:"event_id" validate:"required"`
	RelevanceScore    int                `json:"relevance_score" validate:"min=0,max=100"`
	MatchedObjectives []MatchedObjective `json:"matched_objectives"`
	Rationale         string             `json:"rationale"`
	TalkingPoints     []string           `json:"talking_points" validate:"max=5"`
}
