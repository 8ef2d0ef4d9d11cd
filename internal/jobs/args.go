// Package jobs provides River job arguments and workers for the guest
// pipelines.
package jobs

import (
	"github.com/google/uuid"

	"github.com/guesthub/hub/internal/models"
)

// EnrichmentJobArgs runs contact enrichment for a batch of contacts.
type EnrichmentJobArgs struct {
	// JobID is the pipeline_jobs row tracking this run.
	JobID       uuid.UUID   `json:"job_id"`
	WorkspaceID uuid.UUID   `json:"workspace_id"`
	ContactIDs  []uuid.UUID `json:"contact_ids"`
}

// Kind returns the job type identifier for River
func (EnrichmentJobArgs) Kind() string { return "guest_enrichment" }

// ScoringJobArgs scores a batch of contacts against one event's objectives.
type ScoringJobArgs struct {
	JobID       uuid.UUID   `json:"job_id"`
	WorkspaceID uuid.UUID   `json:"workspace_id"`
	EventID     uuid.UUID   `json:"event_id"`
	ContactIDs  []uuid.UUID `json:"contact_ids"`
}

// Kind returns the job type identifier for River
func (ScoringJobArgs) Kind() string { return "guest_scoring" }

// SeatingJobArgs runs one seating optimization over an event's guest list.
type SeatingJobArgs struct {
	JobID       uuid.UUID              `json:"job_id"`
	WorkspaceID uuid.UUID              `json:"workspace_id"`
	EventID     uuid.UUID              `json:"event_id"`
	ContactIDs  []uuid.UUID            `json:"contact_ids"`
	Tables      []models.Table         `json:"tables"`
	Strategy    models.SeatingStrategy `json:"strategy"`
}

// Kind returns the job type identifier for River
func (SeatingJobArgs) Kind() string { return "guest_seating" }

// IntroductionsJobArgs generates introduction suggestions for an event.
type IntroductionsJobArgs struct {
	JobID       uuid.UUID   `json:"job_id"`
	WorkspaceID uuid.UUID   `json:"workspace_id"`
	EventID     uuid.UUID   `json:"event_id"`
	ContactIDs  []uuid.UUID `json:"contact_ids"`
	MaxPairings int         `json:"max_pairings"`
}

// Kind returns the job type identifier for River
func (IntroductionsJobArgs) Kind() string { return "guest_introductions" }
