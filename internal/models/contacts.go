package models

import (
	"time"

	"github.com/google/uuid"
)

// EnrichmentStatus represents the per-contact state of the enrichment pipeline.
type EnrichmentStatus string

const (
	EnrichmentPending    EnrichmentStatus = "pending"
	EnrichmentInProgress EnrichmentStatus = "in_progress"
	EnrichmentCompleted  EnrichmentStatus = "completed"
	EnrichmentFailed     EnrichmentStatus = "failed"
)

// Contact is a person record whose profile fields can be filled in by the
// enrichment pipeline. A non-nil enriched value replaces the stored one;
// an unknown value never blanks an existing field. See ApplyEnrichment.
type Contact struct {
	ID          uuid.UUID `json:"id"`
	WorkspaceID uuid.UUID `json:"workspace_id"`
	FullName    string    `json:"full_name"`
	Emails      []string  `json:"emails"`
	ProfileURL  *string   `json:"profile_url,omitempty"`

	Title     *string  `json:"title,omitempty"`
	Company   *string  `json:"company,omitempty"`
	Industry  *string  `json:"industry,omitempty"`
	Seniority *string  `json:"seniority,omitempty"`
	Summary   *string  `json:"summary,omitempty"`
	Tags      []string `json:"tags,omitempty"`

	EnrichmentStatus EnrichmentStatus `json:"enrichment_status"`
	EnrichmentCost   float64          `json:"enrichment_cost"`
	EnrichedAt       *time.Time       `json:"enriched_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// EnrichedFields carries the profile fields returned by the enrichment
// provider. Nil means the model reported the fact as unknown.
type EnrichedFields struct {
	Title     *string  `json:"title"`
	Company   *string  `json:"company"`
	Industry  *string  `json:"industry"`
	Seniority *string  `json:"seniority"`
	Summary   *string  `json:"summary"`
	Tags      []string `json:"tags"`
}

// ApplyEnrichment merges enriched fields into the contact: a non-nil new
// value wins, a nil value keeps whatever is already there. A human-entered
// value is therefore never blanked by the model reporting "unknown".
func (c *Contact) ApplyEnrichment(fields EnrichedFields) {
	if fields.Title != nil {
		c.Title = fields.Title
	}
	if fields.Company != nil {
		c.Company = fields.Company
	}
	if fields.Industry != nil {
		c.Industry = fields.Industry
	}
	if fields.Seniority != nil {
		c.Seniority = fields.Seniority
	}
	if fields.Summary != nil {
		c.Summary = fields.Summary
	}
	if len(fields.Tags) > 0 {
		c.Tags = fields.Tags
	}
}
