// Package models contains the domain types shared by repositories and services.
package models

import (
	"time"

	"github.com/google/uuid"
)

// JobKind identifies which pipeline a job row belongs to.
type JobKind string

const (
	JobKindEnrichment    JobKind = "enrichment"
	JobKindScoring       JobKind = "scoring"
	JobKindSeating       JobKind = "seating"
	JobKindIntroductions JobKind = "introductions"
)

// JobStatus represents the lifecycle state of a pipeline job.
type JobStatus string

const (
	JobStatusPending    JobStatus = "pending"
	JobStatusInProgress JobStatus = "in_progress"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
)

// Terminal reports whether the status is a terminal state.
func (s JobStatus) Terminal() bool {
	return s == JobStatusCompleted || s == JobStatusFailed
}

// Job represents one batch run of a pipeline. Progress counters are written
// by the single orchestrator that owns the job; callers poll this row for
// status. A job whose every item failed finishes as failed; any partial
// success finishes as completed.
type Job struct {
	ID             uuid.UUID  `json:"id"`
	WorkspaceID    uuid.UUID  `json:"workspace_id"`
	Kind           JobKind    `json:"kind"`
	Status         JobStatus  `json:"status"`
	TargetCount    int        `json:"target_count"`
	CompletedCount int        `json:"completed_count"`
	FailedCount    int        `json:"failed_count"`
	StartedAt      *time.Time `json:"started_at,omitempty"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
	ErrorMessage   *string    `json:"error_message,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// CreateJobRequest represents the request to create a pipeline job row.
type CreateJobRequest struct {
	WorkspaceID uuid.UUID `json:"workspace_id" validate:"required"`
	Kind        JobKind   `json:"kind" validate:"required,oneof=enrichment scoring seating introductions"`
	TargetCount int       `json:"target_count" validate:"min=0"`
}

// ListJobsFilters represents filters for listing pipeline jobs.
type ListJobsFilters struct {
	WorkspaceID *uuid.UUID `json:"workspace_id"`
	Kind        *JobKind   `json:"kind"`
	Status      *JobStatus `json:"status"`
	Limit       int        `json:"limit" validate:"omitempty,min=1,max=1000"`
	Offset      int        `json:"offset" validate:"omitempty,min=0"`
}
