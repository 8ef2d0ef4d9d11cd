// Package service contains the pipeline orchestrators: each one drives a
// job ledger row through its lifecycle while iterating a target set,
// calling a provider per item (or per batch) and persisting results with
// partial-failure tolerance.
package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/guesthub/hub/internal/models"
)

// JobLedger is the persistence contract for pipeline job rows. The
// orchestrator that owns a job is its only expected writer; progress
// writes are plain overwrites, so a second concurrent writer for the same
// job id would win by timing rather than conflict.
type JobLedger interface {
	Start(ctx context.Context, id uuid.UUID) (*models.Job, error)
	RecordProgress(ctx context.Context, id uuid.UUID, completed, failed int) error
	Finish(ctx context.Context, id uuid.UUID, completed, failed, target int, errorMessage *string) (*models.Job, error)
	Fail(ctx context.Context, id uuid.UUID, errorMessage string) (*models.Job, error)
}
