// Package repository contains the pgx-backed data access layer.
package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	apperrors "github.com/guesthub/hub/internal/errors"
	"github.com/guesthub/hub/internal/models"
)

const jobColumns = `id, workspace_id, kind, status, target_count, completed_count, failed_count,
	started_at, completed_at, error_message, created_at, updated_at`

// JobsRepository handles data access for pipeline job rows.
type JobsRepository struct {
	db *pgxpool.Pool
}

// NewJobsRepository creates a new jobs repository.
func NewJobsRepository(db *pgxpool.Pool) *JobsRepository {
	return &JobsRepository{db: db}
}

func scanJob(row pgx.Row) (*models.Job, error) {
	var job models.Job
	err := row.Scan(
		&job.ID, &job.WorkspaceID, &job.Kind, &job.Status, &job.TargetCount,
		&job.CompletedCount, &job.FailedCount, &job.StartedAt, &job.CompletedAt,
		&job.ErrorMessage, &job.CreatedAt, &job.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &job, nil
}

// Create inserts a pending job row with a known target count.
func (r *JobsRepository) Create(ctx context.Context, req *models.CreateJobRequest) (*models.Job, error) {
	query := fmt.Sprintf(`
		INSERT INTO pipeline_jobs (id, workspace_id, kind, status, target_count)
		VALUES ($1, $2, $3, 'pending', $4)
		RETURNING %s
	`, jobColumns)

	job, err := scanJob(r.db.QueryRow(ctx, query, uuid.Must(uuid.NewV7()), req.WorkspaceID, req.Kind, req.TargetCount))
	if err != nil {
		return nil, fmt.Errorf("failed to create job: %w", err)
	}
	return job, nil
}

// GetByID retrieves a job by its ID.
func (r *JobsRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Job, error) {
	query := fmt.Sprintf(`SELECT %s FROM pipeline_jobs WHERE id = $1`, jobColumns)

	job, err := scanJob(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFoundError("job", "no job found with the given id")
		}
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	return job, nil
}

// Start marks the job in progress and records the start time.
func (r *JobsRepository) Start(ctx context.Context, id uuid.UUID) (*models.Job, error) {
	query := fmt.Sprintf(`
		UPDATE pipeline_jobs
		SET status = 'in_progress', started_at = NOW(), updated_at = NOW()
		WHERE id = $1
		RETURNING %s
	`, jobColumns)

	job, err := scanJob(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFoundError("job", "no job found with the given id")
		}
		return nil, fmt.Errorf("failed to start job: %w", err)
	}
	return job, nil
}

// RecordProgress overwrites the progress counters. This is a plain
// overwrite, not an atomic increment: the single orchestrator that owns the
// job is the only expected writer, and a concurrent second writer would win
// by timing.
func (r *JobsRepository) RecordProgress(ctx context.Context, id uuid.UUID, completed, failed int) error {
	query := `
		UPDATE pipeline_jobs
		SET completed_count = $2, failed_count = $3, updated_at = NOW()
		WHERE id = $1
	`

	if _, err := r.db.Exec(ctx, query, id, completed, failed); err != nil {
		return fmt.Errorf("failed to record job progress: %w", err)
	}
	return nil
}

// Finish writes the terminal status and final counters. The job is failed
// only when every single item failed; any partial success completes the
// job, and callers are expected to surface failed_count rather than infer
// success from status alone.
func (r *JobsRepository) Finish(ctx context.Context, id uuid.UUID, completed, failed, target int, errorMessage *string) (*models.Job, error) {
	status := models.JobStatusCompleted
	if target > 0 && failed == target {
		status = models.JobStatusFailed
	}

	query := fmt.Sprintf(`
		UPDATE pipeline_jobs
		SET status = $2, completed_count = $3, failed_count = $4,
		    error_message = $5, completed_at = NOW(), updated_at = NOW()
		WHERE id = $1
		RETURNING %s
	`, jobColumns)

	job, err := scanJob(r.db.QueryRow(ctx, query, id, status, completed, failed, errorMessage))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFoundError("job", "no job found with the given id")
		}
		return nil, fmt.Errorf("failed to finish job: %w", err)
	}
	return job, nil
}

// Fail marks the job failed before any item was processed, e.g. when a
// precondition check rejects the whole batch.
func (r *JobsRepository) Fail(ctx context.Context, id uuid.UUID, errorMessage string) (*models.Job, error) {
	query := fmt.Sprintf(`
		UPDATE pipeline_jobs
		SET status = 'failed', error_message = $2, completed_at = NOW(), updated_at = NOW()
		WHERE id = $1
		RETURNING %s
	`, jobColumns)

	job, err := scanJob(r.db.QueryRow(ctx, query, id, errorMessage))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFoundError("job", "no job found with the given id")
		}
		return nil, fmt.Errorf("failed to fail job: %w", err)
	}
	return job, nil
}

// List retrieves jobs matching the filters, newest first.
func (r *JobsRepository) List(ctx context.Context, filters *models.ListJobsFilters) ([]models.Job, error) {
	var conditions []string
	var args []any
	argIdx := 1

	if filters.WorkspaceID != nil {
		conditions = append(conditions, fmt.Sprintf("workspace_id = $%d", argIdx))
		args = append(args, *filters.WorkspaceID)
		argIdx++
	}
	if filters.Kind != nil {
		conditions = append(conditions, fmt.Sprintf("kind = $%d", argIdx))
		args = append(args, *filters.Kind)
		argIdx++
	}
	if filters.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, *filters.Status)
		argIdx++
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	limit := filters.Limit
	if limit <= 0 {
		limit = 50
	}

	query := fmt.Sprintf(`
		SELECT %s FROM pipeline_jobs
		%s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, jobColumns, where, argIdx, argIdx+1)
	args = append(args, limit, filters.Offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	defer rows.Close()

	var jobs []models.Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan job: %w", err)
		}
		jobs = append(jobs, *job)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate jobs: %w", err)
	}

	return jobs, nil
}
