package jobs

import (
	"context"
	"log/slog"

	"github.com/riverqueue/river"

	"github.com/guesthub/hub/internal/service"
)

// Pipeline jobs are single-shot: the ledger row records the outcome and a
// failed run is never resumed automatically, so every worker swallows
// orchestrator errors after logging them instead of letting River retry.

// EnrichmentWorker processes contact enrichment jobs.
type EnrichmentWorker struct {
	river.WorkerDefaults[EnrichmentJobArgs]
	service *service.EnrichmentService
}

// NewEnrichmentWorker creates an enrichment worker.
func NewEnrichmentWorker(svc *service.EnrichmentService) *EnrichmentWorker {
	return &EnrichmentWorker{service: svc}
}

// Work runs one enrichment batch.
func (w *EnrichmentWorker) Work(ctx context.Context, job *river.Job[EnrichmentJobArgs]) error {
	args := job.Args

	slog.Debug("processing enrichment job",
		"river_job_id", job.ID,
		"job_id", args.JobID,
		"contacts", len(args.ContactIDs),
	)

	if err := w.service.Run(ctx, args.JobID, args.WorkspaceID, args.ContactIDs); err != nil {
		slog.Error("enrichment job errored", "job_id", args.JobID, "error", err)
	}
	return nil
}

// ScoringWorker processes relevance scoring jobs.
type ScoringWorker struct {
	river.WorkerDefaults[ScoringJobArgs]
	service *service.ScoringService
}

// NewScoringWorker creates a scoring worker.
func NewScoringWorker(svc *service.ScoringService) *ScoringWorker {
	return &ScoringWorker{service: svc}
}

// Work runs one scoring batch.
func (w *ScoringWorker) Work(ctx context.Context, job *river.Job[ScoringJobArgs]) error {
	args := job.Args

	slog.Debug("processing scoring job",
		"river_job_id", job.ID,
		"job_id", args.JobID,
		"event_id", args.EventID,
		"contacts", len(args.ContactIDs),
	)

	if err := w.service.ScoreBatchForEvent(ctx, args.JobID, args.WorkspaceID, args.EventID, args.ContactIDs); err != nil {
		slog.Error("scoring job errored", "job_id", args.JobID, "error", err)
	}
	return nil
}

// SeatingWorker processes seating optimization jobs.
type SeatingWorker struct {
	river.WorkerDefaults[SeatingJobArgs]
	service *service.SeatingService
}

// NewSeatingWorker creates a seating worker.
func NewSeatingWorker(svc *service.SeatingService) *SeatingWorker {
	return &SeatingWorker{service: svc}
}

// Work runs one seating optimization.
func (w *SeatingWorker) Work(ctx context.Context, job *river.Job[SeatingJobArgs]) error {
	args := job.Args

	slog.Debug("processing seating job",
		"river_job_id", job.ID,
		"job_id", args.JobID,
		"event_id", args.EventID,
		"strategy", args.Strategy,
	)

	err := w.service.OptimizeSeating(ctx, service.OptimizeSeatingRequest{
		JobID:       args.JobID,
		WorkspaceID: args.WorkspaceID,
		EventID:     args.EventID,
		ContactIDs:  args.ContactIDs,
		Tables:      args.Tables,
		Strategy:    args.Strategy,
	})
	if err != nil {
		slog.Error("seating job errored", "job_id", args.JobID, "error", err)
	}
	return nil
}

// IntroductionsWorker processes introduction suggestion jobs.
type IntroductionsWorker struct {
	river.WorkerDefaults[IntroductionsJobArgs]
	service *service.SeatingService
}

// NewIntroductionsWorker creates an introductions worker.
func NewIntroductionsWorker(svc *service.SeatingService) *IntroductionsWorker {
	return &IntroductionsWorker{service: svc}
}

// Work runs one introduction generation batch.
func (w *IntroductionsWorker) Work(ctx context.Context, job *river.Job[IntroductionsJobArgs]) error {
	args := job.Args

	slog.Debug("processing introductions job",
		"river_job_id", job.ID,
		"job_id", args.JobID,
		"event_id", args.EventID,
		"max_pairings", args.MaxPairings,
	)

	err := w.service.GenerateIntroductions(ctx, service.GenerateIntroductionsRequest{
		JobID:       args.JobID,
		WorkspaceID: args.WorkspaceID,
		EventID:     args.EventID,
		ContactIDs:  args.ContactIDs,
		MaxPairings: args.MaxPairings,
	})
	if err != nil {
		slog.Error("introductions job errored", "job_id", args.JobID, "error", err)
	}
	return nil
}
