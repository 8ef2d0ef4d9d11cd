package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/guesthub/hub/internal/ai"
	"github.com/guesthub/hub/internal/models"
	"github.com/guesthub/hub/internal/observability"
)

// EnrichmentContactsStore is the contact persistence needed by enrichment.
type EnrichmentContactsStore interface {
	GetByID(ctx context.Context, workspaceID, id uuid.UUID) (*models.Contact, error)
	SetEnrichmentStatus(ctx context.Context, id uuid.UUID, status models.EnrichmentStatus) error
	SaveEnrichment(ctx context.Context, contact *models.Contact, costUSD float64) error
}

// EnrichmentService runs the contact enrichment pipeline: one provider call
// per contact, fill-if-known merging, and ledger counters persisted after
// every item so callers can poll live progress.
type EnrichmentService struct {
	ledger   JobLedger
	contacts EnrichmentContactsStore
	provider ai.EnrichmentProvider
	metrics  *observability.PipelineMetrics
}

// NewEnrichmentService creates an enrichment orchestrator. metrics may be
// nil when metrics are disabled.
func NewEnrichmentService(
	ledger JobLedger,
	contacts EnrichmentContactsStore,
	provider ai.EnrichmentProvider,
	metrics *observability.PipelineMetrics,
) *EnrichmentService {
	return &EnrichmentService{
		ledger:   ledger,
		contacts: contacts,
		provider: provider,
		metrics:  metrics,
	}
}

// Run processes the target contacts sequentially. A single failing item
// never aborts the batch: it is logged, counted and the loop continues.
// Once the job has started, failures are reported only through the ledger.
func (s *EnrichmentService) Run(ctx context.Context, jobID, workspaceID uuid.UUID, contactIDs []uuid.UUID) error {
	if _, err := s.ledger.Start(ctx, jobID); err != nil {
		return fmt.Errorf("start enrichment job: %w", err)
	}

	slog.Info("enrichment job started", "job_id", jobID, "targets", len(contactIDs))

	completed, failed := 0, 0
	for _, contactID := range contactIDs {
		if err := s.enrichOne(ctx, workspaceID, contactID); err != nil {
			slog.Error("contact enrichment failed",
				"job_id", jobID,
				"contact_id", contactID,
				"error", err,
			)
			failed++
			s.metrics.RecordItem(string(models.JobKindEnrichment), "failed")
		} else {
			completed++
			s.metrics.RecordItem(string(models.JobKindEnrichment), "completed")
		}

		// Persisted per item, not per batch, so external pollers see
		// live progress.
		if err := s.ledger.RecordProgress(ctx, jobID, completed, failed); err != nil {
			slog.Error("failed to record enrichment progress", "job_id", jobID, "error", err)
		}
	}

	job, err := s.ledger.Finish(ctx, jobID, completed, failed, len(contactIDs), failureMessage(failed, len(contactIDs), "contacts failed enrichment"))
	if err != nil {
		return fmt.Errorf("finish enrichment job: %w", err)
	}

	s.metrics.RecordJob(string(models.JobKindEnrichment), string(job.Status))
	slog.Info("enrichment job finished",
		"job_id", jobID,
		"status", job.Status,
		"completed", completed,
		"failed", failed,
	)
	return nil
}

func (s *EnrichmentService) enrichOne(ctx context.Context, workspaceID, contactID uuid.UUID) error {
	contact, err := s.contacts.GetByID(ctx, workspaceID, contactID)
	if err != nil {
		return fmt.Errorf("load contact: %w", err)
	}

	if err := s.contacts.SetEnrichmentStatus(ctx, contact.ID, models.EnrichmentInProgress); err != nil {
		return fmt.Errorf("mark contact in progress: %w", err)
	}

	result := s.provider.Enrich(ctx, ai.EnrichmentInput{
		FullName:   contact.FullName,
		Emails:     contact.Emails,
		Company:    contact.Company,
		Title:      contact.Title,
		ProfileURL: contact.ProfileURL,
	})
	if !result.Success {
		s.markFailed(ctx, contact.ID)
		return fmt.Errorf("provider: %s", result.Err)
	}

	contact.ApplyEnrichment(result.Fields)

	if err := s.contacts.SaveEnrichment(ctx, contact, result.CostUSD); err != nil {
		s.markFailed(ctx, contact.ID)
		return fmt.Errorf("save enrichment: %w", err)
	}

	s.metrics.RecordCost(string(models.JobKindEnrichment), result.CostUSD)
	return nil
}

// markFailed best-effort flags the contact; a failure here is only logged
// since the item is already being counted as failed.
func (s *EnrichmentService) markFailed(ctx context.Context, contactID uuid.UUID) {
	if err := s.contacts.SetEnrichmentStatus(ctx, contactID, models.EnrichmentFailed); err != nil {
		slog.Error("failed to mark contact enrichment failed", "contact_id", contactID, "error", err)
	}
}

// failureMessage returns a terminal error message when every item failed,
// nil otherwise.
func failureMessage(failed, target int, what string) *string {
	if target == 0 || failed != target {
		return nil
	}
	msg := fmt.Sprintf("all %d %s", target, what)
	return &msg
}
