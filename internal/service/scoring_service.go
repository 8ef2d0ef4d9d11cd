package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/guesthub/hub/internal/ai"
	apperrors "github.com/guesthub/hub/internal/errors"
	"github.com/guesthub/hub/internal/models"
	"github.com/guesthub/hub/internal/observability"
)

// ScoringContactsStore is the contact persistence needed by scoring.
type ScoringContactsStore interface {
	GetByID(ctx context.Context, workspaceID, id uuid.UUID) (*models.Contact, error)
	ListForScoring(ctx context.Context, workspaceID, eventID uuid.UUID, ids []uuid.UUID) ([]models.Contact, error)
}

// ScoresStore is the guest score persistence needed by scoring.
type ScoresStore interface {
	Upsert(ctx context.Context, req *models.UpsertGuestScoreRequest) (*models.GuestScore, error)
}

// ScoringService runs the relevance scoring pipeline: one provider call per
// contact against the event's weighted objectives, persisted by destructive
// upsert on (contact, event).
type ScoringService struct {
	ledger     JobLedger
	contacts   ScoringContactsStore
	objectives ObjectivesSource
	scores     ScoresStore
	provider   ai.ScoringProvider
	metrics    *observability.PipelineMetrics
}

// NewScoringService creates a scoring orchestrator. metrics may be nil when
// metrics are disabled.
func NewScoringService(
	ledger JobLedger,
	contacts ScoringContactsStore,
	objectives ObjectivesSource,
	scores ScoresStore,
	provider ai.ScoringProvider,
	metrics *observability.PipelineMetrics,
) *ScoringService {
	return &ScoringService{
		ledger:     ledger,
		contacts:   contacts,
		objectives: objectives,
		scores:     scores,
		provider:   provider,
		metrics:    metrics,
	}
}

// ScoreContact scores one contact against an event and persists the result.
// An unparseable model reply still persists the deterministic fallback
// score, so the returned row is always schema-valid.
func (s *ScoringService) ScoreContact(ctx context.Context, workspaceID, contactID, eventID uuid.UUID) (*models.GuestScore, error) {
	objectives, err := s.objectives.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("load objectives: %w", err)
	}
	if len(objectives) == 0 {
		return nil, noObjectivesError(eventID)
	}

	contact, err := s.contacts.GetByID(ctx, workspaceID, contactID)
	if err != nil {
		return nil, fmt.Errorf("load contact: %w", err)
	}

	return s.scoreOne(ctx, contact, eventID, objectives)
}

// ScoreBatchForEvent scores the target contacts sequentially under one job.
// Precondition: the event must have at least one objective; otherwise the
// job is failed immediately with a descriptive error and no contact is
// processed.
func (s *ScoringService) ScoreBatchForEvent(ctx context.Context, jobID, workspaceID, eventID uuid.UUID, contactIDs []uuid.UUID) error {
	objectives, err := s.objectives.ListByEvent(ctx, eventID)
	if err != nil {
		return fmt.Errorf("load objectives: %w", err)
	}
	if len(objectives) == 0 {
		precond := noObjectivesError(eventID)
		if _, failErr := s.ledger.Fail(ctx, jobID, precond.Error()); failErr != nil {
			return fmt.Errorf("fail scoring job: %w", failErr)
		}
		s.metrics.RecordJob(string(models.JobKindScoring), string(models.JobStatusFailed))
		slog.Warn("scoring job rejected", "job_id", jobID, "event_id", eventID, "reason", precond.Error())
		return nil
	}

	if _, err := s.ledger.Start(ctx, jobID); err != nil {
		return fmt.Errorf("start scoring job: %w", err)
	}

	target := len(contactIDs)
	slog.Info("scoring job started", "job_id", jobID, "event_id", eventID, "targets", target)

	contacts, err := s.contacts.ListForScoring(ctx, workspaceID, eventID, contactIDs)
	if err != nil {
		// Nothing was processed; the whole target set counts as failed.
		slog.Error("failed to load scoring targets", "job_id", jobID, "error", err)
		contacts = nil
	}

	completed, failed := 0, target-len(contacts)
	for i := range contacts {
		contact := &contacts[i]
		if _, err := s.scoreOne(ctx, contact, eventID, objectives); err != nil {
			slog.Error("contact scoring failed",
				"job_id", jobID,
				"contact_id", contact.ID,
				"error", err,
			)
			failed++
			s.metrics.RecordItem(string(models.JobKindScoring), "failed")
		} else {
			completed++
			s.metrics.RecordItem(string(models.JobKindScoring), "completed")
		}

		if err := s.ledger.RecordProgress(ctx, jobID, completed, failed); err != nil {
			slog.Error("failed to record scoring progress", "job_id", jobID, "error", err)
		}
	}

	job, err := s.ledger.Finish(ctx, jobID, completed, failed, target, failureMessage(failed, target, "contacts failed scoring"))
	if err != nil {
		return fmt.Errorf("finish scoring job: %w", err)
	}

	s.metrics.RecordJob(string(models.JobKindScoring), string(job.Status))
	slog.Info("scoring job finished",
		"job_id", jobID,
		"status", job.Status,
		"completed", completed,
		"failed", failed,
	)
	return nil
}

// noObjectivesError is the unmet precondition for any scoring of the event.
func noObjectivesError(eventID uuid.UUID) *apperrors.PreconditionError {
	return apperrors.NewPreconditionError("event objectives",
		fmt.Sprintf("event %s has no objectives configured; add objectives before scoring", eventID))
}

func (s *ScoringService) scoreOne(ctx context.Context, contact *models.Contact, eventID uuid.UUID, objectives []models.Objective) (*models.GuestScore, error) {
	result := s.provider.Score(ctx, ai.ScoringInput{
		Contact:    *contact,
		Objectives: objectives,
	})
	if !result.Success {
		return nil, fmt.Errorf("provider: %s", result.Err)
	}

	score, err := s.scores.Upsert(ctx, &models.UpsertGuestScoreRequest{
		ContactID:         contact.ID,
		EventID:           eventID,
		RelevanceScore:    result.RelevanceScore,
		MatchedObjectives: result.MatchedObjectives,
		Rationale:         result.Rationale,
		TalkingPoints:     result.TalkingPoints,
	})
	if err != nil {
		return nil, fmt.Errorf("upsert score: %w", err)
	}

	s.metrics.RecordCost(string(models.JobKindScoring), result.CostUSD)
	return score, nil
}
