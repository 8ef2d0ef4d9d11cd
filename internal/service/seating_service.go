package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/guesthub/hub/internal/ai"
	apperrors "github.com/guesthub/hub/internal/errors"
	"github.com/guesthub/hub/internal/models"
	"github.com/guesthub/hub/internal/observability"
)

// SeatingGuestSource resolves the guest views handed to the seating and
// introduction providers.
type SeatingGuestSource interface {
	ListGuestsForEvent(ctx context.Context, workspaceID, eventID uuid.UUID, contactIDs []uuid.UUID) ([]models.SeatingGuest, error)
}

// SeatingStore persists optimizer output.
type SeatingStore interface {
	InsertAssignments(ctx context.Context, assignments []models.SeatingAssignment) error
	InsertPairings(ctx context.Context, pairings []models.IntroductionPairing) error
}

// OptimizeSeatingRequest is one seating optimization run.
type OptimizeSeatingRequest struct {
	JobID       uuid.UUID              `validate:"required"`
	WorkspaceID uuid.UUID              `validate:"required"`
	EventID     uuid.UUID              `validate:"required"`
	ContactIDs  []uuid.UUID            `validate:"dive,required"`
	Tables      []models.Table         `validate:"required,min=1,dive"`
	Strategy    models.SeatingStrategy `validate:"oneof=mixed_interests similar_interests score_balanced"`
}

// GenerateIntroductionsRequest is one introduction suggestion run.
type GenerateIntroductionsRequest struct {
	JobID       uuid.UUID   `validate:"required"`
	WorkspaceID uuid.UUID   `validate:"required"`
	EventID     uuid.UUID   `validate:"required"`
	ContactIDs  []uuid.UUID `validate:"dive,required"`
	MaxPairings int         `validate:"min=1"`
}

// SeatingService runs the seating and introduction pipelines. Both make a
// single batched provider call per job; seating additionally carries a
// deterministic capacity-based fallback for when the model reply is
// unusable.
type SeatingService struct {
	ledger        JobLedger
	guests        SeatingGuestSource
	store         SeatingStore
	seating       ai.SeatingProvider
	introductions ai.IntroductionsProvider
	metrics       *observability.PipelineMetrics
	validate      *validator.Validate
}

// NewSeatingService creates the seating/introductions orchestrator.
func NewSeatingService(
	ledger JobLedger,
	guests SeatingGuestSource,
	store SeatingStore,
	seating ai.SeatingProvider,
	introductions ai.IntroductionsProvider,
	metrics *observability.PipelineMetrics,
) *SeatingService {
	return &SeatingService{
		ledger:        ledger,
		guests:        guests,
		store:         store,
		seating:       seating,
		introductions: introductions,
		metrics:       metrics,
		validate:      validator.New(validator.WithRequiredStructEnabled()),
	}
}

// OptimizeSeating asks the provider for a table plan over the whole guest
// list, validates it, and persists the assignments under a fresh batch id.
// When the provider fails or returns nothing usable, the deterministic
// capacity-based planner seats everyone instead.
func (s *SeatingService) OptimizeSeating(ctx context.Context, req OptimizeSeatingRequest) error {
	if err := s.validate.Struct(req); err != nil {
		return s.rejectJob(ctx, models.JobKindSeating, req.JobID,
			apperrors.NewValidationError("seating request", fmt.Sprintf("invalid seating request: %v", err)))
	}

	if _, err := s.ledger.Start(ctx, req.JobID); err != nil {
		return fmt.Errorf("start seating job: %w", err)
	}

	target := len(req.ContactIDs)
	if target == 0 {
		return s.finishJob(ctx, models.JobKindSeating, req.JobID, 0, 0, 0, nil)
	}

	guests, err := s.guests.ListGuestsForEvent(ctx, req.WorkspaceID, req.EventID, req.ContactIDs)
	if err != nil {
		return s.failWholeTarget(ctx, models.JobKindSeating, req.JobID, target,
			"guests could not be seated", fmt.Errorf("load seating guests: %w", err))
	}

	result := s.seating.SuggestSeating(ctx, ai.SeatingInput{
		Guests:   guests,
		Tables:   req.Tables,
		Strategy: req.Strategy,
	})
	s.metrics.RecordCost(string(models.JobKindSeating), result.CostUSD)

	placements := result.Placements
	if !result.Success || len(placements) == 0 {
		if !result.Success {
			slog.Warn("seating suggestion failed, using fallback planner",
				"job_id", req.JobID,
				"event_id", req.EventID,
				"error", result.Err,
			)
		}
		placements = ai.FallbackSeatingPlan(guests, req.Tables)
	}

	batchID, err := uuid.NewV7()
	if err != nil {
		return s.failWholeTarget(ctx, models.JobKindSeating, req.JobID, target,
			"guests could not be seated", fmt.Errorf("generate batch id: %w", err))
	}

	assignments := make([]models.SeatingAssignment, 0, len(placements))
	placed := make(map[uuid.UUID]struct{}, len(placements))
	for _, p := range placements {
		assignments = append(assignments, models.SeatingAssignment{
			BatchID:     batchID,
			EventID:     req.EventID,
			ContactID:   p.Guest.ContactID,
			TableNumber: p.TableNumber,
			Rationale:   p.Rationale,
			Confidence:  p.Confidence,
		})
		placed[p.Guest.ContactID] = struct{}{}
	}

	if len(assignments) > 0 {
		if err := s.store.InsertAssignments(ctx, assignments); err != nil {
			return s.failWholeTarget(ctx, models.JobKindSeating, req.JobID, target,
				"guests could not be seated", fmt.Errorf("insert seating assignments: %w", err))
		}
	}

	// A guest counts as completed when this run placed them; the model may
	// legitimately leave guests out, and loads can miss archived contacts.
	completed := 0
	for _, id := range req.ContactIDs {
		if _, ok := placed[id]; ok {
			completed++
			s.metrics.RecordItem(string(models.JobKindSeating), "completed")
		} else {
			s.metrics.RecordItem(string(models.JobKindSeating), "failed")
		}
	}
	failed := target - completed

	slog.Info("seating batch persisted",
		"job_id", req.JobID,
		"batch_id", batchID,
		"assignments", len(assignments),
		"strategy", req.Strategy,
	)
	return s.finishJob(ctx, models.JobKindSeating, req.JobID, completed, failed, target,
		failureMessage(failed, target, "guests could not be seated"))
}

// GenerateIntroductions asks the provider for up to MaxPairings guest
// introductions and persists them insert-only under a fresh batch id.
// Suggestions are not deduplicated against earlier batches.
func (s *SeatingService) GenerateIntroductions(ctx context.Context, req GenerateIntroductionsRequest) error {
	if err := s.validate.Struct(req); err != nil {
		return s.rejectJob(ctx, models.JobKindIntroductions, req.JobID,
			apperrors.NewValidationError("introductions request", fmt.Sprintf("invalid introductions request: %v", err)))
	}

	if _, err := s.ledger.Start(ctx, req.JobID); err != nil {
		return fmt.Errorf("start introductions job: %w", err)
	}

	target := len(req.ContactIDs)
	if target == 0 {
		return s.finishJob(ctx, models.JobKindIntroductions, req.JobID, 0, 0, 0, nil)
	}

	guests, err := s.guests.ListGuestsForEvent(ctx, req.WorkspaceID, req.EventID, req.ContactIDs)
	if err != nil {
		return s.failWholeTarget(ctx, models.JobKindIntroductions, req.JobID, target,
			"introduction suggestions could not be generated", fmt.Errorf("load introduction guests: %w", err))
	}

	result := s.introductions.SuggestIntroductions(ctx, ai.IntroductionsInput{
		Guests:      guests,
		MaxPairings: req.MaxPairings,
	})
	s.metrics.RecordCost(string(models.JobKindIntroductions), result.CostUSD)

	if !result.Success {
		for range req.ContactIDs {
			s.metrics.RecordItem(string(models.JobKindIntroductions), "failed")
		}
		slog.Error("introduction suggestion failed",
			"job_id", req.JobID,
			"event_id", req.EventID,
			"error", result.Err,
		)
		return s.finishJob(ctx, models.JobKindIntroductions, req.JobID, 0, target, target,
			failureMessage(target, target, "introduction suggestions could not be generated"))
	}

	batchID, err := uuid.NewV7()
	if err != nil {
		return s.failWholeTarget(ctx, models.JobKindIntroductions, req.JobID, target,
			"introduction suggestions could not be generated", fmt.Errorf("generate batch id: %w", err))
	}

	pairings := make([]models.IntroductionPairing, 0, len(result.Pairings))
	for _, p := range result.Pairings {
		pairings = append(pairings, models.IntroductionPairing{
			BatchID:        batchID,
			EventID:        req.EventID,
			ContactAID:     p.GuestA.ContactID,
			ContactBID:     p.GuestB.ContactID,
			Reason:         p.Reason,
			MutualInterest: p.MutualInterest,
			Priority:       p.Priority,
		})
	}

	if len(pairings) > 0 {
		if err := s.store.InsertPairings(ctx, pairings); err != nil {
			return s.failWholeTarget(ctx, models.JobKindIntroductions, req.JobID, target,
				"introduction suggestions could not be generated", fmt.Errorf("insert introduction pairings: %w", err))
		}
	}

	for range req.ContactIDs {
		s.metrics.RecordItem(string(models.JobKindIntroductions), "completed")
	}
	slog.Info("introduction batch persisted",
		"job_id", req.JobID,
		"batch_id", batchID,
		"pairings", len(pairings),
	)
	return s.finishJob(ctx, models.JobKindIntroductions, req.JobID, target, 0, target, nil)
}

func (s *SeatingService) rejectJob(ctx context.Context, kind models.JobKind, jobID uuid.UUID, cause error) error {
	if _, err := s.ledger.Fail(ctx, jobID, cause.Error()); err != nil {
		return fmt.Errorf("fail %s job: %w", kind, err)
	}
	s.metrics.RecordJob(string(kind), string(models.JobStatusFailed))
	slog.Warn("job rejected", "job_id", jobID, "kind", kind, "reason", cause.Error())
	return nil
}

// failWholeTarget finishes a started job with every target item counted
// failed after an unrecoverable step error. Once Start has succeeded the
// ledger row is the only channel the caller polls, so returning the error
// instead would strand the job in progress.
func (s *SeatingService) failWholeTarget(ctx context.Context, kind models.JobKind, jobID uuid.UUID, target int, what string, cause error) error {
	slog.Error("job step failed", "job_id", jobID, "kind", kind, "error", cause)
	for i := 0; i < target; i++ {
		s.metrics.RecordItem(string(kind), "failed")
	}
	return s.finishJob(ctx, kind, jobID, 0, target, target, failureMessage(target, target, what))
}

func (s *SeatingService) finishJob(ctx context.Context, kind models.JobKind, jobID uuid.UUID, completed, failed, target int, errorMessage *string) error {
	job, err := s.ledger.Finish(ctx, jobID, completed, failed, target, errorMessage)
	if err != nil {
		return fmt.Errorf("finish %s job: %w", kind, err)
	}
	s.metrics.RecordJob(string(kind), string(job.Status))
	slog.Info("job finished",
		"job_id", jobID,
		"kind", kind,
		"status", job.Status,
		"completed", completed,
		"failed", failed,
	)
	return nil
}
