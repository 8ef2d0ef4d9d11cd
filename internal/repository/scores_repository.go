package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	apperrors "github.com/guesthub/hub/internal/errors"
	"github.com/guesthub/hub/internal/models"
)

// ScoresRepository handles data access for guest scores.
type ScoresRepository struct {
	db *pgxpool.Pool
}

// NewScoresRepository creates a new scores repository.
func NewScoresRepository(db *pgxpool.Pool) *ScoresRepository {
	return &ScoresRepository{db: db}
}

// Upsert writes a scoring result for a (contact, event) pair. A repeat
// upsert fully replaces the prior row, including matched objectives and
// talking points; no scoring history is kept.
func (r *ScoresRepository) Upsert(ctx context.Context, req *models.UpsertGuestScoreRequest) (*models.GuestScore, error) {
	matched, err := json.Marshal(req.MatchedObjectives)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal matched objectives: %w", err)
	}

	query := `
		INSERT INTO guest_scores (id, contact_id, event_id, relevance_score, matched_objectives, rationale, talking_points)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (contact_id, event_id) DO UPDATE SET
			relevance_score = EXCLUDED.relevance_score,
			matched_objectives = EXCLUDED.matched_objectives,
			rationale = EXCLUDED.rationale,
			talking_points = EXCLUDED.talking_points,
			updated_at = NOW()
		RETURNING id, contact_id, event_id, relevance_score, matched_objectives, rationale, talking_points, created_at, updated_at
	`

	return r.scanScore(r.db.QueryRow(ctx, query,
		uuid.Must(uuid.NewV7()), req.ContactID, req.EventID,
		req.RelevanceScore, matched, req.Rationale, req.TalkingPoints,
	))
}

// GetByContactAndEvent retrieves the score for a (contact, event) pair.
func (r *ScoresRepository) GetByContactAndEvent(ctx context.Context, contactID, eventID uuid.UUID) (*models.GuestScore, error) {
	query := `
		SELECT id, contact_id, event_id, relevance_score, matched_objectives, rationale, talking_points, created_at, updated_at
		FROM guest_scores
		WHERE contact_id = $1 AND event_id = $2
	`

	score, err := r.scanScore(r.db.QueryRow(ctx, query, contactID, eventID))
	if err != nil {
		return nil, err
	}
	return score, nil
}

func (r *ScoresRepository) scanScore(row pgx.Row) (*models.GuestScore, error) {
	var score models.GuestScore
	var matched []byte
	err := row.Scan(
		&score.ID, &score.ContactID, &score.EventID, &score.RelevanceScore,
		&matched, &score.Rationale, &score.TalkingPoints, &score.CreatedAt, &score.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFoundError("guest_score", "no score found for the given contact and event")
		}
		return nil, fmt.Errorf("failed to scan guest score: %w", err)
	}

	if len(matched) > 0 {
		if err := json.Unmarshal(matched, &score.MatchedObjectives); err != nil {
			return nil, fmt.Errorf("failed to unmarshal matched objectives: %w", err)
		}
	}

	return &score, nil
}

// ListGuestsForEvent returns the seating/introduction view of an event's
// guests: contact facts joined with their current relevance score, ordered
// by relevance score descending with unscored guests last. The same order
// defines the item order of scoring batches.
func (r *ScoresRepository) ListGuestsForEvent(ctx context.Context, workspaceID, eventID uuid.UUID, contactIDs []uuid.UUID) ([]models.SeatingGuest, error) {
	if len(contactIDs) == 0 {
		return nil, nil
	}

	query := `
		SELECT c.id, c.full_name, c.company, c.title, c.industry, s.relevance_score
		FROM contacts c
		LEFT JOIN guest_scores s ON s.contact_id = c.id AND s.event_id = $2
		WHERE c.workspace_id = $1 AND c.id = ANY($3)
		ORDER BY s.relevance_score DESC NULLS LAST, c.created_at ASC
	`

	rows, err := r.db.Query(ctx, query, workspaceID, eventID, contactIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list guests: %w", err)
	}
	defer rows.Close()

	var guests []models.SeatingGuest
	for rows.Next() {
		var g models.SeatingGuest
		if err := rows.Scan(&g.ContactID, &g.FullName, &g.Company, &g.Title, &g.Industry, &g.RelevanceScore); err != nil {
			return nil, fmt.Errorf("failed to scan guest: %w", err)
		}
		guests = append(guests, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate guests: %w", err)
	}

	return guests, nil
}
