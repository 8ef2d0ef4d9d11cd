package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/guesthub/hub/internal/models"
)

// ObjectivesRepository handles read access to event objectives. Objectives
// are configured by the surrounding application; pipelines only read them.
type ObjectivesRepository struct {
	db *pgxpool.Pool
}

// NewObjectivesRepository creates a new objectives repository.
func NewObjectivesRepository(db *pgxpool.Pool) *ObjectivesRepository {
	return &ObjectivesRepository{db: db}
}

// ListByEvent retrieves an event's objectives, highest weight first.
func (r *ObjectivesRepository) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]models.Objective, error) {
	query := `
		SELECT id, event_id, description, weight, created_at
		FROM event_objectives
		WHERE event_id = $1
		ORDER BY weight DESC, created_at ASC
	`

	rows, err := r.db.Query(ctx, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list objectives: %w", err)
	}
	defer rows.Close()

	var objectives []models.Objective
	for rows.Next() {
		var o models.Objective
		if err := rows.Scan(&o.ID, &o.EventID, &o.Description, &o.Weight, &o.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan objective: %w", err)
		}
		objectives = append(objectives, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate objectives: %w", err)
	}

	return objectives, nil
}
