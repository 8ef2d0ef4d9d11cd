package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/guesthub/hub/internal/models"
)

// SeatingRepository handles data access for seating assignments and
// introduction pairings. Both are insert-only and batch-tagged: one
// optimizer invocation shares a batch ID, and a later invocation writes new
// rows rather than mutating old ones.
type SeatingRepository struct {
	db *pgxpool.Pool
}

// NewSeatingRepository creates a new seating repository.
func NewSeatingRepository(db *pgxpool.Pool) *SeatingRepository {
	return &SeatingRepository{db: db}
}

// InsertAssignments writes one batch of seating assignments.
func (r *SeatingRepository) InsertAssignments(ctx context.Context, assignments []models.SeatingAssignment) error {
	if len(assignments) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	query := `
		INSERT INTO seating_assignments (id, batch_id, event_id, contact_id, table_number, seat_number, rationale, confidence)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	for _, a := range assignments {
		batch.Queue(query, uuid.Must(uuid.NewV7()), a.BatchID, a.EventID, a.ContactID,
			a.TableNumber, a.SeatNumber, a.Rationale, a.Confidence)
	}

	results := r.db.SendBatch(ctx, batch)
	defer results.Close()

	for range assignments {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("failed to insert seating assignment: %w", err)
		}
	}
	return nil
}

// ListAssignmentsByBatch retrieves the assignments of one optimizer run.
func (r *SeatingRepository) ListAssignmentsByBatch(ctx context.Context, batchID uuid.UUID) ([]models.SeatingAssignment, error) {
	query := `
		SELECT id, batch_id, event_id, contact_id, table_number, seat_number, rationale, confidence, created_at
		FROM seating_assignments
		WHERE batch_id = $1
		ORDER BY table_number ASC, created_at ASC
	`

	rows, err := r.db.Query(ctx, query, batchID)
	if err != nil {
		return nil, fmt.Errorf("failed to list seating assignments: %w", err)
	}
	defer rows.Close()

	var assignments []models.SeatingAssignment
	for rows.Next() {
		var a models.SeatingAssignment
		if err := rows.Scan(&a.ID, &a.BatchID, &a.EventID, &a.ContactID, &a.TableNumber,
			&a.SeatNumber, &a.Rationale, &a.Confidence, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan seating assignment: %w", err)
		}
		assignments = append(assignments, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate seating assignments: %w", err)
	}

	return assignments, nil
}

// InsertPairings writes one batch of introduction pairings. No
// deduplication happens against pairings from a previous invocation for the
// same event; callers regenerate variations on purpose.
func (r *SeatingRepository) InsertPairings(ctx context.Context, pairings []models.IntroductionPairing) error {
	if len(pairings) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	query := `
		INSERT INTO introduction_pairings (id, batch_id, event_id, contact_a_id, contact_b_id, reason, mutual_interest, priority)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	for _, p := range pairings {
		batch.Queue(query, uuid.Must(uuid.NewV7()), p.BatchID, p.EventID, p.ContactAID,
			p.ContactBID, p.Reason, p.MutualInterest, p.Priority)
	}

	results := r.db.SendBatch(ctx, batch)
	defer results.Close()

	for range pairings {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("failed to insert introduction pairing: %w", err)
		}
	}
	return nil
}
