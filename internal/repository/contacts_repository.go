package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	apperrors "github.com/guesthub/hub/internal/errors"
	"github.com/guesthub/hub/internal/models"
)

const contactColumns = `id, workspace_id, full_name, emails, profile_url, title, company, industry,
	seniority, summary, tags, enrichment_status, enrichment_cost, enriched_at, created_at, updated_at`

const contactColumnsQualified = `c.id, c.workspace_id, c.full_name, c.emails, c.profile_url, c.title, c.company, c.industry,
	c.seniority, c.summary, c.tags, c.enrichment_status, c.enrichment_cost, c.enriched_at, c.created_at, c.updated_at`

// ContactsRepository handles data access for contacts.
type ContactsRepository struct {
	db *pgxpool.Pool
}

// NewContactsRepository creates a new contacts repository.
func NewContactsRepository(db *pgxpool.Pool) *ContactsRepository {
	return &ContactsRepository{db: db}
}

func scanContact(row pgx.Row) (*models.Contact, error) {
	var c models.Contact
	err := row.Scan(
		&c.ID, &c.WorkspaceID, &c.FullName, &c.Emails, &c.ProfileURL, &c.Title,
		&c.Company, &c.Industry, &c.Seniority, &c.Summary, &c.Tags,
		&c.EnrichmentStatus, &c.EnrichmentCost, &c.EnrichedAt, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// GetByID retrieves one contact scoped to a workspace.
func (r *ContactsRepository) GetByID(ctx context.Context, workspaceID, id uuid.UUID) (*models.Contact, error) {
	query := fmt.Sprintf(`SELECT %s FROM contacts WHERE workspace_id = $1 AND id = $2`, contactColumns)

	contact, err := scanContact(r.db.QueryRow(ctx, query, workspaceID, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFoundError("contact", "no contact found with the given id")
		}
		return nil, fmt.Errorf("failed to get contact: %w", err)
	}
	return contact, nil
}

// ListByIDs retrieves the given contacts in the order the ids were supplied.
// Unknown ids are skipped silently; the pipeline counts them as failures
// when it cannot load them individually.
func (r *ContactsRepository) ListByIDs(ctx context.Context, workspaceID uuid.UUID, ids []uuid.UUID) ([]models.Contact, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := fmt.Sprintf(`
		SELECT %s FROM contacts
		WHERE workspace_id = $1 AND id = ANY($2)
	`, contactColumns)

	rows, err := r.db.Query(ctx, query, workspaceID, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}
	defer rows.Close()

	byID := make(map[uuid.UUID]models.Contact, len(ids))
	for rows.Next() {
		contact, err := scanContact(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan contact: %w", err)
		}
		byID[contact.ID] = *contact
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate contacts: %w", err)
	}

	ordered := make([]models.Contact, 0, len(byID))
	for _, id := range ids {
		if contact, ok := byID[id]; ok {
			ordered = append(ordered, contact)
		}
	}
	return ordered, nil
}

// SetEnrichmentStatus updates only the enrichment status of a contact.
func (r *ContactsRepository) SetEnrichmentStatus(ctx context.Context, id uuid.UUID, status models.EnrichmentStatus) error {
	query := `
		UPDATE contacts
		SET enrichment_status = $2, updated_at = NOW()
		WHERE id = $1
	`

	if _, err := r.db.Exec(ctx, query, id, status); err != nil {
		return fmt.Errorf("failed to set enrichment status: %w", err)
	}
	return nil
}

// SaveEnrichment persists the merged profile fields, adds the call cost to
// the contact's running total, and marks enrichment completed.
func (r *ContactsRepository) SaveEnrichment(ctx context.Context, contact *models.Contact, costUSD float64) error {
	query := `
		UPDATE contacts
		SET title = $2, company = $3, industry = $4, seniority = $5, summary = $6, tags = $7,
		    enrichment_status = 'completed', enrichment_cost = enrichment_cost + $8,
		    enriched_at = NOW(), updated_at = NOW()
		WHERE id = $1
	`

	_, err := r.db.Exec(ctx, query,
		contact.ID, contact.Title, contact.Company, contact.Industry,
		contact.Seniority, contact.Summary, contact.Tags, costUSD,
	)
	if err != nil {
		return fmt.Errorf("failed to save enrichment: %w", err)
	}
	return nil
}

// ListForScoring retrieves the given contacts ordered by their current
// relevance score for the event, descending with unscored contacts last.
// This order defines the item order of scoring batches.
func (r *ContactsRepository) ListForScoring(ctx context.Context, workspaceID, eventID uuid.UUID, ids []uuid.UUID) ([]models.Contact, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := fmt.Sprintf(`
		SELECT %s FROM contacts c
		LEFT JOIN guest_scores s ON s.contact_id = c.id AND s.event_id = $2
		WHERE c.workspace_id = $1 AND c.id = ANY($3)
		ORDER BY s.relevance_score DESC NULLS LAST, c.created_at ASC
	`, contactColumnsQualified)

	rows, err := r.db.Query(ctx, query, workspaceID, eventID, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts for scoring: %w", err)
	}
	defer rows.Close()

	var contacts []models.Contact
	for rows.Next() {
		contact, err := scanContact(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan contact: %w", err)
		}
		contacts = append(contacts, *contact)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate contacts: %w", err)
	}

	return contacts, nil
}
