// Package main provides a CLI tool to enqueue a pipeline job: it creates
// the ledger row and inserts the matching River job.
//
// Usage:
//
//	runjob -kind enrichment -workspace <uuid> -contacts <uuid,uuid,...>
//	runjob -kind scoring -workspace <uuid> -event <uuid> -contacts <uuid,...>
//	runjob -kind seating -workspace <uuid> -event <uuid> -contacts <uuid,...> -tables 1:8,2:10 -strategy mixed_interests
//	runjob -kind introductions -workspace <uuid> -event <uuid> -contacts <uuid,...> -max-pairings 10
//
// Environment variables:
//   - DATABASE_URL: PostgreSQL connection string (required)
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"

	"github.com/guesthub/hub/internal/config"
	"github.com/guesthub/hub/internal/jobs"
	"github.com/guesthub/hub/internal/models"
	"github.com/guesthub/hub/internal/repository"
	"github.com/guesthub/hub/pkg/database"
)

func main() {
	var (
		kindFlag      = flag.String("kind", "", "pipeline kind: enrichment, scoring, seating or introductions")
		workspaceFlag = flag.String("workspace", "", "workspace uuid")
		eventFlag     = flag.String("event", "", "event uuid (scoring, seating, introductions)")
		contactsFlag  = flag.String("contacts", "", "comma-separated contact uuids")
		tablesFlag    = flag.String("tables", "", "comma-separated number:seats pairs (seating)")
		strategyFlag  = flag.String("strategy", string(models.StrategyMixedInterests), "seating strategy")
		pairingsFlag  = flag.Int("max-pairings", 10, "maximum introduction pairings")
	)
	flag.Parse()

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	if err := run(*kindFlag, *workspaceFlag, *eventFlag, *contactsFlag, *tablesFlag, *strategyFlag, *pairingsFlag); err != nil {
		slog.Error("runjob failed", "error", err)
		os.Exit(1)
	}
}

func run(kindStr, workspaceStr, eventStr, contactsStr, tablesStr, strategyStr string, maxPairings int) error {
	ctx := context.Background()

	kind := models.JobKind(kindStr)
	switch kind {
	case models.JobKindEnrichment, models.JobKindScoring, models.JobKindSeating, models.JobKindIntroductions:
	default:
		return fmt.Errorf("unknown -kind %q", kindStr)
	}

	workspaceID, err := uuid.Parse(workspaceStr)
	if err != nil {
		return fmt.Errorf("parse -workspace: %w", err)
	}

	contactIDs, err := parseUUIDList(contactsStr)
	if err != nil {
		return fmt.Errorf("parse -contacts: %w", err)
	}

	var eventID uuid.UUID
	if kind != models.JobKindEnrichment {
		eventID, err = uuid.Parse(eventStr)
		if err != nil {
			return fmt.Errorf("parse -event: %w", err)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	db, err := database.NewPostgresPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	jobsRepo := repository.NewJobsRepository(db)
	job, err := jobsRepo.Create(ctx, &models.CreateJobRequest{
		WorkspaceID: workspaceID,
		Kind:        kind,
		TargetCount: len(contactIDs),
	})
	if err != nil {
		return fmt.Errorf("create job row: %w", err)
	}

	// Insert-only client: no workers registered here.
	riverClient, err := river.NewClient(riverpgxv5.New(db), &river.Config{})
	if err != nil {
		return fmt.Errorf("create river client: %w", err)
	}
	inserter := jobs.NewRiverJobInserter(riverClient, cfg.PipelineQueue)

	switch kind {
	case models.JobKindEnrichment:
		err = inserter.InsertEnrichmentJob(ctx, jobs.EnrichmentJobArgs{
			JobID:       job.ID,
			WorkspaceID: workspaceID,
			ContactIDs:  contactIDs,
		})
	case models.JobKindScoring:
		err = inserter.InsertScoringJob(ctx, jobs.ScoringJobArgs{
			JobID:       job.ID,
			WorkspaceID: workspaceID,
			EventID:     eventID,
			ContactIDs:  contactIDs,
		})
	case models.JobKindSeating:
		var tables []models.Table
		tables, err = parseTables(tablesStr)
		if err != nil {
			return fmt.Errorf("parse -tables: %w", err)
		}
		err = inserter.InsertSeatingJob(ctx, jobs.SeatingJobArgs{
			JobID:       job.ID,
			WorkspaceID: workspaceID,
			EventID:     eventID,
			ContactIDs:  contactIDs,
			Tables:      tables,
			Strategy:    models.SeatingStrategy(strategyStr),
		})
	case models.JobKindIntroductions:
		err = inserter.InsertIntroductionsJob(ctx, jobs.IntroductionsJobArgs{
			JobID:       job.ID,
			WorkspaceID: workspaceID,
			EventID:     eventID,
			ContactIDs:  contactIDs,
			MaxPairings: maxPairings,
		})
	}
	if err != nil {
		return fmt.Errorf("enqueue job: %w", err)
	}

	slog.Info("job enqueued", "job_id", job.ID, "kind", kind, "targets", len(contactIDs))
	return nil
}

func parseUUIDList(s string) ([]uuid.UUID, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]uuid.UUID, 0, len(parts))
	for _, p := range parts {
		id, err := uuid.Parse(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("%q: %w", p, err)
		}
		out = append(out, id)
	}
	return out, nil
}

// parseTables parses "1:8,2:10" into table definitions.
func parseTables(s string) ([]models.Table, error) {
	if s == "" {
		return nil, fmt.Errorf("-tables is required for seating jobs")
	}
	parts := strings.Split(s, ",")
	out := make([]models.Table, 0, len(parts))
	for _, p := range parts {
		numStr, seatsStr, ok := strings.Cut(strings.TrimSpace(p), ":")
		if !ok {
			return nil, fmt.Errorf("%q: expected number:seats", p)
		}
		num, err := strconv.Atoi(numStr)
		if err != nil {
			return nil, fmt.Errorf("%q: %w", p, err)
		}
		seats, err := strconv.Atoi(seatsStr)
		if err != nil {
			return nil, fmt.Errorf("%q: %w", p, err)
		}
		out = append(out, models.Table{Number: num, Seats: seats})
	}
	return out, nil
}
