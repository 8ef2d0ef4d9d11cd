package jobs

import (
	"context"

	"github.com/riverqueue/river"
)

// JobInserter enqueues pipeline jobs without exposing River to callers.
type JobInserter interface {
	InsertEnrichmentJob(ctx context.Context, args EnrichmentJobArgs) error
	InsertScoringJob(ctx context.Context, args ScoringJobArgs) error
	InsertSeatingJob(ctx context.Context, args SeatingJobArgs) error
	InsertIntroductionsJob(ctx context.Context, args IntroductionsJobArgs) error
}

// insertOpts returns the shared options for pipeline jobs. MaxAttempts is 1
// because the ledger row is the source of truth for the outcome; a retried
// run would double-count items against the same ledger counters.
func insertOpts(queue string) *river.InsertOpts {
	return &river.InsertOpts{
		Queue:       queue,
		MaxAttempts: 1,
	}
}
