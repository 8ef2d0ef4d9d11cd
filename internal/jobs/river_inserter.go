package jobs

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/riverqueue/river"
)

// RiverJobInserter implements JobInserter using the River client.
type RiverJobInserter struct {
	client *river.Client[pgx.Tx]
	queue  string
}

// NewRiverJobInserter creates a River-based inserter targeting the given
// queue.
func NewRiverJobInserter(client *river.Client[pgx.Tx], queue string) *RiverJobInserter {
	return &RiverJobInserter{client: client, queue: queue}
}

func (r *RiverJobInserter) InsertEnrichmentJob(ctx context.Context, args EnrichmentJobArgs) error {
	_, err := r.client.Insert(ctx, args, insertOpts(r.queue))
	return err
}

func (r *RiverJobInserter) InsertScoringJob(ctx context.Context, args ScoringJobArgs) error {
	_, err := r.client.Insert(ctx, args, insertOpts(r.queue))
	return err
}

func (r *RiverJobInserter) InsertSeatingJob(ctx context.Context, args SeatingJobArgs) error {
	_, err := r.client.Insert(ctx, args, insertOpts(r.queue))
	return err
}

func (r *RiverJobInserter) InsertIntroductionsJob(ctx context.Context, args IntroductionsJobArgs) error {
	_, err := r.client.Insert(ctx, args, insertOpts(r.queue))
	return err
}
