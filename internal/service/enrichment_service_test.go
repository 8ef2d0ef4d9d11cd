package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guesthub/hub/internal/ai"
	"github.com/guesthub/hub/internal/models"
)

func strPtr(s string) *string { return &s }

func testContact(workspaceID uuid.UUID, name string) *models.Contact {
	id, _ := uuid.NewV7()
	return &models.Contact{
		ID:          id,
		WorkspaceID: workspaceID,
		FullName:    name,
		Emails:      []string{name + "@example.com"},
	}
}

func TestEnrichmentRunCountersSumToTarget(t *testing.T) {
	workspaceID := uuid.New()
	ok1 := testContact(workspaceID, "Ada Lovelace")
	ok2 := testContact(workspaceID, "Grace Hopper")
	bad := testContact(workspaceID, "Broken Reply")

	ledger := newFakeLedger()
	store := newFakeContactsStore(ok1, ok2, bad)
	provider := &fakeEnrichmentProvider{byName: map[string]ai.EnrichmentResult{
		"Broken Reply": {Result: ai.Result{Success: false, Err: "rate limit exceeded"}},
	}}
	svc := NewEnrichmentService(ledger, store, provider, nil)

	jobID := uuid.New()
	err := svc.Run(context.Background(), jobID, workspaceID, []uuid.UUID{ok1.ID, bad.ID, ok2.ID})
	require.NoError(t, err)

	job := ledger.job(jobID)
	require.NotNil(t, job)
	assert.Equal(t, models.JobStatusCompleted, job.Status)
	assert.Equal(t, 2, job.CompletedCount)
	assert.Equal(t, 1, job.FailedCount)
	assert.Equal(t, 3, job.TargetCount)
	assert.Equal(t, job.TargetCount, job.CompletedCount+job.FailedCount)
	assert.Nil(t, job.ErrorMessage)
	assert.Equal(t, models.EnrichmentFailed, store.statuses[bad.ID])
}

func TestEnrichmentRunAllFailedMarksJobFailed(t *testing.T) {
	workspaceID := uuid.New()
	c := testContact(workspaceID, "Unlucky Guest")

	ledger := newFakeLedger()
	store := newFakeContactsStore(c)
	provider := &fakeEnrichmentProvider{byName: map[string]ai.EnrichmentResult{
		"Unlucky Guest": {Result: ai.Result{Success: false, Err: "upstream timeout"}},
	}}
	svc := NewEnrichmentService(ledger, store, provider, nil)

	jobID := uuid.New()
	require.NoError(t, svc.Run(context.Background(), jobID, workspaceID, []uuid.UUID{c.ID}))

	job := ledger.job(jobID)
	assert.Equal(t, models.JobStatusFailed, job.Status)
	require.NotNil(t, job.ErrorMessage)
	assert.Contains(t, *job.ErrorMessage, "all 1 contacts failed enrichment")
}

func TestEnrichmentRunEmptyTargetCompletesWithoutProviderCalls(t *testing.T) {
	ledger := newFakeLedger()
	provider := &fakeEnrichmentProvider{}
	svc := NewEnrichmentService(ledger, newFakeContactsStore(), provider, nil)

	jobID := uuid.New()
	require.NoError(t, svc.Run(context.Background(), jobID, uuid.New(), nil))

	job := ledger.job(jobID)
	assert.Equal(t, models.JobStatusCompleted, job.Status)
	assert.Zero(t, job.TargetCount)
	assert.Zero(t, provider.calls)
}

func TestEnrichmentRunMergesWithoutClobbering(t *testing.T) {
	workspaceID := uuid.New()
	c := testContact(workspaceID, "Partial Profile")
	c.Title = strPtr("CTO")

	ledger := newFakeLedger()
	store := newFakeContactsStore(c)
	provider := &fakeEnrichmentProvider{byName: map[string]ai.EnrichmentResult{
		"Partial Profile": {
			Result: ai.Result{Success: true, CostUSD: 0.0012},
			Fields: models.EnrichedFields{
				Company:  strPtr("Initech"),
				Industry: strPtr("software"),
			},
		},
	}}
	svc := NewEnrichmentService(ledger, store, provider, nil)

	require.NoError(t, svc.Run(context.Background(), uuid.New(), workspaceID, []uuid.UUID{c.ID}))

	saved := store.contacts[c.ID]
	require.NotNil(t, saved.Title)
	assert.Equal(t, "CTO", *saved.Title)
	require.NotNil(t, saved.Company)
	assert.Equal(t, "Initech", *saved.Company)
	assert.InDelta(t, 0.0012, store.saved[c.ID], 1e-9)
}

func TestEnrichmentRunRecordsProgressPerItem(t *testing.T) {
	workspaceID := uuid.New()
	c1 := testContact(workspaceID, "First Guest")
	c2 := testContact(workspaceID, "Second Guest")

	ledger := newFakeLedger()
	svc := NewEnrichmentService(ledger, newFakeContactsStore(c1, c2), &fakeEnrichmentProvider{}, nil)

	require.NoError(t, svc.Run(context.Background(), uuid.New(), workspaceID, []uuid.UUID{c1.ID, c2.ID}))

	require.Len(t, ledger.progress, 2)
	assert.Equal(t, progressWrite{1, 0}, ledger.progress[0])
	assert.Equal(t, progressWrite{2, 0}, ledger.progress[1])
}
