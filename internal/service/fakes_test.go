package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/guesthub/hub/internal/ai"
	"github.com/guesthub/hub/internal/models"
)

// fakeLedger mirrors the repository's finish semantics in memory: a
// finished job is failed only when every target item failed.
type fakeLedger struct {
	mu       sync.Mutex
	jobs     map[uuid.UUID]*models.Job
	progress []progressWrite
	startErr error
}

type progressWrite struct {
	completed int
	failed    int
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{jobs: make(map[uuid.UUID]*models.Job)}
}

func (l *fakeLedger) Start(_ context.Context, id uuid.UUID) (*models.Job, error) {
	if l.startErr != nil {
		return nil, l.startErr
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	job := &models.Job{ID: id, Status: models.JobStatusInProgress}
	l.jobs[id] = job
	return job, nil
}

func (l *fakeLedger) RecordProgress(_ context.Context, id uuid.UUID, completed, failed int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	job, ok := l.jobs[id]
	if !ok {
		return errors.New("job not started")
	}
	job.CompletedCount = completed
	job.FailedCount = failed
	l.progress = append(l.progress, progressWrite{completed, failed})
	return nil
}

func (l *fakeLedger) Finish(_ context.Context, id uuid.UUID, completed, failed, target int, errorMessage *string) (*models.Job, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	job, ok := l.jobs[id]
	if !ok {
		return nil, errors.New("job not started")
	}
	job.CompletedCount = completed
	job.FailedCount = failed
	job.TargetCount = target
	job.ErrorMessage = errorMessage
	job.Status = models.JobStatusCompleted
	if target > 0 && failed == target {
		job.Status = models.JobStatusFailed
	}
	return job, nil
}

func (l *fakeLedger) Fail(_ context.Context, id uuid.UUID, errorMessage string) (*models.Job, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	job, ok := l.jobs[id]
	if !ok {
		job = &models.Job{ID: id}
		l.jobs[id] = job
	}
	job.Status = models.JobStatusFailed
	job.ErrorMessage = &errorMessage
	return job, nil
}

func (l *fakeLedger) job(id uuid.UUID) *models.Job {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.jobs[id]
}

type fakeContactsStore struct {
	contacts map[uuid.UUID]*models.Contact
	statuses map[uuid.UUID]models.EnrichmentStatus
	saved    map[uuid.UUID]float64
	saveErr  error
}

func newFakeContactsStore(contacts ...*models.Contact) *fakeContactsStore {
	s := &fakeContactsStore{
		contacts: make(map[uuid.UUID]*models.Contact),
		statuses: make(map[uuid.UUID]models.EnrichmentStatus),
		saved:    make(map[uuid.UUID]float64),
	}
	for _, c := range contacts {
		s.contacts[c.ID] = c
	}
	return s
}

func (s *fakeContactsStore) GetByID(_ context.Context, workspaceID, id uuid.UUID) (*models.Contact, error) {
	c, ok := s.contacts[id]
	if !ok || c.WorkspaceID != workspaceID {
		return nil, fmt.Errorf("contact %s not found", id)
	}
	clone := *c
	return &clone, nil
}

func (s *fakeContactsStore) SetEnrichmentStatus(_ context.Context, id uuid.UUID, status models.EnrichmentStatus) error {
	s.statuses[id] = status
	return nil
}

func (s *fakeContactsStore) SaveEnrichment(_ context.Context, contact *models.Contact, costUSD float64) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	clone := *contact
	s.contacts[contact.ID] = &clone
	s.saved[contact.ID] = costUSD
	s.statuses[contact.ID] = models.EnrichmentCompleted
	return nil
}

func (s *fakeContactsStore) ListForScoring(_ context.Context, workspaceID, _ uuid.UUID, ids []uuid.UUID) ([]models.Contact, error) {
	out := make([]models.Contact, 0, len(ids))
	for _, id := range ids {
		if c, ok := s.contacts[id]; ok && c.WorkspaceID == workspaceID {
			out = append(out, *c)
		}
	}
	return out, nil
}

type fakeEnrichmentProvider struct {
	results map[uuid.UUID]ai.EnrichmentResult
	byName  map[string]ai.EnrichmentResult
	calls   int
}

func (p *fakeEnrichmentProvider) Enrich(_ context.Context, input ai.EnrichmentInput) ai.EnrichmentResult {
	p.calls++
	if r, ok := p.byName[input.FullName]; ok {
		return r
	}
	return ai.EnrichmentResult{Result: ai.Result{Success: true}}
}

type fakeScoringProvider struct {
	result ai.ScoringResult
	byName map[string]ai.ScoringResult
	calls  int
}

func (p *fakeScoringProvider) Score(_ context.Context, input ai.ScoringInput) ai.ScoringResult {
	p.calls++
	if r, ok := p.byName[input.Contact.FullName]; ok {
		return r
	}
	return p.result
}

type fakeObjectivesSource struct {
	objectives []models.Objective
	err        error
	calls      int
}

func (s *fakeObjectivesSource) ListByEvent(context.Context, uuid.UUID) ([]models.Objective, error) {
	s.calls++
	return s.objectives, s.err
}

type fakeScoresStore struct {
	upserts []models.UpsertGuestScoreRequest
	err     error
}

func (s *fakeScoresStore) Upsert(_ context.Context, req *models.UpsertGuestScoreRequest) (*models.GuestScore, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.upserts = append(s.upserts, *req)
	return &models.GuestScore{
		ContactID:      req.ContactID,
		EventID:        req.EventID,
		RelevanceScore: req.RelevanceScore,
	}, nil
}

type fakeGuestSource struct {
	guests []models.SeatingGuest
	err    error
	calls  int
}

func (s *fakeGuestSource) ListGuestsForEvent(context.Context, uuid.UUID, uuid.UUID, []uuid.UUID) ([]models.SeatingGuest, error) {
	s.calls++
	return s.guests, s.err
}

type fakeSeatingStore struct {
	assignments []models.SeatingAssignment
	pairings    []models.IntroductionPairing
	insertErr   error
}

func (s *fakeSeatingStore) InsertAssignments(_ context.Context, assignments []models.SeatingAssignment) error {
	if s.insertErr != nil {
		return s.insertErr
	}
	s.assignments = append(s.assignments, assignments...)
	return nil
}

func (s *fakeSeatingStore) InsertPairings(_ context.Context, pairings []models.IntroductionPairing) error {
	if s.insertErr != nil {
		return s.insertErr
	}
	s.pairings = append(s.pairings, pairings...)
	return nil
}

type fakeSeatingProvider struct {
	result ai.SeatingResult
	calls  int
}

func (p *fakeSeatingProvider) SuggestSeating(_ context.Context, _ ai.SeatingInput) ai.SeatingResult {
	p.calls++
	return p.result
}

type fakeIntroductionsProvider struct {
	result ai.IntroductionsResult
	calls  int
}

func (p *fakeIntroductionsProvider) SuggestIntroductions(_ context.Context, _ ai.IntroductionsInput) ai.IntroductionsResult {
	p.calls++
	return p.result
}
