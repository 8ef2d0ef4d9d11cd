package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/guesthub/hub/internal/models"
	"github.com/guesthub/hub/pkg/cache"
)

// ObjectivesSource provides read access to an event's scoring objectives.
type ObjectivesSource interface {
	ListByEvent(ctx context.Context, eventID uuid.UUID) ([]models.Objective, error)
}

// cachingObjectivesRepo wraps an ObjectivesSource with a TTL'd loader cache
// so a scoring batch of N contacts reads the event's objectives once, not
// N times.
type cachingObjectivesRepo struct {
	inner ObjectivesSource
	cache *cache.LoaderCache[uuid.UUID, []models.Objective]
}

// NewCachingObjectivesRepository returns an ObjectivesSource that caches
// ListByEvent per event id.
func NewCachingObjectivesRepository(inner ObjectivesSource, maxEntries int, ttl time.Duration) ObjectivesSource {
	return &cachingObjectivesRepo{
		inner: inner,
		cache: cache.NewLoaderCache[uuid.UUID, []models.Objective](maxEntries, ttl, uuid.UUID.String),
	}
}

func (r *cachingObjectivesRepo) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]models.Objective, error) {
	objectives, err := r.cache.Get(ctx, eventID, r.inner.ListByEvent)
	if err != nil {
		return nil, fmt.Errorf("list objectives: %w", err)
	}
	return objectives, nil
}
