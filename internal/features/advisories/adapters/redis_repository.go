package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"shipgrid/internal/core/cache"
	"shipgrid/internal/features/advisories/domain"
)

func advisoryCacheKey(carrierID string) string {
	return "carrier_advisory:" + carrierID
}

// RedisAdvisoryRepository implements ports.AdvisoryRepository on the cache.
type RedisAdvisoryRepository struct {
	cache cache.Cache
}

// NewRedisAdvisoryRepository creates a new RedisAdvisoryRepository.
func NewRedisAdvisoryRepository(c cache.Cache) *RedisAdvisoryRepository {
	return &RedisAdvisoryRepository{
		cache: c,
	}
}

// Save stores the advisory under its carrier key. A non-zero duration
// expires the advisory automatically.
func (r *RedisAdvisoryRepository) Save(ctx context.Context, advisory *domain.Advisory) error {
	data, err := json.Marshal(advisory)
	if err != nil {
		return fmt.Errorf("failed to marshal advisory: %w", err)
	}

	ttl := time.Duration(advisory.Duration) * time.Second
	if err := r.cache.Set(ctx, advisoryCacheKey(advisory.CarrierID), data, ttl); err != nil {
		return fmt.Errorf("failed to save advisory to cache: %w", err)
	}

	return nil
}

// Get retrieves the carrier's advisory. A missing key means no active
// advisory and returns nil, nil.
func (r *RedisAdvisoryRepository) Get(ctx context.Context, carrierID string) (*domain.Advisory, error) {
	key := advisoryCacheKey(carrierID)
	data, err := r.cache.Get(ctx, key)
	if err != nil {
		if err.Error() == fmt.Sprintf("key not found: %s", key) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get advisory from cache: %w", err)
	}
	if data == nil {
		return nil, nil
	}

	var advisory domain.Advisory
	if err := json.Unmarshal(data, &advisory); err != nil {
		return nil, fmt.Errorf("failed to unmarshal advisory: %w", err)
	}

	return &advisory, nil
}

// Delete removes the carrier's advisory.
func (r *RedisAdvisoryRepository) Delete(ctx context.Context, carrierID string) error {
	if err := r.cache.Delete(ctx, advisoryCacheKey(carrierID)); err != nil {
		return fmt.Errorf("failed to delete advisory from cache: %w", err)
	}
	return nil
}
