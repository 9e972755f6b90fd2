package adapters

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"shipgrid/internal/core/cache"
	"shipgrid/internal/core/logger"
	"shipgrid/internal/features/rates/domain"
	"shipgrid/internal/features/rates/ports"

	"go.uber.org/zap"
)

// CachedOverrideStore decorates an OverrideStore with a read-through cache.
// Most sellers price on default plans, so misses are cached too; otherwise
// every quote request would hit the database for nothing.
type CachedOverrideStore struct {
	inner ports.OverrideStore
	cache cache.Cache
	ttl   time.Duration
}

// NewCachedOverrideStore creates a new CachedOverrideStore.
func NewCachedOverrideStore(inner ports.OverrideStore, c cache.Cache, ttl time.Duration) *CachedOverrideStore {
	return &CachedOverrideStore{
		inner: inner,
		cache: c,
		ttl:   ttl,
	}
}

// cachedOverride is the cache envelope; Found distinguishes a cached miss
// from a cached override.
type cachedOverride struct {
	Found    bool             `json:"found"`
	Override *domain.Override `json:"override,omitempty"`
}

func overrideCacheKey(sellerID, carrierID string) string {
	return fmt.Sprintf("rates:override:%s:%s", sellerID, carrierID)
}

// Override returns the cached override when present, falling back to the
// inner store. Cache failures degrade to a direct lookup, never to an error.
func (s *CachedOverrideStore) Override(ctx context.Context, sellerID, carrierID string) (*domain.Override, error) {
	key := overrideCacheKey(sellerID, carrierID)

	if data, err := s.cache.Get(ctx, key); err == nil {
		var entry cachedOverride
		if jsonErr := json.Unmarshal(data, &entry); jsonErr == nil {
			if !entry.Found {
				return nil, fmt.Errorf("seller %s carrier %s: %w", sellerID, carrierID, ports.ErrOverrideNotFound)
			}
			return entry.Override, nil
		}
		// Corrupt entry: drop it and fall through to the inner store.
		s.cache.Delete(ctx, key)
	}

	override, err := s.inner.Override(ctx, sellerID, carrierID)
	switch {
	case errors.Is(err, ports.ErrOverrideNotFound):
		s.store(ctx, key, cachedOverride{Found: false})
		return nil, err
	case err != nil:
		return nil, err
	}

	s.store(ctx, key, cachedOverride{Found: true, Override: override})
	return override, nil
}

func (s *CachedOverrideStore) store(ctx context.Context, key string, entry cachedOverride) {
	data, err := json.Marshal(entry)
	if err != nil {
		return
	}
	if cacheErr := s.cache.Set(ctx, key, data, s.ttl); cacheErr != nil {
		logger.Get().Warn("failed to cache pricing override",
			zap.String("key", key),
			zap.Error(cacheErr),
		)
	}
}
