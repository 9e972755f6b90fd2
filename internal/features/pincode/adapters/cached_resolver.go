package adapters

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"shipgrid/internal/core/cache"
	"shipgrid/internal/core/logger"
	"shipgrid/internal/features/pincode/ports"
	zones "shipgrid/internal/features/zones/domain"

	"go.uber.org/zap"
)

// CachedResolver decorates a Resolver with a read-through cache.
// Staleness tolerance for the pincode directory is minutes, so a short TTL
// is enough; negative lookups are not cached.
type CachedResolver struct {
	inner ports.Resolver
	cache cache.Cache
	ttl   time.Duration
}

// NewCachedResolver creates a new CachedResolver.
func NewCachedResolver(inner ports.Resolver, c cache.Cache, ttl time.Duration) *CachedResolver {
	return &CachedResolver{
		inner: inner,
		cache: c,
		ttl:   ttl,
	}
}

func pincodeCacheKey(pincode int) string {
	return fmt.Sprintf("pincode:%d", pincode)
}

// Resolve returns the cached region when present, falling back to the inner resolver.
// Cache failures degrade to a direct lookup, never to an error.
func (r *CachedResolver) Resolve(ctx context.Context, pincode int) (zones.Region, error) {
	key := pincodeCacheKey(pincode)

	if data, err := r.cache.Get(ctx, key); err == nil {
		var region zones.Region
		if jsonErr := json.Unmarshal(data, &region); jsonErr == nil {
			return region, nil
		}
		// Corrupt entry: drop it and fall through to the inner resolver.
		r.cache.Delete(ctx, key)
	}

	region, err := r.inner.Resolve(ctx, pincode)
	if err != nil {
		return zones.Region{}, err
	}

	if data, jsonErr := json.Marshal(region); jsonErr == nil {
		if cacheErr := r.cache.Set(ctx, key, data, r.ttl); cacheErr != nil {
			logger.Get().Warn("failed to cache pincode region",
				zap.Int("pincode", pincode),
				zap.Error(cacheErr),
			)
		}
	}

	return region, nil
}

// IsNotFound reports whether the error marks an unknown pincode.
func IsNotFound(err error) bool {
	return errors.Is(err, ports.ErrPincodeNotFound)
}
