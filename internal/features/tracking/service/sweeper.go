package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"shipgrid/internal/core/cache"
	"shipgrid/internal/core/logger"
	"shipgrid/internal/core/metrics"
	"shipgrid/internal/features/tracking/ports"

	"go.uber.org/zap"
)

// Sweeper polls the tracking feed for every trackable order on a fixed
// interval. Orders are swept concurrently under a bounded worker pool;
// within one order events are applied sequentially, serialized across
// processes by a short-lived cache lock.
type Sweeper struct {
	normalizer  *Normalizer
	store       ports.OrderStore
	feed        ports.TrackingFeed
	locks       cache.Cache
	interval    time.Duration
	concurrency int
	lockTTL     time.Duration
	metrics     *metrics.AppMetrics
	logger      *zap.Logger
}

// SweeperConfig holds the sweep loop settings.
type SweeperConfig struct {
	// Interval between sweeps.
	Interval time.Duration
	// Concurrency bounds how many orders are swept in parallel.
	Concurrency int
	// LockTTL is the TTL of the per-order lock.
	LockTTL time.Duration
}

// NewSweeper creates a Sweeper. The metrics argument may be nil.
func NewSweeper(n *Normalizer, store ports.OrderStore, feed ports.TrackingFeed, locks cache.Cache, cfg SweeperConfig, m *metrics.AppMetrics) *Sweeper {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 8
	}
	if cfg.LockTTL <= 0 {
		cfg.LockTTL = time.Minute
	}

	return &Sweeper{
		normalizer:  n,
		store:       store,
		feed:        feed,
		locks:       locks,
		interval:    cfg.Interval,
		concurrency: cfg.Concurrency,
		lockTTL:     cfg.LockTTL,
		metrics:     m,
		logger:      logger.Named("sweeper"),
	}
}

// Run sweeps on the configured interval until the context is canceled.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.Sweep(ctx); err != nil {
				s.logger.Error("tracking sweep failed", zap.Error(err))
			}
		}
	}
}

// Sweep runs one pass over all trackable orders. A failing order is logged
// and skipped; it never blocks or fails the rest of the sweep.
func (s *Sweeper) Sweep(ctx context.Context) error {
	awbs, err := s.store.ListTrackable(ctx)
	if err != nil {
		return fmt.Errorf("list trackable orders: %w", err)
	}

	sem := make(chan struct{}, s.concurrency)
	var wg sync.WaitGroup

	for _, awb := range awbs {
		wg.Add(1)
		sem <- struct{}{}
		go func(awb string) {
			defer wg.Done()
			defer func() { <-sem }()
			defer func() {
				if r := recover(); r != nil {
					s.logger.Error("panic while sweeping order",
						zap.String("awb", awb),
						zap.Any("panic", r),
					)
					s.recordSweep("failed")
				}
			}()
			s.sweepOrder(ctx, awb)
		}(awb)
	}

	wg.Wait()
	return nil
}

func (s *Sweeper) sweepOrder(ctx context.Context, awb string) {
	lockKey := "track:lock:" + awb
	acquired, err := s.locks.SetNX(ctx, lockKey, []byte("1"), s.lockTTL)
	if err != nil {
		s.logger.Warn("sweep lock unavailable", zap.String("awb", awb), zap.Error(err))
		s.recordSweep("failed")
		return
	}
	if !acquired {
		// Another sweep instance holds the order.
		s.recordSweep("locked")
		return
	}
	defer s.locks.Delete(ctx, lockKey)

	order, err := s.store.Get(ctx, awb)
	if err != nil {
		s.logger.Warn("failed to load order for sweep", zap.String("awb", awb), zap.Error(err))
		s.recordSweep("failed")
		return
	}

	events, err := s.feed.FetchEvents(ctx, order.CarrierID, awb)
	if err != nil {
		s.logger.Warn("tracking feed fetch failed",
			zap.String("awb", awb),
			zap.String("carrier", order.CarrierID),
			zap.Error(err),
		)
		s.recordSweep("failed")
		return
	}

	// The feed gives no ordering guarantee; apply oldest first.
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Timestamp.Before(events[j].Timestamp)
	})

	for _, raw := range events {
		if _, err := s.normalizer.ApplyTrackingEvent(ctx, awb, order.CarrierID, raw); err != nil {
			s.logger.Warn("failed to apply tracking event",
				zap.String("awb", awb),
				zap.Error(err),
			)
			s.recordSweep("failed")
			return
		}
	}

	s.recordSweep("ok")
}

func (s *Sweeper) recordSweep(result string) {
	if s.metrics != nil {
		s.metrics.SweepOrdersTotal.WithLabelValues(result).Inc()
	}
}
