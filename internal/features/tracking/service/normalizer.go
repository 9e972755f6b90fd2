package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"shipgrid/internal/core/logger"
	"shipgrid/internal/core/metrics"
	"shipgrid/internal/features/tracking/domain"
	"shipgrid/internal/features/tracking/ports"

	"go.uber.org/zap"
)

// Outcome describes what a tracking event application did to the order.
type Outcome string

const (
	// OutcomeApplied means a new stage event was appended.
	OutcomeApplied Outcome = "applied"
	// OutcomeDuplicate means the same physical scan was already applied.
	OutcomeDuplicate Outcome = "duplicate"
	// OutcomeUnknownStatus means the carrier code is not in the status table.
	OutcomeUnknownStatus Outcome = "unknown_status"
	// OutcomeUnknownCarrier means no status table exists for the carrier.
	OutcomeUnknownCarrier Outcome = "unknown_carrier"
	// OutcomeCarrierMismatch means the event came from a carrier the order
	// is not assigned to.
	OutcomeCarrierMismatch Outcome = "carrier_mismatch"
	// OutcomeSameBucket means the resolved bucket equals the current one.
	OutcomeSameBucket Outcome = "same_bucket"
)

// saveRetries bounds optimistic retry attempts on version conflicts.
const saveRetries = 3

// ErrOrderClosed is returned when a seller action targets an order whose
// lifecycle already ended.
var ErrOrderClosed = errors.New("order already in a terminal bucket")

// Normalizer converts raw carrier tracking events into canonical stage
// transitions and applies them to persisted orders. Logical mismatches
// (unknown carrier, unknown status, carrier mismatch, duplicates) are
// absorbed as no-ops so one bad event never aborts a tracking sweep.
type Normalizer struct {
	store   ports.OrderStore
	tables  map[string]ports.StatusTable
	metrics *metrics.AppMetrics
	logger  *zap.Logger
}

// NewNormalizer creates a Normalizer over the given status tables.
// The metrics argument may be nil.
func NewNormalizer(store ports.OrderStore, tables []ports.StatusTable, m *metrics.AppMetrics) *Normalizer {
	byCarrier := make(map[string]ports.StatusTable, len(tables))
	for _, t := range tables {
		byCarrier[t.CarrierID()] = t
	}

	return &Normalizer{
		store:   store,
		tables:  byCarrier,
		metrics: m,
		logger:  logger.Named("tracking"),
	}
}

// ApplyTrackingEvent applies one raw carrier event to the order identified
// by awb. Returns the outcome; an error is returned only for persistence
// failures, which the polling scheduler retries on the next sweep.
func (n *Normalizer) ApplyTrackingEvent(ctx context.Context, awb, carrierID string, raw domain.RawStatus) (Outcome, error) {
	for attempt := 0; attempt < saveRetries; attempt++ {
		order, err := n.store.Get(ctx, awb)
		if err != nil {
			return "", fmt.Errorf("load order for tracking event: %w", err)
		}

		outcome, mutated := n.apply(order, carrierID, raw)
		if !mutated {
			n.record(outcome)
			return outcome, nil
		}

		err = n.store.Save(ctx, order)
		if errors.Is(err, ports.ErrVersionConflict) {
			// Another sweep won the race; retry against the latest state.
			continue
		}
		if err != nil {
			return "", fmt.Errorf("save order after tracking event: %w", err)
		}

		n.record(outcome)
		n.logger.Info("stage transition applied",
			zap.String("awb", awb),
			zap.String("carrier", carrierID),
			zap.String("bucket", order.CurrentBucket.String()),
		)
		return outcome, nil
	}

	return "", fmt.Errorf("apply tracking event for %s: %w", awb, ports.ErrVersionConflict)
}

// CancelOrder is the direct seller action: it pushes a CANCELED stage event
// outside the carrier feed. Closed orders cannot be canceled.
func (n *Normalizer) CancelOrder(ctx context.Context, awb string) error {
	for attempt := 0; attempt < saveRetries; attempt++ {
		order, err := n.store.Get(ctx, awb)
		if err != nil {
			return fmt.Errorf("load order for cancellation: %w", err)
		}

		if order.CurrentBucket.IsTerminal() {
			return fmt.Errorf("awb %s: %w", awb, ErrOrderClosed)
		}

		order.AppendEvent(domain.StageEvent{
			Bucket:      domain.BucketCanceled,
			Description: "Canceled by seller",
			Action:      "Canceled by seller",
			Timestamp:   time.Now().UTC(),
		})

		err = n.store.Save(ctx, order)
		if errors.Is(err, ports.ErrVersionConflict) {
			continue
		}
		if err != nil {
			return fmt.Errorf("save canceled order: %w", err)
		}

		n.logger.Info("order canceled by seller", zap.String("awb", awb))
		return nil
	}

	return fmt.Errorf("cancel order %s: %w", awb, ports.ErrVersionConflict)
}

// apply runs the normalization decision against an in-memory order and
// reports whether the order was mutated.
func (n *Normalizer) apply(order *domain.Order, carrierID string, raw domain.RawStatus) (Outcome, bool) {
	if order.CarrierID != carrierID {
		n.logger.Warn("tracking event from unassigned carrier ignored",
			zap.String("awb", order.AWB),
			zap.String("assigned", order.CarrierID),
			zap.String("reported", carrierID),
		)
		return OutcomeCarrierMismatch, false
	}

	table, ok := n.tables[carrierID]
	if !ok {
		n.logger.Warn("no status table for carrier",
			zap.String("carrier", carrierID),
		)
		return OutcomeUnknownCarrier, false
	}

	resolution, found := table.Resolve(raw)
	if !found {
		// Carriers introduce new codes over time; degrade gracefully and
		// leave the order at its last known good bucket.
		n.logger.Warn("unmapped carrier status ignored",
			zap.String("awb", order.AWB),
			zap.String("carrier", carrierID),
			zap.Int("status_code", raw.StatusCode),
			zap.Int("reason_code", raw.ReasonCode),
			zap.String("status", raw.Status),
		)
		return OutcomeUnknownStatus, false
	}

	key := raw.IdentityKey(resolution.Description)
	if order.HasEvent(key) {
		return OutcomeDuplicate, false
	}

	if resolution.Bucket == order.CurrentBucket {
		return OutcomeSameBucket, false
	}

	order.AppendEvent(domain.StageEvent{
		Bucket:      resolution.Bucket,
		Description: resolution.Description,
		Activity:    raw.Activity,
		Location:    raw.Location,
		Action:      raw.Action(resolution.Description),
		Timestamp:   raw.Timestamp,
	})

	return OutcomeApplied, true
}

func (n *Normalizer) record(outcome Outcome) {
	if n.metrics != nil {
		n.metrics.TrackingEventsTotal.WithLabelValues(string(outcome)).Inc()
	}
}
