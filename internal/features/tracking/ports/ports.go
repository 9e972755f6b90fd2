package ports

import (
	"context"
	"errors"

	"shipgrid/internal/features/tracking/domain"
)

var (
	// ErrOrderNotFound is returned when no order exists for the given AWB.
	ErrOrderNotFound = errors.New("order not found")
	// ErrVersionConflict is returned when a compare-and-swap save lost the race.
	// The caller must reload the order and retry.
	ErrVersionConflict = errors.New("order version conflict")
	// ErrOrderExists is returned when creating an order whose AWB is taken.
	ErrOrderExists = errors.New("order already exists")
)

// StatusTable defines the per-carrier mapping from native tracking statuses
// to canonical buckets. Implementations are immutable lookup tables loaded
// at startup, one per carrier integration.
type StatusTable interface {
	// CarrierID returns the carrier this table belongs to.
	CarrierID() string
	// Resolve maps a raw carrier status to its canonical resolution.
	// found is false for unmapped codes, which must never be applied.
	Resolve(raw domain.RawStatus) (domain.Resolution, bool)
}

// OrderStore defines the mutation surface for orders.
type OrderStore interface {
	// Create inserts a new order. Returns ErrOrderExists for a taken AWB.
	Create(ctx context.Context, order *domain.Order) error
	// Get loads the order with its full stage event history.
	Get(ctx context.Context, awb string) (*domain.Order, error)
	// Save persists the order iff its version still matches the stored row,
	// then bumps the version. Returns ErrVersionConflict on a stale write.
	Save(ctx context.Context, order *domain.Order) error
	// ListTrackable returns the AWBs of orders whose bucket is not terminal.
	ListTrackable(ctx context.Context) ([]string, error)
}

// TrackingFeed defines the polling collaborator that fetches raw tracking
// events from a carrier for one shipment.
type TrackingFeed interface {
	// FetchEvents returns the raw tracking events currently reported by the
	// carrier for the given AWB, in no guaranteed order.
	FetchEvents(ctx context.Context, carrierID, awb string) ([]domain.RawStatus, error)
}
