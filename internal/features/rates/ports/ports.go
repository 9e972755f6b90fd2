package ports

import (
	"context"
	"errors"

	"shipgrid/internal/features/rates/domain"
)

// ErrPlanNotFound indicates the carrier has no pricing plan configured.
var ErrPlanNotFound = errors.New("pricing plan not found")

// ErrOverrideNotFound indicates the seller has no override for the carrier.
var ErrOverrideNotFound = errors.New("pricing override not found")

// ServiceabilityChecker asks a carrier whether it services a shipment.
type ServiceabilityChecker interface {
	// IsServiceable reports whether the carrier can pick up and deliver
	// between the two pincodes at the billable weight and payment mode;
	// carriers decline lanes over their weight cap or without COD support.
	// A transport failure is an error, not a no.
	IsServiceable(ctx context.Context, carrierID string, pickupPincode, deliveryPincode int, weightKg float64, paymentMode domain.PaymentMode) (bool, error)
}

// PlanStore reads carrier default pricing plans.
type PlanStore interface {
	// Plan returns the default plan for a carrier.
	Plan(ctx context.Context, carrierID string) (domain.Plan, error)
}

// OverrideStore reads seller pricing overrides by direct (seller, carrier) key.
type OverrideStore interface {
	// Override returns the seller's override for a carrier, or
	// ErrOverrideNotFound when the seller prices on the default plan.
	Override(ctx context.Context, sellerID, carrierID string) (*domain.Override, error)
}
