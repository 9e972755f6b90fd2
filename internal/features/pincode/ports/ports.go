package ports

import (
	"context"
	"errors"

	zones "shipgrid/internal/features/zones/domain"
)

// ErrPincodeNotFound is returned when a pincode is absent from the directory.
var ErrPincodeNotFound = errors.New("pincode not found")

// Resolver defines the secondary port for pincode-to-region lookups.
type Resolver interface {
	// Resolve maps a postal pincode to its (district, state) region.
	// Returns ErrPincodeNotFound when the pincode is unknown.
	Resolve(ctx context.Context, pincode int) (zones.Region, error)
}
