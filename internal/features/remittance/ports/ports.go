package ports

import (
	"context"
	"errors"

	"shipgrid/internal/features/remittance/domain"
)

// ErrNothingToRemit indicates no delivered COD orders await payout.
var ErrNothingToRemit = errors.New("nothing to remit")

// OrderLedger reads and settles the COD, delivered side of the order book.
type OrderLedger interface {
	// UnremittedDeliveredCOD returns the seller's delivered COD orders that
	// are not yet part of any remittance batch.
	UnremittedDeliveredCOD(ctx context.Context, sellerID string) ([]domain.DeliveredOrder, error)

	// SaveBatch persists the batch and marks its orders as remitted, in one
	// transaction.
	SaveBatch(ctx context.Context, batch *domain.Batch) error
}
