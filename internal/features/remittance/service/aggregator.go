package service

import (
	"context"
	"fmt"
	"time"

	"shipgrid/internal/core/logger"
	"shipgrid/internal/features/remittance/domain"
	"shipgrid/internal/features/remittance/ports"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Aggregator rolls delivered COD orders into weekly payout batches.
type Aggregator struct {
	ledger ports.OrderLedger
	logger *zap.Logger
}

// NewAggregator creates an Aggregator.
func NewAggregator(ledger ports.OrderLedger) *Aggregator {
	return &Aggregator{
		ledger: ledger,
		logger: logger.Get().Named("remittance"),
	}
}

// PendingAmount sums the collectable amounts of the seller's delivered COD
// orders that fall before the current Friday cutover and are not yet batched.
func (a *Aggregator) PendingAmount(ctx context.Context, sellerID string, asOf time.Time) (float64, error) {
	orders, err := a.pending(ctx, sellerID, asOf)
	if err != nil {
		return 0, err
	}

	total := 0.0
	for _, o := range orders {
		total += o.Amount
	}
	return total, nil
}

// CreateBatch settles the seller's pending remittance into a new batch and
// marks the orders remitted. Settled orders never appear in a later batch,
// so running twice for the same cutoff cannot double-pay.
func (a *Aggregator) CreateBatch(ctx context.Context, sellerID string, asOf time.Time) (*domain.Batch, error) {
	orders, err := a.pending(ctx, sellerID, asOf)
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return nil, fmt.Errorf("seller %s: %w", sellerID, ports.ErrNothingToRemit)
	}

	batch := &domain.Batch{
		BatchID:    uuid.NewString(),
		SellerID:   sellerID,
		CutoffDate: domain.MostRecentFriday(asOf),
		OrderIDs:   make([]string, 0, len(orders)),
	}
	for _, o := range orders {
		batch.TotalAmount += o.Amount
		batch.OrderIDs = append(batch.OrderIDs, o.AWB)
	}

	if err := a.ledger.SaveBatch(ctx, batch); err != nil {
		return nil, fmt.Errorf("save remittance batch: %w", err)
	}

	a.logger.Info("remittance batch created",
		zap.String("batch_id", batch.BatchID),
		zap.String("seller_id", sellerID),
		zap.Float64("total_amount", batch.TotalAmount),
		zap.Int("orders", len(batch.OrderIDs)),
	)

	return batch, nil
}

// pending returns the unbatched delivered COD orders before the cutover.
func (a *Aggregator) pending(ctx context.Context, sellerID string, asOf time.Time) ([]domain.DeliveredOrder, error) {
	orders, err := a.ledger.UnremittedDeliveredCOD(ctx, sellerID)
	if err != nil {
		return nil, fmt.Errorf("load unremitted orders for %s: %w", sellerID, err)
	}

	cutoff := domain.MostRecentFriday(asOf)
	out := orders[:0]
	for _, o := range orders {
		if o.DeliveredAt.Before(cutoff) {
			out = append(out, o)
		}
	}
	return out, nil
}
