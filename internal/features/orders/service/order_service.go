package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"shipgrid/internal/core/logger"
	carriers "shipgrid/internal/features/carriers/domain"
	"shipgrid/internal/features/orders/domain"
	tracking "shipgrid/internal/features/tracking/domain"
	trackingports "shipgrid/internal/features/tracking/ports"

	"go.uber.org/zap"
)

var (
	// ErrUnknownCarrier is returned for intakes naming a carrier that is not onboarded.
	ErrUnknownCarrier = errors.New("unknown carrier")
	// ErrReverseNotSupported is returned when the assigned carrier cannot run reverse pickups.
	ErrReverseNotSupported = errors.New("carrier does not support reverse pickup")
)

// OrderIntakeService registers new shipments into the order book.
type OrderIntakeService struct {
	store trackingports.OrderStore
	// known maps onboarded carrier IDs to their registry records.
	known  map[string]carriers.Carrier
	logger *zap.Logger
}

// NewOrderIntakeService creates a new OrderIntakeService over the given carriers.
func NewOrderIntakeService(store trackingports.OrderStore, registry []carriers.Carrier) *OrderIntakeService {
	known := make(map[string]carriers.Carrier, len(registry))
	for _, c := range registry {
		known[c.ID] = c
	}

	return &OrderIntakeService{
		store:  store,
		known:  known,
		logger: logger.Get().Named("orders"),
	}
}

// Create validates the intake and opens the order in the NEW bucket.
func (s *OrderIntakeService) Create(ctx context.Context, intake domain.IntakeOrder) (*tracking.Order, error) {
	if err := intake.Validate(); err != nil {
		return nil, err
	}

	carrier, ok := s.known[intake.CarrierID]
	if !ok {
		return nil, fmt.Errorf("carrier %s: %w", intake.CarrierID, ErrUnknownCarrier)
	}
	if intake.Reverse && !carrier.SupportsReversePickup {
		return nil, fmt.Errorf("carrier %s: %w", intake.CarrierID, ErrReverseNotSupported)
	}

	order := &tracking.Order{
		AWB:             intake.AWB,
		SellerID:        intake.SellerID,
		CarrierID:       intake.CarrierID,
		PaymentMode:     intake.PaymentMode,
		AmountToCollect: intake.AmountToCollect,
		Reverse:         intake.Reverse,
	}
	order.AppendEvent(tracking.StageEvent{
		Bucket:      tracking.BucketNew,
		Description: "Order created",
		Action:      "Order created",
		Timestamp:   time.Now().UTC(),
	})

	if err := s.store.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("create order %s: %w", intake.AWB, err)
	}

	s.logger.Info("order registered",
		zap.String("awb", order.AWB),
		zap.String("seller_id", order.SellerID),
		zap.String("carrier_id", order.CarrierID),
	)

	return order, nil
}
