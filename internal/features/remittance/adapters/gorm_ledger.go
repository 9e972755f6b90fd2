package adapters

import (
	"context"
	"fmt"
	"time"

	"shipgrid/internal/features/remittance/domain"
	tracking "shipgrid/internal/features/tracking/domain"

	"gorm.io/gorm"
)

// ledgerOrderModel is the remittance-side view of the orders table; only the
// columns the payout roll-up needs are mapped.
type ledgerOrderModel struct {
	AWB               string                `gorm:"primaryKey;size:50"`
	SellerID          string                `gorm:"size:50"`
	PaymentMode       string                `gorm:"size:10"`
	AmountToCollect   float64
	CurrentBucket     int
	StageEvents       []tracking.StageEvent `gorm:"serializer:json;type:jsonb"`
	RemittanceBatchID *string               `gorm:"size:40"`
}

// TableName maps the model to the orders table.
func (ledgerOrderModel) TableName() string { return "orders" }

// BatchModel is the gorm mapping of a persisted remittance batch.
type BatchModel struct {
	BatchID     string    `gorm:"primaryKey;size:40"`
	SellerID    string    `gorm:"size:50;index;not null"`
	CutoffDate  time.Time `gorm:"not null"`
	TotalAmount float64   `gorm:"not null"`
	OrderIDs    []string  `gorm:"serializer:json;type:jsonb"`
	CreatedAt   time.Time
}

// TableName maps the model to the remittance batches table.
func (BatchModel) TableName() string { return "remittance_batches" }

// GormLedger implements ports.OrderLedger on postgres.
type GormLedger struct {
	db *gorm.DB
}

// NewGormLedger creates a new GormLedger.
func NewGormLedger(db *gorm.DB) *GormLedger {
	return &GormLedger{db: db}
}

// UnremittedDeliveredCOD returns delivered COD orders with no batch yet.
// The delivery timestamp comes from the stage event history.
func (l *GormLedger) UnremittedDeliveredCOD(ctx context.Context, sellerID string) ([]domain.DeliveredOrder, error) {
	var rows []ledgerOrderModel
	err := l.db.WithContext(ctx).
		Where("seller_id = ? AND payment_mode = ? AND current_bucket = ? AND remittance_batch_id IS NULL",
			sellerID, tracking.PaymentModeCOD, int(tracking.BucketDelivered)).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load unremitted orders: %w", err)
	}

	out := make([]domain.DeliveredOrder, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.DeliveredOrder{
			AWB:         row.AWB,
			Amount:      row.AmountToCollect,
			DeliveredAt: deliveredAt(row.StageEvents),
		})
	}
	return out, nil
}

// SaveBatch persists the batch and stamps its orders in one transaction. A
// concurrent batch claiming any of the same orders rolls the whole write back.
func (l *GormLedger) SaveBatch(ctx context.Context, batch *domain.Batch) error {
	return l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		model := BatchModel{
			BatchID:     batch.BatchID,
			SellerID:    batch.SellerID,
			CutoffDate:  batch.CutoffDate,
			TotalAmount: batch.TotalAmount,
			OrderIDs:    batch.OrderIDs,
		}
		if err := tx.Create(&model).Error; err != nil {
			return fmt.Errorf("failed to create batch %s: %w", batch.BatchID, err)
		}

		res := tx.Model(&ledgerOrderModel{}).
			Where("awb IN ? AND remittance_batch_id IS NULL", batch.OrderIDs).
			Update("remittance_batch_id", batch.BatchID)
		if res.Error != nil {
			return fmt.Errorf("failed to mark orders remitted: %w", res.Error)
		}
		if res.RowsAffected != int64(len(batch.OrderIDs)) {
			return fmt.Errorf("batch %s claimed %d of %d orders, another batch got there first",
				batch.BatchID, res.RowsAffected, len(batch.OrderIDs))
		}
		return nil
	})
}

// deliveredAt returns the timestamp of the newest delivered stage event.
func deliveredAt(events []tracking.StageEvent) time.Time {
	var ts time.Time
	for _, e := range events {
		if e.Bucket == tracking.BucketDelivered && e.Timestamp.After(ts) {
			ts = e.Timestamp
		}
	}
	return ts
}
