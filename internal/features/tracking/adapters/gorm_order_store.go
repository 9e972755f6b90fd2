package adapters

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"shipgrid/internal/features/tracking/domain"
	"shipgrid/internal/features/tracking/ports"

	"gorm.io/gorm"
)

// OrderModel is the gorm mapping of a persisted order. The stage event
// history is stored as a JSON column; the version column backs the
// optimistic compare-and-swap.
type OrderModel struct {
	AWB             string               `gorm:"primaryKey;size:50"`
	SellerID        string               `gorm:"size:50;index;not null"`
	CarrierID       string               `gorm:"size:30;not null"`
	PaymentMode     string               `gorm:"size:10;not null"`
	AmountToCollect float64              `gorm:"not null;default:0"`
	CurrentBucket   int                  `gorm:"index;not null"`
	Reverse         bool                 `gorm:"not null;default:false"`
	StageEvents     []domain.StageEvent  `gorm:"serializer:json;type:jsonb"`
	Version         int64                `gorm:"not null;default:0"`
	RemittanceBatchID *string            `gorm:"size:40;index"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// TableName maps the model to the orders table.
func (OrderModel) TableName() string { return "orders" }

func (m *OrderModel) toDomain() *domain.Order {
	return &domain.Order{
		AWB:             m.AWB,
		SellerID:        m.SellerID,
		CarrierID:       m.CarrierID,
		PaymentMode:     m.PaymentMode,
		AmountToCollect: m.AmountToCollect,
		CurrentBucket:   domain.Bucket(m.CurrentBucket),
		Reverse:         m.Reverse,
		StageEvents:     m.StageEvents,
		Version:         m.Version,
	}
}

// GormOrderStore implements ports.OrderStore on postgres.
type GormOrderStore struct {
	db *gorm.DB
}

// NewGormOrderStore creates a new GormOrderStore.
func NewGormOrderStore(db *gorm.DB) *GormOrderStore {
	return &GormOrderStore{db: db}
}

// Create inserts a new order row. A taken AWB maps to ports.ErrOrderExists.
func (s *GormOrderStore) Create(ctx context.Context, order *domain.Order) error {
	row := OrderModel{
		AWB:             order.AWB,
		SellerID:        order.SellerID,
		CarrierID:       order.CarrierID,
		PaymentMode:     order.PaymentMode,
		AmountToCollect: order.AmountToCollect,
		CurrentBucket:   int(order.CurrentBucket),
		Reverse:         order.Reverse,
		StageEvents:     order.StageEvents,
		Version:         order.Version,
	}
	err := s.db.WithContext(ctx).Create(&row).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("awb %s: %w", order.AWB, ports.ErrOrderExists)
	}
	if err != nil {
		return fmt.Errorf("failed to create order %s: %w", order.AWB, err)
	}
	return nil
}

// Get loads one order with its stage event history.
func (s *GormOrderStore) Get(ctx context.Context, awb string) (*domain.Order, error) {
	var row OrderModel
	err := s.db.WithContext(ctx).First(&row, "awb = ?", awb).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("awb %s: %w", awb, ports.ErrOrderNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load order %s: %w", awb, err)
	}
	return row.toDomain(), nil
}

// Save persists the mutated order guarded by its loaded version. A stale
// write affects zero rows and surfaces as ErrVersionConflict so the caller
// retries against the latest state instead of overwriting it.
func (s *GormOrderStore) Save(ctx context.Context, order *domain.Order) error {
	result := s.db.WithContext(ctx).
		Model(&OrderModel{}).
		Where("awb = ? AND version = ?", order.AWB, order.Version).
		Updates(map[string]interface{}{
			"current_bucket": int(order.CurrentBucket),
			"stage_events":   mustEventsJSON(order.StageEvents),
			"version":        order.Version + 1,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to save order %s: %w", order.AWB, result.Error)
	}

	if result.RowsAffected == 0 {
		var count int64
		if err := s.db.WithContext(ctx).Model(&OrderModel{}).
			Where("awb = ?", order.AWB).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check order %s: %w", order.AWB, err)
		}
		if count == 0 {
			return fmt.Errorf("awb %s: %w", order.AWB, ports.ErrOrderNotFound)
		}
		return fmt.Errorf("awb %s: %w", order.AWB, ports.ErrVersionConflict)
	}

	order.Version++
	return nil
}

// ListTrackable returns AWBs of orders still in a non-terminal bucket.
func (s *GormOrderStore) ListTrackable(ctx context.Context) ([]string, error) {
	var awbs []string
	err := s.db.WithContext(ctx).
		Model(&OrderModel{}).
		Where("current_bucket NOT IN ?", terminalBucketValues()).
		Pluck("awb", &awbs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list trackable orders: %w", err)
	}
	return awbs, nil
}

// mustEventsJSON serializes the history for the raw column update; the
// struct-level json serializer does not apply to map-based updates.
func mustEventsJSON(events []domain.StageEvent) string {
	data, err := json.Marshal(events)
	if err != nil {
		// StageEvent contains only plain serializable fields.
		return "[]"
	}
	return string(data)
}

func terminalBucketValues() []int {
	terminal := []domain.Bucket{
		domain.BucketDelivered,
		domain.BucketRTODelivered,
		domain.BucketCanceled,
		domain.BucketLostDamaged,
		domain.BucketDisposed,
		domain.BucketReturnDelivered,
		domain.BucketReturnCancellation,
	}
	values := make([]int, 0, len(terminal))
	for _, b := range terminal {
		values = append(values, int(b))
	}
	return values
}
