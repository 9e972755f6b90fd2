package adapters

import (
	"context"
	"errors"
	"fmt"

	"shipgrid/internal/features/rates/domain"
	"shipgrid/internal/features/rates/ports"
	zones "shipgrid/internal/features/zones/domain"

	"gorm.io/gorm"
)

// PlanModel is the gorm mapping of a carrier's default pricing plan.
type PlanModel struct {
	CarrierID         string                     `gorm:"primaryKey;size:30"`
	ZoneRates         map[zones.Zone]domain.Rate `gorm:"serializer:json;type:jsonb"`
	WeightSlabKg      float64                    `gorm:"not null"`
	WeightIncrementKg float64                    `gorm:"not null"`
	CODFee            domain.CODFee              `gorm:"serializer:json;type:jsonb"`
}

// TableName maps the model to the pricing plans table.
func (PlanModel) TableName() string { return "pricing_plans" }

func (m *PlanModel) toDomain() domain.Plan {
	return domain.Plan{
		CarrierID:         m.CarrierID,
		ZoneRates:         m.ZoneRates,
		WeightSlabKg:      m.WeightSlabKg,
		WeightIncrementKg: m.WeightIncrementKg,
		CODFee:            m.CODFee,
	}
}

// OverrideModel is the gorm mapping of a seller pricing override. The
// composite primary key makes the (seller, carrier) fetch a single keyed read.
type OverrideModel struct {
	SellerID          string                     `gorm:"primaryKey;size:50"`
	CarrierID         string                     `gorm:"primaryKey;size:30"`
	ZoneRates         map[zones.Zone]domain.Rate `gorm:"serializer:json;type:jsonb"`
	WeightSlabKg      *float64
	WeightIncrementKg *float64
	CODFee            *domain.CODFee `gorm:"serializer:json;type:jsonb"`
}

// TableName maps the model to the pricing overrides table.
func (OverrideModel) TableName() string { return "pricing_overrides" }

func (m *OverrideModel) toDomain() *domain.Override {
	return &domain.Override{
		SellerID:          m.SellerID,
		CarrierID:         m.CarrierID,
		ZoneRates:         m.ZoneRates,
		WeightSlabKg:      m.WeightSlabKg,
		WeightIncrementKg: m.WeightIncrementKg,
		CODFee:            m.CODFee,
	}
}

// GormPlanStore implements ports.PlanStore and ports.OverrideStore on postgres.
type GormPlanStore struct {
	db *gorm.DB
}

// NewGormPlanStore creates a new GormPlanStore.
func NewGormPlanStore(db *gorm.DB) *GormPlanStore {
	return &GormPlanStore{db: db}
}

// Plan returns the default plan for a carrier.
func (s *GormPlanStore) Plan(ctx context.Context, carrierID string) (domain.Plan, error) {
	var row PlanModel
	err := s.db.WithContext(ctx).First(&row, "carrier_id = ?", carrierID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.Plan{}, fmt.Errorf("carrier %s: %w", carrierID, ports.ErrPlanNotFound)
	}
	if err != nil {
		return domain.Plan{}, fmt.Errorf("failed to load plan for %s: %w", carrierID, err)
	}

	return row.toDomain(), nil
}

// Override returns the seller's override for a carrier by primary key.
func (s *GormPlanStore) Override(ctx context.Context, sellerID, carrierID string) (*domain.Override, error) {
	var row OverrideModel
	err := s.db.WithContext(ctx).
		First(&row, "seller_id = ? AND carrier_id = ?", sellerID, carrierID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("seller %s carrier %s: %w", sellerID, carrierID, ports.ErrOverrideNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load override for %s/%s: %w", sellerID, carrierID, err)
	}

	return row.toDomain(), nil
}
