package adapters

import (
	"context"
	"errors"
	"fmt"

	"shipgrid/internal/features/pincode/ports"
	zones "shipgrid/internal/features/zones/domain"

	"gorm.io/gorm"
)

// PincodeModel is the gorm mapping of one pincode directory row.
type PincodeModel struct {
	Pincode  int    `gorm:"primaryKey"`
	District string `gorm:"size:100;not null"`
	State    string `gorm:"size:100;not null"`
}

// TableName maps the model to the pincode directory table.
func (PincodeModel) TableName() string { return "pincode_directory" }

// GormResolver implements ports.Resolver against the pincode directory table.
type GormResolver struct {
	db *gorm.DB
}

// NewGormResolver creates a new GormResolver.
func NewGormResolver(db *gorm.DB) *GormResolver {
	return &GormResolver{db: db}
}

// Resolve looks up a pincode. Unknown pincodes map to ports.ErrPincodeNotFound.
func (r *GormResolver) Resolve(ctx context.Context, pincode int) (zones.Region, error) {
	var row PincodeModel
	err := r.db.WithContext(ctx).First(&row, "pincode = ?", pincode).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return zones.Region{}, fmt.Errorf("pincode %d: %w", pincode, ports.ErrPincodeNotFound)
	}
	if err != nil {
		return zones.Region{}, fmt.Errorf("failed to resolve pincode %d: %w", pincode, err)
	}

	return zones.Region{District: row.District, State: row.State}, nil
}
